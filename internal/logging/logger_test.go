package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intention/internal/config"
)

func TestDisabledLoggingWritesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := Init(config.LoggingConfig{DebugMode: false}, dir); err != nil {
		t.Fatal(err)
	}

	L(CategoryEngine).Info("should go nowhere")
	Sync()

	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not exist when debug_mode is off")
	}
}

func TestEnabledLoggingWritesCategoryFile(t *testing.T) {
	dir := t.TempDir()
	err := Init(config.LoggingConfig{DebugMode: true, Level: "info"}, dir)
	if err != nil {
		t.Fatal(err)
	}

	L(CategoryEngine).Info("repeat loop starting")
	Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "engine.log"))
	if err != nil {
		t.Fatalf("engine.log not written: %v", err)
	}
	if !strings.Contains(string(raw), "repeat loop starting") {
		t.Errorf("log entry missing, got: %s", raw)
	}
	if !strings.Contains(string(raw), `"cat":"engine"`) {
		t.Errorf("category field missing, got: %s", raw)
	}
}

func TestCategoryFilterDisablesOthers(t *testing.T) {
	dir := t.TempDir()
	err := Init(config.LoggingConfig{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"engine": true},
	}, dir)
	if err != nil {
		t.Fatal(err)
	}

	L(CategoryEngine).Info("kept")
	L(CategoryBroadcast).Info("filtered")
	Sync()

	if _, err := os.Stat(filepath.Join(dir, "logs", "engine.log")); err != nil {
		t.Errorf("engine.log should exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "broadcast.log")); !os.IsNotExist(err) {
		t.Error("broadcast.log should not exist when filtered out")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	if err := Init(config.LoggingConfig{DebugMode: true, Level: "error"}, dir); err != nil {
		t.Fatal(err)
	}

	L(CategoryBoot).Info("below threshold")
	Sync()

	raw, _ := os.ReadFile(filepath.Join(dir, "logs", "boot.log"))
	if strings.Contains(string(raw), "below threshold") {
		t.Error("info entry should be filtered at error level")
	}
}
