// Package logging provides config-driven categorized file logging for the
// intention tools. Logs are written to ~/.intention/logs/ with one file per
// category. Logging is controlled by logging.debug_mode in the config:
// when false, no log files are written and every logger is a nop.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"intention/internal/config"
)

// Category represents a log category.
type Category string

const (
	CategoryBoot      Category = "boot"      // startup, config resolution
	CategoryAssembly  Category = "assembly"  // intention assembly steps
	CategoryEngine    Category = "engine"    // repeat loop lifecycle
	CategoryBroadcast Category = "broadcast" // UDP send loop
	CategoryFiles     Category = "files"     // Holo-Link / nesting file writes
	CategoryServitor  Category = "servitor"  // servitor lifecycle and tasks
)

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*zap.Logger)
	nop     = zap.NewNop()
	cfg     config.LoggingConfig
	logsDir string
	enabled bool
)

// Init wires the logger to the config and state directory. Safe to skip:
// without Init every category logger is a nop.
func Init(c config.LoggingConfig, stateDir string) error {
	mu.Lock()
	defer mu.Unlock()

	cfg = c
	enabled = c.DebugMode
	loggers = make(map[Category]*zap.Logger)
	if !enabled {
		return nil
	}
	logsDir = filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	return nil
}

// L returns the logger for a category. Categories disabled in the config,
// or everything when debug_mode is off, get a nop logger.
func L(cat Category) *zap.Logger {
	mu.RLock()
	if !enabled || !categoryEnabled(cat) {
		mu.RUnlock()
		return nop
	}
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	l, err := build(cat)
	if err != nil {
		return nop
	}
	loggers[cat] = l
	return l
}

// Sync flushes every open logger. Call on exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
}

func categoryEnabled(cat Category) bool {
	if cfg.Categories == nil {
		return true
	}
	on, ok := cfg.Categories[string(cat)]
	return ok && on
}

func build(cat Category) (*zap.Logger, error) {
	path := filepath.Join(logsDir, string(cat)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.EpochMillisTimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(f),
		parseLevel(cfg.Level),
	)
	return zap.New(core, zap.Fields(zap.String("cat", string(cat)))), nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
