package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIntentionFromFlag(t *testing.T) {
	flagIntent = "I am Love."
	t.Cleanup(func() { flagIntent = "" })

	payload, display, err := resolveIntention()
	require.NoError(t, err)
	assert.Equal(t, "I am Love.", payload)
	assert.Equal(t, "I am Love.", display)
}

func TestResolveIntentionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.txt")
	require.NoError(t, os.WriteFile(path, []byte("world peace"), 0o644))
	flagFile = path
	t.Cleanup(func() { flagFile = "" })

	payload, display, err := resolveIntention()
	require.NoError(t, err)
	assert.Equal(t, "world peace", payload)
	assert.Equal(t, path, display)
}

func TestResolveIntentionMissingFile(t *testing.T) {
	flagFile = filepath.Join(t.TempDir(), "absent.txt")
	t.Cleanup(func() { flagFile = "" })

	_, _, err := resolveIntention()
	require.Error(t, err)
}

func TestPreRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("broadcast:\n  port: 70000\n"), 0o644))
	flagConfigPath = path
	t.Cleanup(func() { flagConfigPath = "" })

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}
