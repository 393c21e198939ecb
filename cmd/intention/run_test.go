package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intention/internal/holo"
	"intention/internal/repeater"
)

func scannerFor(input string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(input))
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		flagValue string
		input     string
		want      bool
	}{
		{"y", "", true},
		{"Y", "", true},
		{"yes", "", true},
		{"n", "", false},
		{"", "y\n", true},
		{"", "YES\n", true},
		{"", "\n", false},
		{"", "", false}, // EOF counts as no
	}
	for _, tt := range tests {
		got := promptYesNo(scannerFor(tt.input), tt.flagValue, "? ")
		if got != tt.want {
			t.Errorf("promptYesNo(flag=%q, input=%q) = %v, want %v", tt.flagValue, tt.input, got, tt.want)
		}
	}
}

func TestGatherRunOptions(t *testing.T) {
	flagTimer = "INEXACT"
	flagSuffix = "EXP"
	flagColor = "LIGHTGREEN"
	flagDuration = "00:01:00"
	flagAmplify = 500
	flagRestEvery = 60
	flagRestFor = 10
	flagFreq = 3.5
	t.Cleanup(resetFlags)

	opts, renderer, err := gatherRunOptions()
	require.NoError(t, err)
	require.NotNil(t, renderer)
	assert.Equal(t, repeater.TimerInexact, opts.Timer)
	assert.Equal(t, "00:01:00", opts.Duration)
	assert.Equal(t, uint64(500), opts.Amplify)
	assert.Equal(t, 60, opts.RestEvery)
	assert.Equal(t, 10, opts.RestFor)
	assert.Equal(t, 3.5, opts.TargetHz)
}

func TestGatherRunOptionsRejectsBadColor(t *testing.T) {
	flagColor = "CHARTREUSE"
	t.Cleanup(resetFlags)

	_, _, err := gatherRunOptions()
	require.Error(t, err)
}

func TestGatherRunOptionsRejectsBadTimer(t *testing.T) {
	flagTimer = "FUZZY"
	t.Cleanup(resetFlags)

	_, _, err := gatherRunOptions()
	require.Error(t, err)
}

func TestHelpFlagShorthand(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("help")
	require.NotNil(t, f)
	assert.Equal(t, "?", f.Shorthand)
}

func TestFilesSubcommands(t *testing.T) {
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	require.NoError(t, filesNestingCmd.RunE(filesNestingCmd, nil))
	require.NoError(t, filesHoloCmd.RunE(filesHoloCmd, nil))

	for _, name := range []string{holo.IntentionsFile, holo.HololinkFile, "NEST1.TXT", "NEST100.TXT"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func resetFlags() {
	flagIntent = ""
	flagIMem = ""
	flagDuration = ""
	flagHashing = ""
	flagCompress = ""
	flagFile = ""
	flagFile2 = ""
	flagFreq = 0
	flagBoostLevel = 0
	flagAmplify = 1
	flagRestEvery = 0
	flagRestFor = 0
	flagHoloLink = false
	flagColor = "WHITE"
	flagSuffix = "HZ"
	flagTimer = "EXACT"
	flagTUI = false
}
