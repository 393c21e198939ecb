package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intention/internal/config"
	"intention/internal/logging"
)

const version = "1.6.0"

var (
	// Global flags
	flagIntent     string
	flagIMem       string
	flagDuration   string
	flagHashing    string
	flagCompress   string
	flagFile       string
	flagFile2      string
	flagFreq       float64
	flagBoostLevel int
	flagAmplify    uint64
	flagRestEvery  int
	flagRestFor    int
	flagHoloLink   bool
	flagColor      string
	flagSuffix     string
	flagTimer      string
	flagTUI        bool
	flagConfigPath string

	cfg *config.Config
)

// rootCmd repeats the intention; the flag surface mirrors the classic
// tools, so string y/n flags stay strings.
var rootCmd = &cobra.Command{
	Use:   "intention",
	Short: "Repeats your intention millions of times per second in memory",
	Long: `Intention Repeater, Sacred Geometry & Phi edition.

Repeats your intention millions of times per second in computer memory,
to aid in manifestation. The working buffer is laid out across the 13
nodes of Metatron's Cube with golden-ratio chunk sizes; each repeat pass
walks the node connections.

Missing inputs (the intention, RAM, hashing, compression) are prompted
for interactively, exactly like the original.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfigPath
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		stateDir, err := config.StateDir()
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.Logging, stateDir); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		applyConfigDefaults(cmd)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runRepeater,
}

// applyConfigDefaults fills flags the user did not set from the config
// file, so precedence is flag > env > file > built-in.
func applyConfigDefaults(cmd *cobra.Command) {
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("imem") && cfg.Repeater.MemoryGB != 1.0 {
		flagIMem = fmt.Sprintf("%g", cfg.Repeater.MemoryGB)
	}
	if !flags.Changed("hashing") {
		flagHashing = cfg.Repeater.Hashing
	}
	if !flags.Changed("compress") {
		flagCompress = cfg.Repeater.Compress
	}
	if !flags.Changed("color") {
		flagColor = cfg.Repeater.Color
	}
	if !flags.Changed("suffix") {
		flagSuffix = cfg.Repeater.Suffix
	}
	if !flags.Changed("timer") {
		flagTimer = cfg.Repeater.Timer
	}
	if !flags.Changed("amplify") && cfg.Repeater.Amplify > 0 {
		flagAmplify = cfg.Repeater.Amplify
	}
	if !flags.Changed("restevery") {
		flagRestEvery = cfg.Repeater.RestEvery
	}
	if !flags.Changed("restfor") {
		flagRestFor = cfg.Repeater.RestFor
	}
	if !flags.Changed("boostlevel") {
		flagBoostLevel = cfg.Repeater.BoostLevel
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagIntent, "intent", "i", "", "the intention, e.g. --intent \"I am Love.\"")
	pf.StringVarP(&flagIMem, "imem", "m", "", "GB of RAM to use; 0 disables intention multiplying")
	pf.StringVarP(&flagDuration, "dur", "d", "", "running duration HH:MM:SS")
	pf.StringVar(&flagHashing, "hashing", "", "y/n: repeat the SHA-256 digest of the buffer")
	pf.StringVarP(&flagCompress, "compress", "c", "", "y/n: zlib-compress the buffer")
	pf.StringVarP(&flagFile, "file", "f", "", "file to read intentions from")
	pf.StringVar(&flagFile2, "file2", "", "second file to read intentions from")
	pf.Float64Var(&flagFreq, "freq", 0, "target repetitions per second; 0 is unbounded")
	pf.IntVarP(&flagBoostLevel, "boostlevel", "b", 0, "nesting level 0-100; uses INTENTIONS.TXT and NEST files")
	pf.Uint64VarP(&flagAmplify, "amplify", "a", 1, "repeats charged per pass with the INEXACT timer")
	pf.IntVar(&flagRestEvery, "restevery", 0, "rest after this many seconds of repeating")
	pf.IntVar(&flagRestFor, "restfor", 0, "rest for this many seconds")
	pf.BoolVar(&flagHoloLink, "usehololink", false, "include HSUPLINK.TXT in the intention")
	pf.StringVar(&flagColor, "color", "WHITE", "status line color")
	pf.StringVar(&flagSuffix, "suffix", "HZ", "HZ letter suffixes or EXP scientific notation")
	pf.StringVar(&flagTimer, "timer", "EXACT", "EXACT rechecks the clock; INEXACT is faster")
	pf.BoolVar(&flagTUI, "tui", false, "run the full-screen dashboard instead of the status line")
	pf.StringVar(&flagConfigPath, "config", "", "config file (default ~/.intention/config.yaml)")

	// The classic tool spelled the help alias -?, so the default -h is
	// replaced with it.
	pf.BoolP("help", "?", false, "help for intention")

	rootCmd.AddCommand(filesCmd, servitorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
