package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intention/internal/broadcast"
	"intention/internal/config"
	"intention/internal/intent"
	"intention/internal/logging"
)

const version = "1.1.0"

var (
	flagIntent     string
	flagFile       string
	flagAddr       string
	flagPort       int
	flagDelay      time.Duration
	flagConfigPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "broadcaster",
	Short: "Broadcasts your intention over the local network as UDP packets",
	Long: `WiFi Broadcaster.

Broadcasts the intention string as UDP datagrams to 255.255.255.255:11111
at an unbounded rate, printing a counter every 100000 sends. An intention
ending in .txt is read from that file.`,
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
		flags := cmd.Flags()
		if !flags.Changed("addr") {
			flagAddr = cfg.Broadcast.Addr
		}
		if !flags.Changed("port") {
			flagPort = cfg.Broadcast.Port
		}
		if !flags.Changed("delay") && cfg.Broadcast.DelayMS > 0 {
			flagDelay = time.Duration(cfg.Broadcast.DelayMS) * time.Millisecond
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runBroadcast,
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	log := logging.L(logging.CategoryBroadcast)

	payload, displayText, err := resolveIntention()
	if err != nil {
		return err
	}

	b, err := broadcast.New(broadcast.Options{
		Addr:  flagAddr,
		Port:  flagPort,
		Delay: flagDelay,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	fmt.Printf("Broadcasting: %s...\n", displayText)
	log.Info("broadcast starting",
		zap.String("target", b.Target()),
		zap.Int("payload_bytes", len(payload)),
		zap.Duration("delay", flagDelay),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = b.Run(ctx, []byte(payload), func(sent uint64) {
		fmt.Printf("Intention sent %d times.\r", sent)
	})
	fmt.Println()
	if err != nil {
		log.Error("broadcast stopped", zap.Error(err))
		return err
	}
	return nil
}

// resolveIntention picks the payload from flags or the interactive prompt.
// A typed answer containing .txt names a file; a missing file reprompts,
// as the original did.
func resolveIntention() (payload, displayText string, err error) {
	if flagFile != "" {
		contents, err := intent.ReadFile(flagFile)
		if err != nil {
			return "", "", err
		}
		return contents, flagFile, nil
	}
	if flagIntent != "" {
		return flagIntent, flagIntent, nil
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter Intention (or Textfile): ")
		if !stdin.Scan() {
			return "", "", fmt.Errorf("no intention entered")
		}
		answer := strings.TrimSpace(stdin.Text())
		if answer == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(answer), ".txt") {
			return answer, answer, nil
		}
		if _, statErr := os.Stat(answer); statErr != nil {
			fmt.Println("File does not exist.")
			continue
		}
		fmt.Println("Reading from textfile...")
		contents, err := intent.ReadFile(answer)
		if err != nil {
			return "", "", err
		}
		fmt.Println("Finished reading.")
		return contents, answer, nil
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagIntent, "intent", "i", "", "the intention to broadcast")
	flags.StringVarP(&flagFile, "file", "f", "", "file to read the intention from")
	flags.StringVar(&flagAddr, "addr", broadcast.DefaultAddr, "broadcast address")
	flags.IntVar(&flagPort, "port", broadcast.DefaultPort, "broadcast port")
	flags.DurationVar(&flagDelay, "delay", 0, "pause between sends, e.g. 1s; 0 is unbounded")
	flags.StringVar(&flagConfigPath, "config", "", "config file (default ~/.intention/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
