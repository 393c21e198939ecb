package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intention/cmd/intention/ui"
	"intention/internal/counter"
	"intention/internal/display"
	"intention/internal/holo"
	"intention/internal/intent"
	"intention/internal/logging"
	"intention/internal/repeater"
)

func runRepeater(cmd *cobra.Command, args []string) error {
	log := logging.L(logging.CategoryBoot)
	stdin := bufio.NewScanner(os.Stdin)

	fmt.Printf("Intention Repeater Sacred Geometry & Phi v%s\n\n", version)

	opts, err := gatherInputs(stdin, log)
	if err != nil {
		return err
	}

	engineOpts, renderer, err := gatherRunOptions()
	if err != nil {
		return err
	}

	fmt.Printf("Loading...%s\r", strings.Repeat(" ", 10))

	asm, err := intent.Assemble(*opts)
	if err != nil {
		return err
	}
	logging.L(logging.CategoryAssembly).Info("intention assembled",
		zap.String("size", humanize.Bytes(uint64(len(asm.Buffer)))),
		zap.Uint64("multiplier", asm.Multiplier),
		zap.Uint64("hash_multiplier", asm.HashMultiplier),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagTUI {
		return ui.Run(ctx, asm, engineOpts, renderer)
	}

	engine := repeater.New(asm, engineOpts, func(s repeater.Stats) {
		fmt.Printf("%s%s\r", renderer.Status(s.Seconds, s.Iterations, s.Frequency, asm.Display), strings.Repeat(" ", 5))
	})

	logging.L(logging.CategoryEngine).Info("repeat loop starting",
		zap.String("duration", engineOpts.Duration),
		zap.Float64("target_hz", engineOpts.TargetHz),
	)
	err = engine.Run(ctx)
	fmt.Println()
	return err
}

// gatherInputs assembles the intent.Options from flags, files, support
// files, and interactive prompts, in the original's order.
func gatherInputs(stdin *bufio.Scanner, log *zap.Logger) (*intent.Options, error) {
	opts := &intent.Options{Text: flagIntent}

	// Prompt for the intention only when no source was given at all.
	if flagIntent == "" && flagFile == "" && flagFile2 == "" && flagBoostLevel == 0 && !flagHoloLink {
		for {
			fmt.Print("Enter your Intention: ")
			if !stdin.Scan() {
				return nil, fmt.Errorf("no intention entered")
			}
			opts.Text = strings.TrimSpace(stdin.Text())
			if opts.Text != "" {
				break
			}
			fmt.Println("The intention cannot be empty. Please try again.")
		}
	}

	for _, path := range []string{flagFile, flagFile2} {
		if path == "" {
			continue
		}
		contents, err := intent.ReadFile(path)
		if err != nil {
			// File not found terminates the process.
			return nil, err
		}
		opts.Sources = append(opts.Sources, intent.Source{Label: "(" + path + ")", Text: contents})
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	if flagBoostLevel > 0 {
		label, text, err := holo.BoostSource(wd, flagBoostLevel)
		if err != nil {
			return nil, err
		}
		opts.Sources = append(opts.Sources, intent.Source{Label: label, Text: text})
	}
	if flagHoloLink {
		label, text, err := holo.HololinkSource(wd)
		if err != nil {
			return nil, err
		}
		opts.Sources = append(opts.Sources, intent.Source{Label: label, Text: text})
	}

	// RAM prompt, defaulting to 1 GB on empty or junk input.
	imem := flagIMem
	if imem == "" {
		fmt.Printf("GB RAM to Use [Default %g]: ", intent.DefaultMemoryGB)
		if stdin.Scan() {
			imem = strings.TrimSpace(stdin.Text())
		}
	}
	gb, ok := intent.ParseMemoryGB(imem)
	if !ok {
		fmt.Printf("Invalid memory size %q, using default of %g GB.\n", imem, gb)
		log.Warn("unparseable --imem, using default", zap.String("value", imem))
	}
	opts.MemoryGB = gb

	opts.Hashing = promptYesNo(stdin, flagHashing, "Use Hashing (y/N): ")
	opts.Compress = promptYesNo(stdin, flagCompress, "Use Compression (y/N): ")
	return opts, nil
}

// gatherRunOptions resolves the loop flags into engine options and a
// status renderer, warning about a malformed duration.
func gatherRunOptions() (repeater.Options, *display.Renderer, error) {
	timer, err := repeater.ParseTimer(flagTimer)
	if err != nil {
		return repeater.Options{}, nil, err
	}
	mode, err := display.ParseSuffixMode(flagSuffix)
	if err != nil {
		return repeater.Options{}, nil, err
	}
	renderer, err := display.NewRenderer(flagColor, mode)
	if err != nil {
		return repeater.Options{}, nil, err
	}
	if flagDuration != "" {
		if _, err := counter.ParseClock(flagDuration); err != nil {
			fmt.Printf("Warning: %v; running without a limit.\n", err)
		}
	}
	return repeater.Options{
		Duration:  flagDuration,
		Timer:     timer,
		Amplify:   flagAmplify,
		RestEvery: flagRestEvery,
		RestFor:   flagRestFor,
		TargetHz:  flagFreq,
	}, renderer, nil
}

// promptYesNo resolves a y/n flag, prompting when it was not supplied.
func promptYesNo(stdin *bufio.Scanner, flagValue, prompt string) bool {
	answer := flagValue
	if answer == "" {
		fmt.Print(prompt)
		if stdin.Scan() {
			answer = stdin.Text()
		}
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
