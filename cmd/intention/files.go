package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intention/internal/holo"
	"intention/internal/logging"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Generate the Holo-Link and nesting support files",
}

var filesHoloCmd = &cobra.Command{
	Use:   "holo",
	Short: "Create HSUPLINK.TXT and INTENTIONS.TXT in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := holo.CreateHololinkFiles(wd); err != nil {
			return err
		}
		logging.L(logging.CategoryFiles).Info("holo-link files created", zap.String("dir", wd))
		fmt.Printf("Created %s and %s.\n", holo.HololinkFile, holo.IntentionsFile)
		fmt.Printf("Edit %s with your intentions, then run with --usehololink.\n", holo.IntentionsFile)
		return nil
	},
}

var filesNestingCmd = &cobra.Command{
	Use:   "nesting",
	Short: "Create NEST1.TXT through NEST100.TXT in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := holo.CreateNestingFiles(wd); err != nil {
			return err
		}
		logging.L(logging.CategoryFiles).Info("nesting files created", zap.String("dir", wd))
		fmt.Printf("Created %s and the NEST1-NEST100 chain.\n", holo.IntentionsFile)
		fmt.Printf("Edit %s with your intentions, then run with --boostlevel.\n", holo.IntentionsFile)
		return nil
	},
}

func init() {
	filesCmd.AddCommand(filesHoloCmd)
	filesCmd.AddCommand(filesNestingCmd)
}
