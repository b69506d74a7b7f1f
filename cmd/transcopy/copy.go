package main

import (
	"fmt"

	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the transcript once (same flow as the floating button)",
	Args:  cobra.NoArgs,
	RunE:  runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	// la notification a déjà été affichée
	outcome, err := a.CopyOnce(cmd.Context())
	if err != nil {
		return err
	}
	switch outcome {
	case model.OutcomeCopied, model.OutcomeBusy:
		return nil
	default:
		return fmt.Errorf("copy: %s", outcome)
	}
}
