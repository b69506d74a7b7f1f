package main

import (
	"errors"
	"fmt"

	"github.com/patrickprogramme/transcopy/internal/extract"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the extracted transcript and the strategy used (nothing is copied)",
	Args:  cobra.NoArgs,
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().Bool("quiet", false, "print the transcript only")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Extract(cmd.Context())
	if errors.Is(err, extract.ErrNotFound) {
		pterm.Error.Println(model.MsgNotFound)
		return err
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if !quiet {
		pterm.Info.Printf("strategy: %s, attempts: %d\n", res.Strategy, res.Attempts)
	}
	// stdout brut : redirigeable vers un fichier
	fmt.Println(res.Text)
	return nil
}
