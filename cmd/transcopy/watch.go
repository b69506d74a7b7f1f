package main

import (
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the page and copy the transcript when the Transcript tab is opened",
	Long: `Watch the lecture page. Opening the Transcript tab copies the transcript;
pressing Enter acts as the floating copy button (opens the sidebar first if needed).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(ui.NewTerminal())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Watch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
