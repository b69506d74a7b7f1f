package main

import (
	"github.com/patrickprogramme/transcopy/internal/logging"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Serve the template settings page on a local address",
	Args:  cobra.NoArgs,
	RunE:  runPopup,
}

func init() {
	popupCmd.Flags().String("addr", "", "listen address (default from config)")
	popupCmd.Flags().Bool("no-browser", false, "do not open the browser")
	rootCmd.AddCommand(popupCmd)
}

func runPopup(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	log := logging.WithComponent("cli")
	return a.Popup(cmd.Context(), addr, func(url string) {
		pterm.Info.Printf("Settings: %s (Ctrl+C to stop)\n", url)
		if noBrowser || !cfg.Popup.OpenBrowser {
			return
		}
		if err := browser.OpenURL(url); err != nil {
			log.Warn().Err(err).Msg("could not open browser")
		}
	})
}
