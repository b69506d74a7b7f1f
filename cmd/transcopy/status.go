package main

import (
	"fmt"

	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show config, page and trigger state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.Status(cmd.Context())

	snapshot := pterm.Green("ok")
	if st.SnapshotError != nil {
		snapshot = pterm.Red(st.SnapshotError.Error())
	}
	tab := pterm.Yellow("not found")
	if st.TabAttached {
		tab = pterm.Green("attached") + " " + pterm.Gray(st.TabNode)
	}

	tableData := pterm.TableData{
		{"Item", "Value"},
		{"Config", st.ConfigPath},
		{"Page source", st.Source},
		{"Origin", st.Origin},
		{"Snapshot", snapshot},
		{"Transcript tab", tab},
		{"Sidebar open", yesNo(st.SidebarOpen)},
		{"Transcript panel", yesNo(st.PanelFound)},
		{"Origin store", yesNo(st.OriginStore)},
		{"Template", fmt.Sprintf("%d bytes", st.TemplateChars)},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func yesNo(b bool) string {
	if b {
		return pterm.Green("yes")
	}
	return pterm.Gray("no")
}
