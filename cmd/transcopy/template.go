package main

import (
	"fmt"
	"io"
	"os"

	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "View, edit or reset the prompt template",
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(ui.NewLine())
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Println(a.Editor().Load(cmd.Context()))
		return nil
	},
}

var templateSaveCmd = &cobra.Command{
	Use:   "save [text]",
	Short: "Save a new template (argument, --file, or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplateSave,
}

var templateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Show the default template; --save to store it",
	Args:  cobra.NoArgs,
	RunE:  runTemplateReset,
}

func init() {
	templateSaveCmd.Flags().StringP("file", "f", "", "read the template from a file")
	templateResetCmd.Flags().Bool("save", false, "store the default template")

	templateCmd.AddCommand(templateShowCmd, templateSaveCmd, templateResetCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	var input string
	switch {
	case len(args) == 1:
		input = args[0]
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("lecture de %s : %w", file, err)
		}
		input = string(b)
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("lecture de stdin : %w", err)
		}
		input = string(b)
	}

	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	notice, err := a.Editor().Save(cmd.Context(), input)
	printNotice(notice)
	return err
}

func runTemplateReset(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")

	a, err := newApp(ui.NewLine())
	if err != nil {
		return err
	}
	defer a.Close()

	text, notice := a.Editor().Reset()
	fmt.Println(text)
	printNotice(notice)
	if !save {
		return nil
	}
	notice, err = a.Editor().Save(cmd.Context(), text)
	printNotice(notice)
	return err
}

func printNotice(n model.Notice) {
	if n.Kind == model.NoticeError {
		pterm.Error.Println(n.Message)
		return
	}
	pterm.Success.Println(n.Message)
}
