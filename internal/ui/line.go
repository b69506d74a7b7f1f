package ui

import (
	"context"

	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/pterm/pterm"
)

// lineUI : notifications imprimées ligne par ligne, sans zone ni entrée.
// Pour les commandes ponctuelles (copy, extract, status).
type lineUI struct{}

func NewLine() Interface {
	return lineUI{}
}

func (lineUI) Notify(n model.Notice) {
	pterm.Println(styled(n))
}

// FABPresses : pas d'entrée, canal déjà fermé.
func (lineUI) FABPresses(context.Context) <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (lineUI) WaitForExit(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (lineUI) PrintInfo(_ context.Context, s string) {
	pterm.Info.Println(s)
}

func (lineUI) PrintError(_ context.Context, s string) {
	pterm.Error.Println(s)
}
