package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/pterm/pterm"
)

type terminalUI struct {
	in     io.Reader
	reader *bufio.Reader
	area   *areaRenderer
	toast  *Toast

	once    sync.Once
	presses chan struct{}
}

// NewTerminal : notifications dans une zone pterm, bouton flottant sur Entrée.
func NewTerminal() Interface {
	return newTerminal(os.Stdin)
}

func newTerminal(in io.Reader) *terminalUI {
	area := &areaRenderer{}
	return &terminalUI{
		in:      in,
		reader:  bufio.NewReader(in),
		area:    area,
		toast:   NewToast(area, DefaultVisible, DefaultExit),
		presses: make(chan struct{}, 1),
	}
}

func (t *terminalUI) Notify(n model.Notice) {
	t.toast.Notify(n)
}

// FABPresses démarre (une seule fois) la lecture de stdin.
// Les appuis pendant qu'un signal est en attente sont fusionnés.
func (t *terminalUI) FABPresses(ctx context.Context) <-chan struct{} {
	t.once.Do(func() {
		go func() {
			defer close(t.presses)
			for {
				if _, err := t.reader.ReadString('\n'); err != nil {
					return
				}
				select {
				case t.presses <- struct{}{}:
				case <-ctx.Done():
					return
				default:
				}
			}
		}()
	})
	return t.presses
}

func (t *terminalUI) WaitForExit(ctx context.Context) error {
	fmt.Println("\nAppuyez sur Entrée pour copier la transcription, Ctrl+C pour quitter.")

	// Prépare le canal pour les signaux d'interruption
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	defer t.toast.Close()
	defer t.area.stop()
	defer t.closeInput()

	select {
	case <-ctx.Done(): // Context annulé ailleurs
		return ctx.Err()
	case <-sigCh: // Reçu Ctrl+C (SIGINT ou SIGTERM)
		return nil
	}
}

// closeInput débloque la goroutine de FABPresses. Sur un tty, fermer stdin
// n'interrompt pas une lecture en cours : elle se termine avec le processus.
func (t *terminalUI) closeInput() {
	if c, ok := t.in.(io.Closer); ok {
		_ = c.Close()
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	pterm.Info.Println(s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	pterm.Error.Println(s)
}
