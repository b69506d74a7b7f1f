package ui

import (
	"sync"

	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/pterm/pterm"
)

// areaRenderer dessine la notification dans une zone pterm réécrite sur place.
type areaRenderer struct {
	mu   sync.Mutex
	area *pterm.AreaPrinter
}

func (a *areaRenderer) Show(n model.Notice) {
	a.update(styled(n))
}

func (a *areaRenderer) Leave(n model.Notice) {
	a.update(pterm.Gray(n.Message))
}

func (a *areaRenderer) Hide() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.area != nil {
		a.area.Clear()
	}
}

func (a *areaRenderer) update(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.area == nil {
		area, err := pterm.DefaultArea.Start()
		if err != nil {
			// pas de zone possible (sortie non interactive) : simple ligne
			pterm.Println(text)
			return
		}
		a.area = area
	}
	a.area.Update(text)
}

func (a *areaRenderer) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.area != nil {
		_ = a.area.Stop()
		a.area = nil
	}
}

func styled(n model.Notice) string {
	if n.Kind == model.NoticeError {
		return pterm.Error.Sprint(n.Message)
	}
	return pterm.Success.Sprint(n.Message)
}
