package trigger

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickprogramme/transcopy/internal/extract"
)

// TabLabelSelectors : libellés d'onglets candidats, par ordre de priorité.
var TabLabelSelectors = []string{
	`button[role="tab"] .ud-btn-label`,
	`button.tabs-module--nav-button--DtB8V .ud-btn-label`,
	`button.ud-nav-button .ud-btn-label`,
}

// ToggleSelector désigne le bouton qui ouvre/ferme la barre latérale.
const ToggleSelector = `button[data-purpose="transcript-toggle"]`

const tabLabel = "transcript"

// FindTranscriptTab renvoie le bouton de l'onglet « Transcript », ou nil.
func FindTranscriptTab(doc *goquery.Document) *goquery.Selection {
	for _, sel := range TabLabelSelectors {
		var found *goquery.Selection
		doc.Find(sel).EachWithBreak(func(_ int, label *goquery.Selection) bool {
			if normalized(label.Text()) != tabLabel {
				return true
			}
			button := label.Closest(`button[role="tab"]`)
			if button.Length() == 0 {
				button = label.Closest("button")
			}
			if button.Length() == 0 {
				return true
			}
			found = button
			return false
		})
		if found != nil {
			return found
		}
	}

	// repli : texte de n'importe quel onglet
	var found *goquery.Selection
	doc.Find(`button[role="tab"]`).EachWithBreak(func(_ int, button *goquery.Selection) bool {
		if strings.Contains(normalized(button.Text()), tabLabel) {
			found = button
			return false
		}
		return true
	})
	return found
}

// IsSidebarOpen : le bouton bascule existe et, soit il est déplié, soit le
// premier panneau trouvé n'est pas masqué. Sans bouton bascule : fermé.
func IsSidebarOpen(doc *goquery.Document) bool {
	toggle := doc.Find(ToggleSelector).First()
	if toggle.Length() == 0 {
		return false
	}
	if toggle.AttrOr("aria-expanded", "") == "true" {
		return true
	}
	for _, sel := range extract.PanelSelectors[:3] {
		panel := doc.Find(sel).First()
		if panel.Length() == 0 {
			continue
		}
		_, hidden := panel.Attr("hidden")
		return !hidden && !extract.HiddenStyle(panel.AttrOr("style", ""))
	}
	return false
}

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
