// Package extract retrouve le texte de la transcription dans un snapshot du DOM.
//
// Les noms de classes de la page hôte sont suffixés par des hachages qui
// changent à chaque déploiement : on ne s'appuie que sur des sous-chaînes
// stables et on enchaîne plusieurs stratégies, de la plus précise à la plus
// grossière.
package extract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/samber/lo"
)

// ErrNotFound : aucun panneau, ou aucun texte exploitable dans le panneau.
var ErrNotFound = errors.New("extract: transcript not found")

// PanelSelectors : candidats pour le panneau, par ordre de priorité.
var PanelSelectors = []string{
	`[data-purpose="transcript-panel"]`,
	`[class*="transcript-panel"]`,
	`[class*="sidebar--transcript"]`,
	`[class*="transcript--transcript-panel"]`,
}

// CueSelectors : candidats pour les blocs de sous-titres, par ordre de priorité.
var CueSelectors = []string{
	`[class*="transcript--cue-container"]`,
	`[class*="cue-container"]`,
	`[data-purpose*="cue"]`,
}

const (
	fragmentSelector = "span, p, div"
	scanMinRunes     = 6 // "plus de 5 caractères"
	fragmentSep      = "\n\n"
)

// Extractor applique la chaîne cues -> scan -> texte rendu.
// Les sélecteurs sont compilés une fois ; un Extractor est sûr en concurrence.
type Extractor struct {
	panels    []cascadia.Selector
	cues      []cascadia.Selector
	fragments cascadia.Selector
	svg       cascadia.Selector
}

// New compile les sélecteurs par défaut.
func New() *Extractor {
	return &Extractor{
		panels:    lo.Map(PanelSelectors, func(s string, _ int) cascadia.Selector { return cascadia.MustCompile(s) }),
		cues:      lo.Map(CueSelectors, func(s string, _ int) cascadia.Selector { return cascadia.MustCompile(s) }),
		fragments: cascadia.MustCompile(fragmentSelector),
		svg:       cascadia.MustCompile("svg"),
	}
}

// Extract renvoie la transcription et la stratégie qui l'a produite.
// ok=false si rien n'a été trouvé.
func (e *Extractor) Extract(doc *goquery.Document) (string, model.Strategy, bool) {
	if doc == nil {
		return "", model.StrategyNone, false
	}
	panel := e.Panel(doc.Selection)
	if panel == nil {
		return "", model.StrategyNone, false
	}

	if text := e.fromCues(panel); text != "" {
		return text, model.StrategyCues, true
	}
	if text := e.fromScan(panel); text != "" {
		return text, model.StrategyScan, true
	}
	if text := fromRendered(panel); text != "" {
		return text, model.StrategyRendered, true
	}
	return "", model.StrategyNone, false
}

// Panel renvoie le panneau de transcription : premier sélecteur qui trouve
// quelque chose, premier élément dans l'ordre du document. nil si absent.
func (e *Extractor) Panel(root *goquery.Selection) *goquery.Selection {
	for _, m := range e.panels {
		if found := root.FindMatcher(m).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func (e *Extractor) fromCues(panel *goquery.Selection) string {
	var cues *goquery.Selection
	for _, m := range e.cues {
		if cues = panel.FindMatcher(m); cues.Length() > 0 {
			break
		}
	}
	if cues == nil || cues.Length() == 0 {
		return ""
	}

	var fragments []string
	cues.Each(func(_ int, cue *goquery.Selection) {
		var parts []string
		cue.FindMatcher(e.fragments).Each(func(_ int, el *goquery.Selection) {
			if e.isControl(el) {
				return
			}
			if t := strings.TrimSpace(el.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text := strings.Join(parts, " ")
		if strings.TrimSpace(text) == "" {
			text = cue.Text()
		}
		if text = collapse(text); text != "" {
			fragments = append(fragments, text)
		}
	})
	return strings.Join(fragments, fragmentSep)
}

func (e *Extractor) fromScan(panel *goquery.Selection) string {
	var texts []string
	panel.FindMatcher(e.fragments).Each(func(_ int, el *goquery.Selection) {
		if e.isControl(el) {
			return
		}
		if class := el.AttrOr("class", ""); strings.Contains(class, "time") || strings.Contains(class, "button") {
			return
		}
		if t := strings.TrimSpace(el.Text()); utf8.RuneCountInString(t) >= scanMinRunes {
			texts = append(texts, t)
		}
	})
	texts = lo.Uniq(texts)
	texts = lo.FilterMap(texts, func(t string, _ int) (string, bool) {
		c := collapse(t)
		return c, c != ""
	})
	return strings.Join(texts, fragmentSep)
}

// isControl : horodatage, icône ou bouton.
func (e *Extractor) isControl(el *goquery.Selection) bool {
	if strings.Contains(el.AttrOr("class", ""), "transcript--time") {
		return true
	}
	if el.FindMatcher(e.svg).Length() > 0 {
		return true
	}
	if el.AttrOr("role", "") == "button" {
		return true
	}
	return el.Closest("button").Length() > 0
}

// collapse réduit chaque suite de blancs à un espace.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
