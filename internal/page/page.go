// Package page abstrait la page hôte : lecture de snapshots du DOM, clic
// simulé, et flux d'événements (changements de structure, clics utilisateur).
package page

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// ErrReadOnly : la page ne permet pas de clic simulé.
	ErrReadOnly = errors.New("page: read-only, simulated clicks unsupported")
	// ErrNoMatch : aucun élément ne correspond au sélecteur.
	ErrNoMatch = errors.New("page: no element matches selector")
)

// Page est la page hôte telle que vue par transcopy.
type Page interface {
	// Origin identifie l'origine de la page (scheme://host).
	Origin() string
	// Snapshot renvoie l'état courant du DOM.
	Snapshot(ctx context.Context) (*goquery.Document, error)
	// Click simule un clic sur le premier élément correspondant à selector.
	Click(ctx context.Context, selector string) error
}

// Change signale une modification de structure du DOM.
type Change struct {
	At time.Time
}

// Watcher est implémenté par les pages capables de signaler leurs changements.
// Chaque appel à Watch ouvre un nouvel abonnement, fermé à l'annulation de ctx.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Change, error)
}

// UserClick est un clic de l'utilisateur sur la page, identifié par un sélecteur
// qui désigne l'élément cible.
type UserClick struct {
	Selector string    `json:"selector"`
	At       time.Time `json:"at"`
}

// ClickSource est implémenté par les pages qui relaient les clics utilisateur.
type ClickSource interface {
	Clicks(ctx context.Context) (<-chan UserClick, error)
}

// NodeKey calcule une identité stable pour un élément : le chemin depuis la
// racine (tag et rang parmi les frères de même tag), raccourci au premier
// ancêtre qui porte un id. Deux snapshots du même DOM donnent la même clé.
func NodeKey(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := attr(cur, "id"); id != "" {
			parts = append(parts, cur.Data+"#"+id)
			break
		}
		idx := 0
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == cur.Data {
				idx++
			}
		}
		parts = append(parts, cur.Data+"["+strconv.Itoa(idx)+"]")
	}
	// inverser : racine d'abord
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Parse construit un document goquery depuis du HTML brut.
func Parse(raw string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(raw))
}
