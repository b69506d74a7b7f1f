package page

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickprogramme/transcopy/internal/fetch"
)

// HTTPPage lit la page par HTTP à chaque snapshot. Lecture seule : pas de clic
// simulé, pas de flux d'événements (le coordinateur se rabat sur le polling).
type HTTPPage struct {
	url     string
	origin  string
	fetcher *fetch.Fetcher
}

// NewHTTPPage ; si origin est vide il est déduit de rawURL.
func NewHTTPPage(rawURL, origin string, f *fetch.Fetcher) *HTTPPage {
	if f == nil {
		f = fetch.New()
	}
	if origin == "" {
		if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
			origin = u.Scheme + "://" + u.Host
		}
	}
	return &HTTPPage{url: rawURL, origin: origin, fetcher: f}
}

func (p *HTTPPage) Origin() string { return p.origin }

func (p *HTTPPage) Snapshot(ctx context.Context) (*goquery.Document, error) {
	body, err := p.fetcher.Bytes(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("http page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http page: parse: %w", err)
	}
	return doc, nil
}

func (p *HTTPPage) Click(_ context.Context, selector string) error {
	return fmt.Errorf("%w (%s)", ErrReadOnly, selector)
}
