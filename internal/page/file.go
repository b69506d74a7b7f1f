package page

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"github.com/patrickprogramme/transcopy/internal/fsutil"
	"github.com/rs/zerolog"
)

// FilePage lit la page depuis des fichiers écrits par un relais navigateur :
//   - snapshotPath : HTML rendu, réécrit à chaque mutation du DOM ;
//   - eventsPath   : JSONL des clics utilisateur ({"selector": ..., "at": ...}) ;
//   - actionsPath  : JSONL des actions demandées au relais (clics simulés).
type FilePage struct {
	snapshotPath string
	eventsPath   string
	actionsPath  string
	origin       string
	log          zerolog.Logger
}

// FileAction est une ligne du journal d'actions.
type FileAction struct {
	Action   string    `json:"action"`
	Selector string    `json:"selector"`
	At       time.Time `json:"at"`
}

func NewFilePage(snapshotPath, eventsPath, actionsPath, origin string, log zerolog.Logger) *FilePage {
	return &FilePage{
		snapshotPath: filepath.Clean(snapshotPath),
		eventsPath:   filepath.Clean(eventsPath),
		actionsPath:  filepath.Clean(actionsPath),
		origin:       origin,
		log:          log,
	}
}

func (p *FilePage) Origin() string { return p.origin }

func (p *FilePage) Snapshot(_ context.Context) (*goquery.Document, error) {
	f, err := os.Open(p.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("file page: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("file page: parse %s: %w", p.snapshotPath, err)
	}
	return doc, nil
}

// Click vérifie que selector désigne un élément du snapshot courant puis
// demande le clic au relais via le journal d'actions.
func (p *FilePage) Click(ctx context.Context, selector string) error {
	doc, err := p.Snapshot(ctx)
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	line, err := json.Marshal(FileAction{Action: "click", Selector: selector, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("file page: encode action: %w", err)
	}
	if err := fsutil.AppendLine(p.actionsPath, line); err != nil {
		return fmt.Errorf("file page: %w", err)
	}
	return nil
}

// Watch signale chaque réécriture du snapshot. Les rafales d'événements
// fsnotify sont fusionnées : un seul Change en attente à la fois.
func (p *FilePage) Watch(ctx context.Context) (<-chan Change, error) {
	events, err := p.watchFile(ctx, p.snapshotPath)
	if err != nil {
		return nil, err
	}
	out := make(chan Change, 1)
	go func() {
		defer close(out)
		for range events {
			select {
			case out <- Change{At: time.Now()}:
			default:
			}
		}
	}()
	return out, nil
}

// Clicks suit le journal des clics utilisateur à partir de sa fin actuelle :
// les clics antérieurs au démarrage sont ignorés.
func (p *FilePage) Clicks(ctx context.Context) (<-chan UserClick, error) {
	var offset int64
	if info, err := os.Stat(p.eventsPath); err == nil {
		offset = info.Size()
	}
	events, err := p.watchFile(ctx, p.eventsPath)
	if err != nil {
		return nil, err
	}

	out := make(chan UserClick, 16)
	go func() {
		defer close(out)
		var pending []byte
		for range events {
			clicks, next, rest, err := readClicks(p.eventsPath, offset, pending)
			if err != nil {
				p.log.Warn().Err(err).Str("path", p.eventsPath).Msg("read click events")
				continue
			}
			offset, pending = next, rest
			for _, c := range clicks {
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// watchFile renvoie un signal par écriture/création/renommage de path.
// On surveille le dossier parent : les relais écrivent souvent par
// fichier temporaire + rename, ce qui casse une surveillance du fichier seul.
func (p *FilePage) watchFile(ctx context.Context, path string) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file page: new watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("file page: mkdir %s: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("file page: watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn().Err(err).Str("dir", dir).Msg("watcher error")
			}
		}
	}()
	return out, nil
}

// readClicks lit les lignes complètes ajoutées depuis offset.
// Un fichier tronqué (plus court que offset) est relu depuis le début.
func readClicks(path string, offset int64, pending []byte) ([]UserClick, int64, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, pending, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, offset, pending, err
	}
	if info.Size() < offset {
		offset, pending = 0, nil
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, pending, err
	}
	chunk, err := io.ReadAll(f)
	if err != nil {
		return nil, offset, pending, err
	}
	offset += int64(len(chunk))

	buf := append(pending, chunk...)
	var clicks []UserClick
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSpace(buf[:i])
		buf = buf[i+1:]
		if len(line) == 0 {
			continue
		}
		var c UserClick
		if err := json.Unmarshal(line, &c); err != nil || c.Selector == "" {
			continue
		}
		clicks = append(clicks, c)
	}
	return clicks, offset, append([]byte(nil), buf...), nil
}
