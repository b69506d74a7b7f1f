package templatestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/patrickprogramme/transcopy/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// FileBackend range les valeurs dans un fichier YAML (map clé -> valeur).
// C'est le magasin "privilégié", propre à l'utilisateur.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path renvoie l'emplacement du fichier.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value

	b, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	if err := fsutil.WriteFileAtomic(f.path, b, 0o600); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

// read charge le fichier ; un fichier absent équivaut à une map vide.
func (f *FileBackend) read() (map[string]string, error) {
	if f.path == "" {
		return nil, errors.New("file store: chemin vide")
	}
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("file store: read %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", f.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
