package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/transcopy/internal/assets"
	"github.com/patrickprogramme/transcopy/internal/fsutil"
	"gopkg.in/yaml.v3"
)

const CurrentConfigVersion = 1

// Sources de page reconnues
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

// PageConfig décrit d'où viennent les snapshots du DOM.
type PageConfig struct {
	Source       string `yaml:"source"`
	SnapshotPath string `yaml:"snapshot_path"`
	EventsPath   string `yaml:"events_path"`
	ActionsPath  string `yaml:"actions_path"`
	URL          string `yaml:"url"`
	Origin       string `yaml:"origin"`
}

// StorageConfig : clé du modèle et emplacements des deux magasins.
type StorageConfig struct {
	Key          string `yaml:"key"`
	SettingsPath string `yaml:"settings_path"`
	OriginDBPath string `yaml:"origin_db_path"`
}

// struct pour les paramètres de configuration
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Storage StorageConfig `yaml:"storage"`

	Clipboard struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"clipboard"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Popup struct {
		Addr        string `yaml:"addr"`
		OpenBrowser bool   `yaml:"open_browser"`
	} `yaml:"popup"`

	ConfigVersion int `yaml:"config_version"`

	// v0 : clé du modèle au premier niveau, remplacée par storage.key
	LegacyTemplateKey string `yaml:"template_key,omitempty"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	c.Page.Source = SourceFile
	c.Page.SnapshotPath = "page.html"
	c.Page.EventsPath = "page.events.jsonl"
	c.Page.ActionsPath = "page.actions.jsonl"
	c.Page.Origin = "https://www.udemy.com"

	c.Storage.Key = "udemy-transcript-template"
	c.Storage.SettingsPath = "transcopy.settings.yaml"
	c.Storage.OriginDBPath = "transcopy.db"

	c.Clipboard.Enabled = true

	c.Log.Level = "info"
	c.Log.Format = "console"

	c.Popup.Addr = "127.0.0.1:8765"
	c.Popup.OpenBrowser = true

	c.ConfigVersion = CurrentConfigVersion
	return c
}

// Default renvoie une configuration par défaut, chemins résolus relativement à baseDir.
func Default(baseDir string) *Config {
	c := defaultConfig()
	c.resolvePaths(baseDir)
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué.
// Les chemins relatifs sont résolus par rapport au dossier du fichier de config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "transcopy.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// ApplyEnv applique les surcharges d'environnement (chargées éventuellement depuis .env).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c == nil {
		return
	}
	if v := strings.TrimSpace(getenv("TRANSCOPY_PAGE_URL")); v != "" {
		c.Page.URL = v
		c.Page.Source = SourceHTTP
	}
	if v := strings.TrimSpace(getenv("TRANSCOPY_SNAPSHOT")); v != "" {
		c.Page.SnapshotPath = filepath.Clean(v)
		c.Page.Source = SourceFile
	}
	if v := strings.TrimSpace(getenv("TRANSCOPY_LOG_LEVEL")); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Path retourne le chemin du fichier dont la config a été chargée (vide si Default).
func (c *Config) Path() string {
	return c.configFilePath
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	b, err := assets.Embedded.ReadFile(assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("lecture du modèle de configuration embarqué impossible : %w", err)
	}
	if err := fsutil.WriteFileAtomic(dstPath, b, 0o644); err != nil {
		return fmt.Errorf("échec d'écriture du fichier de configuration %s : %w", dstPath, err)
	}
	return nil
}

func (c *Config) normalizeConfig() {
	c.Page.Source = strings.TrimSpace(strings.ToLower(c.Page.Source))
	if c.Page.Source == "" {
		c.Page.Source = SourceFile
	}
	c.Page.URL = strings.TrimSpace(c.Page.URL)
	c.Page.Origin = strings.TrimRight(strings.TrimSpace(c.Page.Origin), "/")

	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = "udemy-transcript-template"
	}

	c.Log.Level = strings.TrimSpace(strings.ToLower(c.Log.Level))
	c.Log.Format = strings.TrimSpace(strings.ToLower(c.Log.Format))
	if c.Log.Format != "json" {
		c.Log.Format = "console"
	}

	if strings.TrimSpace(c.Popup.Addr) == "" {
		c.Popup.Addr = "127.0.0.1:8765"
	}
}

// resolvePaths rend absolus les chemins relatifs, par rapport à baseDir.
func (c *Config) resolvePaths(baseDir string) {
	resolve := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, filepath.Clean(p))
	}
	c.Page.SnapshotPath = resolve(c.Page.SnapshotPath)
	c.Page.EventsPath = resolve(c.Page.EventsPath)
	c.Page.ActionsPath = resolve(c.Page.ActionsPath)
	c.Storage.SettingsPath = resolve(c.Storage.SettingsPath)
	c.Storage.OriginDBPath = resolve(c.Storage.OriginDBPath)
}
