package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFromEmbedded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcopy.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "le fichier par défaut doit être créé")

	assert.Equal(t, SourceFile, cfg.Page.Source)
	assert.Equal(t, filepath.Join(dir, "page.html"), cfg.Page.SnapshotPath)
	assert.Equal(t, filepath.Join(dir, "transcopy.db"), cfg.Storage.OriginDBPath)
	assert.Equal(t, "udemy-transcript-template", cfg.Storage.Key)
	assert.Equal(t, "https://www.udemy.com", cfg.Page.Origin)
	assert.True(t, cfg.Clipboard.Enabled)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcopy.yaml")
	content := strings.Join([]string{
		"config_version: 1",
		"page:",
		"  source: HTTP",
		"  url: https://example.test/lecture/1",
		"  origin: https://example.test/",
		"log:",
		"  format: weird",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceHTTP, cfg.Page.Source)
	assert.Equal(t, "https://example.test", cfg.Page.Origin)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "udemy-transcript-template", cfg.Storage.Key)
	assert.Equal(t, "127.0.0.1:8765", cfg.Popup.Addr)
}

func TestLoad_MigratesOldVersionWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config_version: 0\ntemplate_key: my-course-template\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentConfigVersion, cfg.ConfigVersion)
	assert.Equal(t, "my-course-template", cfg.Storage.Key)
	assert.Empty(t, cfg.LegacyTemplateKey)

	backups, err := filepath.Glob(path + ".bak.*")
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "config_version: 1")
	assert.Contains(t, string(rewritten), "key: my-course-template")
	assert.NotContains(t, string(rewritten), "template_key")
}

func TestLoad_CurrentVersionIgnoresLegacyKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config_version: 1\ntemplate_key: ignored\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "udemy-transcript-template", cfg.Storage.Key)

	backups, err := filepath.Glob(path + ".bak.*")
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default(t.TempDir())
	env := map[string]string{
		"TRANSCOPY_PAGE_URL":  "https://example.test/course",
		"TRANSCOPY_LOG_LEVEL": "DEBUG",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, SourceHTTP, cfg.Page.Source)
	assert.Equal(t, "https://example.test/course", cfg.Page.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		wantWarns int
	}{
		{
			name:      "missing snapshot is a warning",
			mutate:    func(c *Config) {},
			wantWarns: 1,
		},
		{
			name: "bad url",
			mutate: func(c *Config) {
				c.Page.Source = SourceHTTP
				c.Page.URL = "not a url"
			},
			wantErr: true,
		},
		{
			name: "unknown source",
			mutate: func(c *Config) {
				c.Page.Source = "ftp"
			},
			wantErr: true,
		},
		{
			name: "http without origin",
			mutate: func(c *Config) {
				c.Page.Source = SourceHTTP
				c.Page.URL = "https://example.test/x"
				c.Page.Origin = ""
			},
			wantWarns: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(cfg)
			warns, err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}
