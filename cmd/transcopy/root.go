package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/patrickprogramme/transcopy/internal/app"
	"github.com/patrickprogramme/transcopy/internal/assets"
	"github.com/patrickprogramme/transcopy/internal/bootstrap"
	"github.com/patrickprogramme/transcopy/internal/config"
	"github.com/patrickprogramme/transcopy/internal/logging"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "transcopy",
	Short: "Copy lecture transcripts into a prompt template",
	Long: `transcopy watches a lecture page and, when the Transcript tab is opened
(or Enter is pressed), copies the transcript merged into your prompt template.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TRANSCOPY_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// loadConfig : .env, fichier de config (créé si absent), surcharges, logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("lecture de %s : %w", envFile, err)
		}
	}

	if configPath == "" {
		configPath = bootstrap.DefaultConfigPath()
	}
	created, err := bootstrap.EnsureConfigPresent(configPath, assets.Embedded, assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("EnsureConfigPresent: %w", err)
	}

	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.WithComponent("cli")
	if created {
		log.Info().Str("path", configPath).Msg("default config created")
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	return err
}

// newApp construit l'application pour une sous-commande.
func newApp(tui ui.Interface) (*app.App, error) {
	return app.New(cfg, tui)
}
