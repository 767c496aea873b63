// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the thesis-extract CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built from --log-format and log.level before any command runs.
	logger = zerolog.Nop()

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets = secrets.Secrets{}
)

// rootCmd is the base command for the thesis-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "thesis-extract",
	Short: "Extract structured records from Chinese graduate theses",
	Long: `thesis-extract turns a thesis document (PDF, Word, Markdown, or plain text)
into a structured record: bibliographic cover fields, abstracts and keywords,
references, the table of contents, and AI analyses of the chapters.

Records are cached per document; later runs reuse the cached record unless
--force is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(os.Stderr, viper.GetString("log.format"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug().Int("count", len(s)).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./thesis-extract.yaml or ~/.config/thesis-extract/thesis-extract.yaml)")
	pf.String("log-format", "console", "log output: console or json")
	pf.String("log-level", "info", "log level: debug, info, warn, or error")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of API key files")

	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("thesis-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "thesis-extract"))
		}
	}

	viper.SetEnvPrefix("THESIS_EXTRACT")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	switch format {
	case "json":
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q: use console or json", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
