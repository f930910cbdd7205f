// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deepgene CLI: variant lookups with
// AI gene narratives whose literature citations are grounded by fetching the
// cited abstracts and extracting the variant mentions they contain.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/deepgene/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in PersistentPreRunE from --verbose.
var logger = zap.NewNop()

var metricsServer *http.Server

// rootCmd is the base command for the deepgene CLI.
var rootCmd = &cobra.Command{
	Use:   "deepgene",
	Short: "Gene variant research with evidence-grounded literature",
	Long: `deepgene looks up a variant (rsID) on its positional gene, combines
MyGene.info data with an AI-generated gene narrative, and grounds every
literature citation in its source: the abstract is fetched (PubMed efetch or
page scraping), variant mentions are extracted from it, and merged into the
citation's asserted mentions.

The evidence pipeline stages are also available on their own: fetch,
extract, and enhance.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}

		if addr := viper.GetString("metrics.addr"); addr != "" {
			startMetricsServer(addr)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		}
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./deepgene.yaml or ~/.config/deepgene/deepgene.yaml)")
	pf.BoolP("verbose", "v", false, "development logging at debug level")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :2112)")
	pf.String("ai-backend", "", "AI backend: gemini or claude (default gemini)")
	pf.String("model", "", "AI model identifier")
	pf.Duration("timeout", 0, "per-request timeout for literature fetches (default 10s)")

	bindFlag("verbose", "verbose")
	bindFlag("metrics.addr", "metrics-addr")
	bindFlag("ai.backend", "ai-backend")
	bindFlag("ai.model", "model")
	bindFlag("fetch.timeout", "timeout")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	// .env may supply GEMINI_API_KEY, GOOGLE_API_KEY or ANTHROPIC_API_KEY.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deepgene")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if dir, err := configDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}

	setDefaults()
	viper.SetEnvPrefix("DEEPGENE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configDir returns ~/.config/deepgene.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "deepgene"), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics server listening", zap.String("address", addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
