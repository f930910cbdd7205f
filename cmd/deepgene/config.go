// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/deepgene/internal/evidence"
	"github.com/pdiddy/deepgene/internal/genedata"
	"github.com/pdiddy/deepgene/internal/literature"
	"github.com/pdiddy/deepgene/internal/llm"
	"github.com/pdiddy/deepgene/internal/mentions"
	"github.com/pdiddy/deepgene/internal/secrets"
	"github.com/pdiddy/deepgene/pkg/types"
)

// envKeyReplacer maps nested keys to env names: fetch.timeout -> DEEPGENE_FETCH_TIMEOUT.
var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults() {
	viper.SetDefault("fetch.timeout", literature.DefaultTimeout)
	viper.SetDefault("fetch.user_agent", literature.DefaultUserAgent)
	viper.SetDefault("ai.backend", string(types.BackendGemini))
	viper.SetDefault("ai.max_tokens", llm.DefaultMaxTokens)
	viper.SetDefault("enhance.concurrency", 1)
	viper.SetDefault("gene_data.timeout", genedata.DefaultTimeout)
	viper.SetDefault("gene_data.max_retries", 3)
	viper.SetDefault("history.max_results", 20)
	if dir, err := configDir(); err == nil {
		viper.SetDefault("history.path", filepath.Join(dir, "history.db"))
	}
}

// pipelineConfig assembles the typed configuration from viper. Zero-valued
// durations fall back to the package defaults.
func pipelineConfig() types.PipelineConfig {
	backend := types.AIBackendName(strings.ToLower(viper.GetString("ai.backend")))
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		apiKey = secrets.APIKey(loadedSecrets, backend)
	}

	return types.PipelineConfig{
		Fetch: types.FetchConfig{HTTPConfig: types.HTTPConfig{
			Timeout:   durationOr(viper.GetDuration("fetch.timeout"), literature.DefaultTimeout),
			UserAgent: viper.GetString("fetch.user_agent"),
		}},
		AI: types.AIConfig{
			Backend:   backend,
			Model:     viper.GetString("ai.model"),
			APIKey:    apiKey,
			MaxTokens: viper.GetInt("ai.max_tokens"),
		},
		Enhance: types.EnhanceConfig{
			Concurrency: viper.GetInt("enhance.concurrency"),
		},
		GeneData: types.GeneDataConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationOr(viper.GetDuration("gene_data.timeout"), genedata.DefaultTimeout),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			MaxRetries: viper.GetInt("gene_data.max_retries"),
		},
		History: types.HistoryConfig{
			Path:       viper.GetString("history.path"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// pipeline holds the evidence components shared by the commands.
type pipeline struct {
	cfg       types.PipelineConfig
	client    llm.Client
	fetcher   *literature.Fetcher
	extractor *mentions.Extractor
	merger    *evidence.Merger
}

// newFetcher builds the content fetcher alone; it needs no API key.
func newFetcher(cfg types.PipelineConfig) *literature.Fetcher {
	return literature.NewFetcher(cfg.Fetch, literature.WithLogger(logger.Named("literature")))
}

// newPipeline builds the fetcher, the LLM client, the extractor and the
// merger from cfg.
func newPipeline(cfg types.PipelineConfig) (*pipeline, error) {
	client, err := llm.New(cfg.AI)
	if err != nil {
		return nil, err
	}
	fetcher := newFetcher(cfg)
	extractor := mentions.NewExtractor(client, mentions.WithLogger(logger.Named("mentions")))
	merger := evidence.NewMerger(fetcher, extractor,
		evidence.WithLogger(logger.Named("evidence")),
		evidence.WithConcurrency(cfg.Enhance.Concurrency),
	)
	return &pipeline{cfg: cfg, client: client, fetcher: fetcher, extractor: extractor, merger: merger}, nil
}
