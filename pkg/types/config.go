package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds every request (default 10s for literature fetches).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for literature content retrieval.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`
}

// AIBackendName selects the language-model provider.
type AIBackendName string

const (
	BackendGemini AIBackendName = "gemini"
	BackendClaude AIBackendName = "claude"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Backend selects the provider: gemini (default) or claude.
	Backend AIBackendName `json:"backend" yaml:"backend"`

	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// EnhanceConfig holds settings for the evidence merge stage.
type EnhanceConfig struct {
	// Concurrency is the number of citations processed at once (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// GeneDataConfig holds settings for the MyGene.info client.
type GeneDataConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retries on HTTP 429 and 503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the lookup history store.
type HistoryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of rows listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	AI       AIConfig       `json:"ai" yaml:"ai"`
	Enhance  EnhanceConfig  `json:"enhance" yaml:"enhance"`
	GeneData GeneDataConfig `json:"gene_data" yaml:"gene_data"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
