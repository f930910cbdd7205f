// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the Generative AI APIs used to extract mentions and to
// generate gene information. Each backend turns a prompt plus an optional
// JSON response schema into the model's raw text.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/deepgene/pkg/types"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultClaudeModel = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens   = 4096
)

// Client generates text from a prompt. Implementations must be safe for
// concurrent use.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn generation request.
type Request struct {
	// System is an optional system instruction.
	System string

	// Prompt is the user message.
	Prompt string

	// Schema, when set, asks for a JSON response matching it.
	Schema *genai.Schema
}

// New builds the client selected by cfg.Backend. An empty APIKey falls back
// to the provider's conventional environment variables.
func New(cfg types.AIConfig) (Client, error) {
	switch cfg.Backend {
	case "", types.BackendGemini:
		key := cfg.APIKey
		if key == "" {
			key = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("gemini backend: no API key (set GEMINI_API_KEY or GOOGLE_API_KEY)")
		}
		return &GeminiClient{APIKey: key, Model: cfg.Model, MaxTokens: cfg.MaxTokens}, nil
	case types.BackendClaude:
		key := cfg.APIKey
		if key == "" {
			key = firstEnv("ANTHROPIC_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("claude backend: no API key (set ANTHROPIC_API_KEY)")
		}
		return &ClaudeClient{APIKey: key, Model: cfg.Model, MaxTokens: cfg.MaxTokens}, nil
	default:
		return nil, fmt.Errorf("unknown AI backend %q", cfg.Backend)
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// StripCodeFence removes a surrounding ```json ... ``` fence that models
// sometimes add around JSON output.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
