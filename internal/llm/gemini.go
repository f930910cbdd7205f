// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through google.golang.org/genai. The
// underlying genai client is created on first use and reused afterwards.
type GeminiClient struct {
	APIKey    string
	Model     string
	MaxTokens int

	// BaseURL and HTTPClient override the API endpoint, for tests.
	BaseURL    string
	HTTPClient *http.Client

	once    sync.Once
	client  *genai.Client
	initErr error
}

func (g *GeminiClient) init(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:     g.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.HTTPClient,
		}
		if g.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
		}
		g.client, g.initErr = genai.NewClient(ctx, cfg)
		if g.initErr != nil {
			g.initErr = fmt.Errorf("creating genai client: %w", g.initErr)
		}
	})
	return g.client, g.initErr
}

// Generate sends one prompt and returns the concatenated response text.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	client, err := g.init(ctx)
	if err != nil {
		return "", err
	}

	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini API returned empty content")
	}
	return text, nil
}
