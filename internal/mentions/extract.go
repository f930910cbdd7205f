// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mentions extracts genetic variant mentions (rsIDs, HGVS protein and
// DNA notation, short substitution names) from abstract text with an LLM.
package mentions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pdiddy/deepgene/internal/literature"
	"github.com/pdiddy/deepgene/internal/llm"
	"github.com/pdiddy/deepgene/internal/metrics"
)

// MinTextChars is the shortest input worth sending to the model.
const MinTextChars = 10

var extractionPromptTmpl = template.Must(template.New("mutants").Parse(`Extract mutation and variant mentions from biomedical text.

Identify all genetic mutations, variants, and SNPs mentioned in the text.
Include rs numbers, protein mutations (p. notation), DNA mutations (c. notation),
and simple mutation names (e.g., V600E).

Input field "text": abstract or paper text to analyze for mutations.
Output field "mutants": list of all mutation identifiers found, for example
rs numbers (rs116515942), protein mutations (p.Gly12Asp), DNA mutations (c.35G>A),
simple mutations (V600E), gene variants, SNPs. Copy each identifier exactly as
written in the text. Return an empty list if there are none.

Respond with a JSON object {"mutants": [...]} and nothing else.

text:
{{.Text}}
`))

// responseSchema asks for {"mutants": [string]}.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mutants": {
			Type:        genai.TypeArray,
			Description: "Mutation identifiers found in the text",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"mutants"},
}

// Extractor finds variant mentions in text. An Extractor holds no per-call
// state and is safe for concurrent use if its client is.
type Extractor struct {
	client llm.Client
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used to report extraction failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns an Extractor backed by client.
func NewExtractor(client llm.Client, opts ...Option) *Extractor {
	e := &Extractor{client: client, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract returns the mentions the model finds in text, in the order it
// reports them. It returns an empty slice, never nil, when the text is too
// short, the call fails, or the output cannot be parsed.
func (e *Extractor) Extract(ctx context.Context, text string) (mentions []string) {
	if strings.TrimSpace(text) == "" || len([]rune(text)) < MinTextChars {
		metrics.ExtractionsTotal.WithLabelValues("skipped").Inc()
		return []string{}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("mention extraction panicked", zap.Any("panic", r))
			metrics.ExtractionsTotal.WithLabelValues("error").Inc()
			mentions = []string{}
		}
	}()

	sample := literature.Truncate(text, literature.MaxContentChars)
	prompt, err := renderPrompt(sample)
	if err != nil {
		e.logger.Warn("rendering extraction prompt", zap.Error(err))
		metrics.ExtractionsTotal.WithLabelValues("error").Inc()
		return []string{}
	}

	out, err := e.client.Generate(ctx, llm.Request{Prompt: prompt, Schema: responseSchema})
	if err != nil {
		e.logger.Warn("mention extraction failed", zap.Error(err))
		metrics.ExtractionsTotal.WithLabelValues("error").Inc()
		return []string{}
	}

	found, err := ParseMutants(out)
	if err != nil {
		e.logger.Warn("malformed extraction output", zap.Error(err), zap.String("output", literature.Truncate(out, 200)))
		metrics.ExtractionsTotal.WithLabelValues("malformed").Inc()
		return []string{}
	}

	metrics.ExtractionsTotal.WithLabelValues("ok").Inc()
	e.logger.Debug("extracted mentions", zap.Int("count", len(found)))
	return found
}

// ParseMutants decodes model output of the form {"mutants": [...]}. A bare
// JSON array and a fenced code block are accepted too. Every element must be
// a string; blank entries are dropped.
func ParseMutants(out string) ([]string, error) {
	raw := []byte(llm.StripCodeFence(out))

	var list []any
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parsing mutants array: %w", err)
		}
	} else {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("parsing mutants object: %w", err)
		}
		v, ok := obj["mutants"]
		if !ok || v == nil {
			return nil, fmt.Errorf("response has no mutants field")
		}
		list, ok = v.([]any)
		if !ok {
			return nil, fmt.Errorf("mutants is %T, not a list", v)
		}
	}

	mentions := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("mutants[%d] is %T, not a string", i, item)
		}
		if s = strings.TrimSpace(s); s != "" {
			mentions = append(mentions, s)
		}
	}
	return mentions, nil
}

func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
