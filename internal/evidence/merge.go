// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence grounds AI-generated citations in their sources. For each
// citation it fetches the cited content, extracts variant mentions from it, and
// unions them into the citation's asserted mentions.
package evidence

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/deepgene/internal/metrics"
	"github.com/pdiddy/deepgene/pkg/types"
)

// Fetcher retrieves bounded text content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, bool)
}

// Extractor finds variant mentions in text.
type Extractor interface {
	Extract(ctx context.Context, text string) []string
}

// Merger enhances citations with mentions found in their sources.
type Merger struct {
	fetcher     Fetcher
	extractor   Extractor
	logger      *zap.Logger
	concurrency int
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Merger) { m.logger = l }
}

// WithConcurrency sets how many citations are processed at once. Values
// below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(m *Merger) { m.concurrency = n }
}

// NewMerger returns a Merger that fetches with f and extracts with e.
func NewMerger(f Fetcher, e Extractor, opts ...Option) *Merger {
	m := &Merger{fetcher: f, extractor: e, logger: zap.NewNop(), concurrency: 1}
	for _, o := range opts {
		o(m)
	}
	if m.concurrency < 1 {
		m.concurrency = 1
	}
	return m
}

// Enhance updates the Mentions of each citation in place and returns the same
// slice. Only Mentions change. A citation whose content cannot be retrieved,
// or whose processing fails, keeps its mentions as they were.
func (m *Merger) Enhance(ctx context.Context, citations []types.Citation) []types.Citation {
	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range citations {
		c := &citations[i]
		g.Go(func() error {
			m.enhanceOne(ctx, i, c)
			return nil
		})
	}
	_ = g.Wait()
	return citations
}

// enhanceOne processes a single citation. Each goroutine owns exactly one
// element of the slice.
func (m *Merger) enhanceOne(ctx context.Context, index int, c *types.Citation) {
	log := m.logger.With(zap.Int("citation", index), zap.String("url", c.SourceURL))
	original := c.Mentions

	defer func() {
		if r := recover(); r != nil {
			c.Mentions = original
			log.Error("citation enhancement panicked", zap.Any("panic", r))
			metrics.CitationsEnhanced.WithLabelValues("error").Inc()
		}
	}()

	text, ok := m.fetcher.Fetch(ctx, c.SourceURL)
	if !ok {
		log.Debug("no content for citation")
		metrics.CitationsEnhanced.WithLabelValues("no_content").Inc()
		return
	}

	extracted := m.extractor.Extract(ctx, text)
	merged := Union(original, extracted)
	added := len(merged) - len(distinct(original))
	c.Mentions = merged

	metrics.MentionsAdded.Add(float64(added))
	if added > 0 {
		metrics.CitationsEnhanced.WithLabelValues("enhanced").Inc()
	} else {
		metrics.CitationsEnhanced.WithLabelValues("unchanged").Inc()
	}
	log.Debug("enhanced citation",
		zap.Int("extracted", len(extracted)),
		zap.Int("added", added),
	)
}

// Union returns every distinct value of a and b exactly once: a's values in
// first-seen order, then b's new values in order. Comparison is exact and
// case-sensitive.
func Union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func distinct(a []string) []string {
	return Union(a, nil)
}
