// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature retrieves abstract text for AI-asserted citations.
// PubMed URLs are resolved to an accession and fetched through the
// E-utilities API; every other URL is scraped for an abstract. Failures never
// escape: callers get content or nothing.
package literature

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/deepgene/internal/metrics"
	"github.com/pdiddy/deepgene/pkg/types"
)

const (
	// DefaultTimeout bounds each literature request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the scraper to journal sites.
	DefaultUserAgent = "Mozilla/5.0 (compatible; DeepGene/1.0; Research Tool)"
)

// Status explains why a Result does or does not carry content.
type Status int

const (
	// StatusFound means Text holds retrieved content.
	StatusFound Status = iota
	// StatusNoMatch means the source was reachable but had no abstract.
	StatusNoMatch
	// StatusError means a transport, HTTP, or parse failure occurred.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNoMatch:
		return "no_match"
	default:
		return "error"
	}
}

// Result is the outcome of one retrieval.
type Result struct {
	Text   string
	Status Status
	Err    error
}

// OK reports whether the result carries content.
func (r Result) OK() bool {
	return r.Status == StatusFound
}

func found(text string) Result {
	return Result{Text: Truncate(text, MaxContentChars), Status: StatusFound}
}

func noMatch() Result {
	return Result{Status: StatusNoMatch}
}

func failed(format string, args ...any) Result {
	return Result{Status: StatusError, Err: fmt.Errorf(format, args...)}
}

// Retriever fetches content through one strategy. The target is a PubMed
// accession for the structured strategy and a URL for the scrape strategy.
type Retriever interface {
	Name() string
	Retrieve(ctx context.Context, target string) Result
}

// Fetcher routes citation URLs to a retrieval strategy.
type Fetcher struct {
	structured Retriever
	scrape     Retriever
	logger     *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used to report failed fetches.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithStructured replaces the structured (PubMed) retriever.
func WithStructured(r Retriever) Option {
	return func(f *Fetcher) { f.structured = r }
}

// WithScrape replaces the generic scrape retriever.
func WithScrape(r Retriever) Option {
	return func(f *Fetcher) { f.scrape = r }
}

// NewFetcher builds a Fetcher with PubMed and scrape retrievers sharing one
// HTTP client configured from cfg.
func NewFetcher(cfg types.FetchConfig, opts ...Option) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := &http.Client{Timeout: timeout}

	f := &Fetcher{
		structured: &PubMedRetriever{Client: client, UserAgent: userAgent, Timeout: timeout},
		scrape:     &ScrapeRetriever{Client: client, UserAgent: userAgent, Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the abstract text for url, or false when none could be
// retrieved for any reason.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	r := f.FetchResult(ctx, url)
	return r.Text, r.OK()
}

// FetchResult is Fetch with the reason for an absent result preserved.
func (f *Fetcher) FetchResult(ctx context.Context, url string) (result Result) {
	retriever, target := f.scrape, url
	if pmid, ok := ResolvePMID(url); ok {
		retriever, target = f.structured, pmid
	}

	log := f.logger.With(
		zap.String("url", url),
		zap.String("strategy", retriever.Name()),
		zap.String("source", Classify(url).String()),
	)

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			log.Error("literature fetch panicked", zap.Any("panic", p))
			result = failed("retrieval panicked: %v", p)
		}
		metrics.FetchDuration.WithLabelValues(retriever.Name()).Observe(time.Since(start).Seconds())
		metrics.FetchesTotal.WithLabelValues(retriever.Name(), result.Status.String()).Inc()
	}()

	result = retriever.Retrieve(ctx, target)
	if result.Status == StatusFound && strings.TrimSpace(result.Text) == "" {
		result = noMatch()
	}
	switch result.Status {
	case StatusFound:
		result.Text = Truncate(result.Text, MaxContentChars)
		log.Debug("fetched literature content", zap.Int("chars", charLen(result.Text)))
	case StatusNoMatch:
		log.Warn("no abstract found")
	default:
		log.Warn("failed to fetch literature", zap.Error(result.Err))
	}
	return result
}
