// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genedata fetches deterministic gene facts from MyGene.info and
// formats them as context for the gene-information model.
package genedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/deepgene/internal/httputil"
	"github.com/pdiddy/deepgene/pkg/types"
)

// MyGene.info endpoints. Package-level vars for test substitution.
var (
	queryBase = "https://mygene.info/v3/query"
	geneBase  = "https://mygene.info/v3/gene/"
)

// DefaultTimeout bounds each MyGene.info request.
const DefaultTimeout = 5 * time.Second

// Fields requested from the gene endpoint.
const geneFields = "symbol,name,summary," +
	"go.BP,go.MF,go.CC," +
	"pathway.reactome,pathway.wikipathways,pathway.kegg," +
	"MIM,generif,genomic_pos," +
	"entrezgene,ensembl.gene"

// Client queries MyGene.info.
type Client struct {
	retrier   *httputil.Retrier
	userAgent string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewClient returns a Client configured from cfg. A nil logger is replaced
// with a no-op logger.
func NewClient(cfg types.GeneDataConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		retrier: &httputil.Retrier{
			Client:     &http.Client{},
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		},
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

// Fetch resolves symbol to an Entrez gene id and returns its parsed record.
// It returns (nil, nil) when MyGene.info knows no human gene by that symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (*types.GeneData, error) {
	if symbol == "" {
		return nil, nil
	}
	log := c.logger.With(zap.String("symbol", symbol))

	q := url.Values{}
	q.Set("q", "symbol:"+symbol)
	q.Set("species", "human")
	q.Set("fields", "entrezgene")
	q.Set("size", "1")

	var hits struct {
		Hits []map[string]any `json:"hits"`
	}
	if err := c.getJSON(ctx, queryBase+"?"+q.Encode(), &hits); err != nil {
		return nil, fmt.Errorf("querying gene symbol %s: %w", symbol, err)
	}
	if len(hits.Hits) == 0 {
		log.Warn("no gene data found for symbol")
		return nil, nil
	}
	id, ok := toInt64(hits.Hits[0]["entrezgene"])
	if !ok {
		log.Warn("no gene id found for symbol")
		return nil, nil
	}

	g := url.Values{}
	g.Set("fields", geneFields)

	var record map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s%d?%s", geneBase, id, g.Encode()), &record); err != nil {
		return nil, fmt.Errorf("fetching gene %d: %w", id, err)
	}
	if len(record) == 0 {
		log.Warn("no detailed data found for gene id", zap.Int64("entrezgene", id))
		return nil, nil
	}

	data := ParseResponse(record, symbol)
	log.Debug("fetched gene data", zap.Int64("entrezgene", id))
	return &data, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.retrier.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("MyGene.info returned %d: %s", resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
