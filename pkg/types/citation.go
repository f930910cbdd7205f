// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deepgene pipeline:
// AI-asserted citations, gene database records, lookup dossiers, and the
// typed configuration for each stage.
package types

import (
	"fmt"
	"net/url"
)

// Citation is a single literature reference asserted by the gene-information
// model. The evidence pipeline only ever rewrites Mentions.
type Citation struct {
	// FunctionalRelevance describes why the paper matters for the variant.
	FunctionalRelevance string `json:"functional_relevance" yaml:"functional_relevance"`

	// Mentions lists variant identifiers (rsIDs, p./c. notation, short
	// substitutions such as V600E). May contain duplicates before a merge.
	Mentions []string `json:"mutants" yaml:"mutants"`

	// SourceURL is the absolute URL of the paper.
	SourceURL string `json:"url" yaml:"url"`
}

// Validate reports whether SourceURL is an absolute http or https URL.
func (c Citation) Validate() error {
	u, err := url.Parse(c.SourceURL)
	if err != nil {
		return fmt.Errorf("invalid citation url %q: %w", c.SourceURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("citation url %q: scheme must be http or https", c.SourceURL)
	}
	if u.Host == "" {
		return fmt.Errorf("citation url %q: missing host", c.SourceURL)
	}
	return nil
}

// MentionCount returns the total number of mentions across citations.
func MentionCount(citations []Citation) int {
	n := 0
	for _, c := range citations {
		n += len(c.Mentions)
	}
	return n
}
