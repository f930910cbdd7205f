// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors shared by the
// literature evidence pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Literature fetches by strategy (pubmed, scrape) and outcome
	// (found, no_match, error).
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepgene_literature_fetches_total",
			Help: "Total number of literature content fetches",
		},
		[]string{"strategy", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepgene_literature_fetch_duration_seconds",
			Help:    "Literature fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"strategy"},
	)

	// Mention extraction calls by outcome (ok, skipped, error, malformed).
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepgene_mention_extractions_total",
			Help: "Total number of mention extraction attempts",
		},
		[]string{"outcome"},
	)

	CitationsEnhanced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepgene_citations_processed_total",
			Help: "Citations processed by the evidence merger",
		},
		[]string{"result"},
	)

	MentionsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deepgene_mentions_added_total",
			Help: "Mentions added to citations by evidence merging",
		},
	)
)
