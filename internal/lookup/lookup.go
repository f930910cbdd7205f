// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup assembles a variant research dossier: deterministic gene data
// from MyGene.info, the model's gene narrative, and literature citations
// grounded by the evidence merger.
package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/deepgene/internal/genedata"
	"github.com/pdiddy/deepgene/pkg/types"
)

// Annotations accepted by Lookup.
const (
	AnnotationIntronic   = "intronic"
	AnnotationDownstream = "downstream"
)

// GeneSource fetches deterministic gene data. A nil record with a nil error
// means the gene is unknown.
type GeneSource interface {
	Fetch(ctx context.Context, symbol string) (*types.GeneData, error)
}

// InfoGenerator produces the gene narrative and candidate citations.
type InfoGenerator interface {
	Generate(ctx context.Context, q Query) (types.GeneInfo, error)
}

// Enhancer grounds citations in their sources.
type Enhancer interface {
	Enhance(ctx context.Context, citations []types.Citation) []types.Citation
}

// Recorder persists completed lookups.
type Recorder interface {
	Record(ctx context.Context, d types.Dossier) error
}

// Service runs variant lookups.
type Service struct {
	genes     GeneSource
	generator InfoGenerator
	enhancer  Enhancer
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGeneSource enables MyGene.info enrichment.
func WithGeneSource(g GeneSource) Option {
	return func(s *Service) { s.genes = g }
}

// WithRecorder records each successful lookup.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service that generates with gen and enhances with enh.
func NewService(gen InfoGenerator, enh Enhancer, opts ...Option) *Service {
	s := &Service{generator: gen, enhancer: enh, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ValidateAnnotation reports whether a is a supported genomic annotation.
func ValidateAnnotation(a string) error {
	switch a {
	case AnnotationIntronic, AnnotationDownstream:
		return nil
	}
	return fmt.Errorf("unsupported annotation %q (want %s or %s)", a, AnnotationIntronic, AnnotationDownstream)
}

// Lookup researches one variant. Gene data and recording failures are logged
// and do not fail the lookup; a generation failure does.
func (s *Service) Lookup(ctx context.Context, rsid, annotation, positionalGene string) (*types.Dossier, error) {
	rsid = strings.TrimSpace(rsid)
	if rsid == "" {
		return nil, fmt.Errorf("rsid is required")
	}
	if err := ValidateAnnotation(annotation); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("rsid", rsid))

	d := &types.Dossier{
		RSID:           rsid,
		Annotation:     annotation,
		PositionalGene: positionalGene,
	}

	q := Query{RSID: rsid, Annotation: annotation, PositionalGene: positionalGene}
	if symbol := genedata.ExtractGeneSymbol(positionalGene); symbol != "" && s.genes != nil {
		gd, err := s.genes.Fetch(ctx, symbol)
		switch {
		case err != nil:
			log.Warn("gene database error, continuing without gene data", zap.String("symbol", symbol), zap.Error(err))
		case gd == nil:
			log.Info("no gene data found, continuing without gene data", zap.String("symbol", symbol))
		default:
			d.GeneData = gd
			q.GeneContext = genedata.FormatForLLM(*gd)
		}
	}

	info, err := s.generator.Generate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", rsid, err)
	}

	if len(info.Literature) > 0 {
		log.Info("enhancing literature references", zap.Int("citations", len(info.Literature)))
		info.Literature = s.enhancer.Enhance(ctx, info.Literature)
	}
	d.GeneInfo = info
	d.CreatedAt = s.now().UTC()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, *d); err != nil {
			log.Warn("recording lookup history", zap.Error(err))
		}
	}
	return d, nil
}
