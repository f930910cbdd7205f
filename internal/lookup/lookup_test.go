// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/deepgene/internal/llm"
	"github.com/pdiddy/deepgene/pkg/types"
)

// --- mocks ---

type mockClient struct {
	response string
	err      error
	prompts  []string
}

func (m *mockClient) Generate(_ context.Context, req llm.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.response, m.err
}

type mockGenes struct {
	data    *types.GeneData
	err     error
	symbols []string
}

func (m *mockGenes) Fetch(_ context.Context, symbol string) (*types.GeneData, error) {
	m.symbols = append(m.symbols, symbol)
	return m.data, m.err
}

type mockGenerator struct {
	info    types.GeneInfo
	err     error
	queries []Query
}

func (m *mockGenerator) Generate(_ context.Context, q Query) (types.GeneInfo, error) {
	m.queries = append(m.queries, q)
	return m.info, m.err
}

type mockEnhancer struct {
	add   string
	calls int
}

func (m *mockEnhancer) Enhance(_ context.Context, cs []types.Citation) []types.Citation {
	m.calls++
	for i := range cs {
		cs[i].Mentions = append(cs[i].Mentions, m.add)
	}
	return cs
}

type mockRecorder struct {
	err      error
	dossiers []types.Dossier
}

func (m *mockRecorder) Record(_ context.Context, d types.Dossier) error {
	m.dossiers = append(m.dossiers, d)
	return m.err
}

// --- generator ---

const generatedJSON = `{
	"function": ["Regulates MAPK signaling"],
	"diseases": ["Melanoma"],
	"snps": [{"rsid": "rs113488022", "genes": ["BRAF"], "phenotypes": ["Melanoma risk"]}],
	"literature": [
		{"functional_relevance": "V600E in melanoma", "mutants": ["V600E"], "url": "https://pubmed.ncbi.nlm.nih.gov/12068308/"},
		{"functional_relevance": "bad url", "mutants": [], "url": "not a url"},
		{"functional_relevance": "ftp url", "mutants": [], "url": "ftp://example.com/paper"},
		{"functional_relevance": "doi", "url": "https://doi.org/10.1038/nature00766"}
	]
}`

func TestGenerator_Generate(t *testing.T) {
	client := &mockClient{response: generatedJSON}
	core, logs := observer.New(zapcore.WarnLevel)
	g := NewGenerator(client, zap.New(core))

	info, err := g.Generate(context.Background(), Query{
		RSID:           "rs113488022",
		Annotation:     "intronic",
		PositionalGene: "BRAF (B-Raf)",
		GeneContext:    "GENE DATABASE INFORMATION (MyGene.info):",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Regulates MAPK signaling"}, info.Function)
	assert.Equal(t, []string{"Melanoma"}, info.Diseases)
	assert.Equal(t, types.SNPInfo{Genes: []string{"BRAF"}, Phenotypes: []string{"Melanoma risk"}}, info.SNPs["rs113488022"])
	require.Len(t, info.Literature, 2)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12068308/", info.Literature[0].SourceURL)
	assert.Equal(t, []string{"V600E"}, info.Literature[0].Mentions)
	assert.Equal(t, []string{}, info.Literature[1].Mentions)
	assert.Equal(t, 2, logs.FilterMessage("dropping citation with invalid url").Len())

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "rsid: rs113488022")
	assert.Contains(t, client.prompts[0], "positional_gene: BRAF (B-Raf)")
	assert.Contains(t, client.prompts[0], "GENE DATABASE INFORMATION (MyGene.info):")
}

func TestGenerator_PromptWithoutGeneContext(t *testing.T) {
	client := &mockClient{response: `{"function": [], "diseases": [], "snps": [], "literature": []}`}
	g := NewGenerator(client, nil)

	_, err := g.Generate(context.Background(), Query{RSID: "rs1", Annotation: "downstream", PositionalGene: "X"})

	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "none available")
}

func TestGenerator_SNPMapForm(t *testing.T) {
	client := &mockClient{response: "```json\n" + `{"function": ["f"], "snps": {"rs1": {"genes": ["A"], "phenotypes": []}}, "literature": null}` + "\n```"}
	g := NewGenerator(client, nil)

	info, err := g.Generate(context.Background(), Query{RSID: "rs1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, info.SNPs["rs1"].Genes)
	assert.Equal(t, []string{}, info.Diseases)
	assert.Equal(t, []types.Citation{}, info.Literature)
}

func TestGenerator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *mockClient
	}{
		{"backend error", &mockClient{err: errors.New("quota")}},
		{"not json", &mockClient{response: "sorry"}},
		{"bad snps", &mockClient{response: `{"snps": "rs1"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.client, nil).Generate(context.Background(), Query{RSID: "rs1"})
			assert.Error(t, err)
		})
	}
}

// --- service ---

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestService_Lookup(t *testing.T) {
	genes := &mockGenes{data: &types.GeneData{GeneSymbol: "CTNND2", GeneName: "catenin delta 2"}}
	gen := &mockGenerator{info: types.GeneInfo{
		Function:   []string{"adhesion"},
		Literature: []types.Citation{{SourceURL: "https://pubmed.ncbi.nlm.nih.gov/1/", Mentions: []string{"rs1"}}},
	}}
	enh := &mockEnhancer{add: "c.35G>A"}
	rec := &mockRecorder{}

	s := NewService(gen, enh, WithGeneSource(genes), WithRecorder(rec))
	s.now = fixedNow

	d, err := s.Lookup(context.Background(), "rs116515942", "intronic", "CTNND2 (delta catenin-2)")

	require.NoError(t, err)
	assert.Equal(t, []string{"CTNND2"}, genes.symbols)
	require.Len(t, gen.queries, 1)
	assert.Contains(t, gen.queries[0].GeneContext, "Gene: CTNND2")
	assert.Equal(t, "rs116515942", d.RSID)
	assert.Equal(t, "catenin delta 2", d.GeneData.GeneName)
	assert.Equal(t, []string{"rs1", "c.35G>A"}, d.Literature[0].Mentions)
	assert.Equal(t, fixedNow(), d.CreatedAt)
	require.Len(t, rec.dossiers, 1)
	assert.Equal(t, "rs116515942", rec.dossiers[0].RSID)
}

func TestService_GeneDataFailureContinues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	genes := &mockGenes{err: errors.New("mygene down")}
	gen := &mockGenerator{info: types.GeneInfo{Function: []string{"f"}}}
	s := NewService(gen, &mockEnhancer{}, WithGeneSource(genes), WithLogger(zap.New(core)))

	d, err := s.Lookup(context.Background(), "rs1", "downstream", "BRCA1")

	require.NoError(t, err)
	assert.Nil(t, d.GeneData)
	assert.Empty(t, gen.queries[0].GeneContext)
	assert.Equal(t, 1, logs.FilterMessage("gene database error, continuing without gene data").Len())
}

func TestService_NoLiteratureSkipsEnhancer(t *testing.T) {
	enh := &mockEnhancer{}
	s := NewService(&mockGenerator{}, enh)

	_, err := s.Lookup(context.Background(), "rs1", "intronic", "")

	require.NoError(t, err)
	assert.Equal(t, 0, enh.calls)
}

func TestService_GeneratorErrorReturned(t *testing.T) {
	rec := &mockRecorder{}
	s := NewService(&mockGenerator{err: errors.New("model unavailable")}, &mockEnhancer{}, WithRecorder(rec))

	_, err := s.Lookup(context.Background(), "rs1", "intronic", "BRAF")

	assert.ErrorContains(t, err, "model unavailable")
	assert.Empty(t, rec.dossiers)
}

func TestService_RecorderFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewService(&mockGenerator{}, &mockEnhancer{}, WithRecorder(&mockRecorder{err: errors.New("disk full")}), WithLogger(zap.New(core)))

	_, err := s.Lookup(context.Background(), "rs1", "intronic", "BRAF")

	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("recording lookup history").Len())
}

func TestService_InvalidInput(t *testing.T) {
	s := NewService(&mockGenerator{}, &mockEnhancer{})

	_, err := s.Lookup(context.Background(), "  ", "intronic", "BRAF")
	assert.Error(t, err)

	_, err = s.Lookup(context.Background(), "rs1", "exonic", "BRAF")
	assert.Error(t, err)
}
