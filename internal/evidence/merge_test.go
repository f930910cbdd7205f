// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/deepgene/internal/literature"
	"github.com/pdiddy/deepgene/internal/metrics"
	"github.com/pdiddy/deepgene/pkg/types"
)

// --- mocks ---

type mockFetcher struct {
	mu      sync.Mutex
	content map[string]string
	panicOn string
	urls    []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (string, bool) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
	if url == m.panicOn {
		panic("fetch exploded")
	}
	text, ok := m.content[url]
	return text, ok
}

type mockExtractor struct {
	mu     sync.Mutex
	byText map[string][]string
	texts  []string
}

func (m *mockExtractor) Extract(_ context.Context, text string) []string {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	return m.byText[text]
}

func (m *mockExtractor) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestEnhance_PubMedCitationGainsMentions(t *testing.T) {
	url := "https://pubmed.ncbi.nlm.nih.gov/26366551/"
	f := &mockFetcher{content: map[string]string{url: "BRAF p.Val600Glu mutation in melanoma."}}
	e := &mockExtractor{byText: map[string][]string{"BRAF p.Val600Glu mutation in melanoma.": {"p.Val600Glu"}}}
	m := NewMerger(f, e)

	citations := []types.Citation{{
		FunctionalRelevance: "BRAF inhibitor response",
		Mentions:            []string{"V600E"},
		SourceURL:           url,
	}}
	got := m.Enhance(context.Background(), citations)

	require.Len(t, got, 1)
	assert.ElementsMatch(t, []string{"V600E", "p.Val600Glu"}, got[0].Mentions)
	assert.Equal(t, url, got[0].SourceURL)
	assert.Equal(t, "BRAF inhibitor response", got[0].FunctionalRelevance)
}

func TestEnhance_AbsentContentSkipsExtractor(t *testing.T) {
	f := &mockFetcher{}
	e := &mockExtractor{}
	m := NewMerger(f, e)

	citations := []types.Citation{{Mentions: []string{"rs12345"}, SourceURL: "https://example.com/paper"}}
	got := m.Enhance(context.Background(), citations)

	assert.Equal(t, []string{"rs12345"}, got[0].Mentions)
	assert.Equal(t, 0, e.calls())
	assert.Equal(t, []string{"https://example.com/paper"}, f.urls)
}

func TestEnhance_FailureIsolatedPerCitation(t *testing.T) {
	ok := "https://pubmed.ncbi.nlm.nih.gov/1/"
	bad := "https://broken.example.com/paper"
	f := &mockFetcher{content: map[string]string{ok: "abstract one text"}, panicOn: bad}
	e := &mockExtractor{byText: map[string][]string{"abstract one text": {"c.35G>A"}}}

	core, logs := observer.New(zapcore.WarnLevel)
	m := NewMerger(f, e, WithLogger(zap.New(core)))

	citations := []types.Citation{
		{Mentions: []string{"rs1"}, SourceURL: ok},
		{Mentions: []string{"rs2"}, SourceURL: bad},
	}
	var got []types.Citation
	require.NotPanics(t, func() {
		got = m.Enhance(context.Background(), citations)
	})

	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"rs1", "c.35G>A"}, got[0].Mentions)
	assert.Equal(t, []string{"rs2"}, got[1].Mentions)
	assert.Equal(t, 1, logs.FilterMessage("citation enhancement panicked").Len())
}

func TestEnhance_TransportFailureThroughRealFetcher(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta name="dc.description" content="KRAS p.Gly12Asp drives tumour growth."></head></html>`)
	}))
	defer good.Close()
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL + "/paper"
	dead.Close()

	e := &mockExtractor{byText: map[string][]string{"KRAS p.Gly12Asp drives tumour growth.": {"p.Gly12Asp"}}}
	m := NewMerger(literature.NewFetcher(types.FetchConfig{}), e)

	citations := []types.Citation{
		{Mentions: []string{"G12D"}, SourceURL: good.URL + "/paper"},
		{Mentions: []string{"rs2"}, SourceURL: deadURL},
	}
	got := m.Enhance(context.Background(), citations)

	assert.Equal(t, []string{"G12D", "p.Gly12Asp"}, got[0].Mentions)
	assert.Equal(t, []string{"rs2"}, got[1].Mentions)
	assert.Equal(t, 1, e.calls())
}

func TestEnhance_NeverLosesMentions(t *testing.T) {
	f := &mockFetcher{content: map[string]string{"u": "text"}}
	e := &mockExtractor{byText: map[string][]string{"text": {"b", "a", "c"}}}
	m := NewMerger(f, e)

	original := []string{"a", "x", "a"}
	citations := []types.Citation{{Mentions: append([]string(nil), original...), SourceURL: "u"}}
	got := m.Enhance(context.Background(), citations)

	for _, s := range original {
		assert.Contains(t, got[0].Mentions, s)
	}
	assert.Equal(t, []string{"a", "x", "b", "c"}, got[0].Mentions)
}

func TestEnhance_Idempotent(t *testing.T) {
	f := &mockFetcher{content: map[string]string{"u": "text"}}
	e := &mockExtractor{byText: map[string][]string{"text": {"V600E", "p.Val600Glu"}}}
	m := NewMerger(f, e)

	citations := []types.Citation{{Mentions: []string{"V600E"}, SourceURL: "u"}}
	once := append([]string(nil), m.Enhance(context.Background(), citations)[0].Mentions...)
	twice := m.Enhance(context.Background(), citations)[0].Mentions

	assert.Equal(t, sorted(once), sorted(twice))
}

func TestEnhance_SameSliceSameOrder(t *testing.T) {
	f := &mockFetcher{}
	m := NewMerger(f, &mockExtractor{})

	citations := []types.Citation{{SourceURL: "a"}, {SourceURL: "b"}, {SourceURL: "c"}}
	got := m.Enhance(context.Background(), citations)

	require.Len(t, got, 3)
	assert.Same(t, &citations[0], &got[0])
	for i, u := range []string{"a", "b", "c"} {
		assert.Equal(t, u, got[i].SourceURL)
	}
}

func TestEnhance_EmptyInput(t *testing.T) {
	m := NewMerger(&mockFetcher{}, &mockExtractor{})
	assert.Empty(t, m.Enhance(context.Background(), nil))
}

func TestEnhance_ConcurrentMatchesSequential(t *testing.T) {
	content := map[string]string{}
	byText := map[string][]string{}
	build := func() []types.Citation {
		var cs []types.Citation
		for i := range 25 {
			url := fmt.Sprintf("https://example.com/%d", i)
			cs = append(cs, types.Citation{Mentions: []string{fmt.Sprintf("rs%d", i)}, SourceURL: url})
		}
		return cs
	}
	for i := range 25 {
		if i%3 == 0 {
			continue
		}
		url := fmt.Sprintf("https://example.com/%d", i)
		text := fmt.Sprintf("abstract %d", i)
		content[url] = text
		byText[text] = []string{fmt.Sprintf("rs%d", i), fmt.Sprintf("V%dE", i)}
	}

	seq := NewMerger(&mockFetcher{content: content}, &mockExtractor{byText: byText}).
		Enhance(context.Background(), build())
	par := NewMerger(&mockFetcher{content: content}, &mockExtractor{byText: byText}, WithConcurrency(8)).
		Enhance(context.Background(), build())

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].SourceURL, par[i].SourceURL)
		assert.Equal(t, sorted(seq[i].Mentions), sorted(par[i].Mentions))
	}
}

func TestEnhance_RecordsMetrics(t *testing.T) {
	f := &mockFetcher{content: map[string]string{"u": "text"}}
	e := &mockExtractor{byText: map[string][]string{"text": {"V600E", "new1", "new2"}}}
	m := NewMerger(f, e)

	added := testutil.ToFloat64(metrics.MentionsAdded)
	enhanced := testutil.ToFloat64(metrics.CitationsEnhanced.WithLabelValues("enhanced"))
	noContent := testutil.ToFloat64(metrics.CitationsEnhanced.WithLabelValues("no_content"))

	m.Enhance(context.Background(), []types.Citation{
		{Mentions: []string{"V600E"}, SourceURL: "u"},
		{Mentions: []string{"rs1"}, SourceURL: "missing"},
	})

	assert.Equal(t, added+2, testutil.ToFloat64(metrics.MentionsAdded))
	assert.Equal(t, enhanced+1, testutil.ToFloat64(metrics.CitationsEnhanced.WithLabelValues("enhanced")))
	assert.Equal(t, noContent+1, testutil.ToFloat64(metrics.CitationsEnhanced.WithLabelValues("no_content")))
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"both empty", nil, nil, []string{}},
		{"disjoint", []string{"V600E"}, []string{"p.Val600Glu"}, []string{"V600E", "p.Val600Glu"}},
		{"overlap", []string{"rs1", "rs2"}, []string{"rs2", "rs3"}, []string{"rs1", "rs2", "rs3"}},
		{"duplicates in original collapse", []string{"rs1", "rs1"}, nil, []string{"rs1"}},
		{"case sensitive", []string{"v600e"}, []string{"V600E"}, []string{"v600e", "V600E"}},
		{"no notation normalisation", []string{"V600E"}, []string{"p.V600E"}, []string{"V600E", "p.V600E"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Union(tt.a, tt.b))
		})
	}
}

func TestUnion_Idempotent(t *testing.T) {
	a := []string{"rs1", "V600E"}
	b := []string{"V600E", "c.35G>A"}
	once := Union(a, b)
	assert.Equal(t, once, Union(once, b))
}
