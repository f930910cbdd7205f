// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genedata

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/deepgene/pkg/types"
)

const (
	maxGOTerms  = 10
	maxMIM      = 5
	maxGeneRIF  = 5
	rifTextSize = 100
)

var pathwaySources = []string{"reactome", "wikipathways", "kegg"}

// ParseResponse converts a MyGene.info gene record into GeneData. MyGene
// returns many fields as either a single object or a list of objects; both
// shapes are accepted and anything else is ignored.
func ParseResponse(result map[string]any, symbol string) types.GeneData {
	data := types.GeneData{
		GeneSymbol: symbol,
		Source:     types.GeneDataSource,
	}
	if s, ok := result["symbol"].(string); ok && s != "" {
		data.GeneSymbol = s
	}
	data.GeneName, _ = result["name"].(string)
	data.Summary, _ = result["summary"].(string)
	data.EntrezGeneID, _ = toInt64(result["entrezgene"])

	if goData, ok := result["go"].(map[string]any); ok {
		terms := map[string][]string{}
		for _, cat := range []string{"BP", "MF", "CC"} {
			entries, present := goData[cat]
			if !present {
				continue
			}
			var names []string
			for _, e := range objects(entries) {
				if len(names) == maxGOTerms {
					break
				}
				if term, ok := e["term"].(string); ok && term != "" {
					names = append(names, term)
				}
			}
			terms[cat] = names
		}
		if len(terms) > 0 {
			data.GOTerms = terms
		}
	}

	if pw, ok := result["pathway"].(map[string]any); ok {
		for _, src := range pathwaySources {
			for _, e := range objects(pw[src]) {
				if name, ok := e["name"]; ok {
					data.Pathways = append(data.Pathways, fmt.Sprintf("%s (%s)", scalar(name), capitalize(src)))
				}
			}
		}
	}

	for i, e := range objects(result["MIM"]) {
		if i == maxMIM {
			break
		}
		id, name := scalar(e["MIM"]), scalar(e["name"])
		switch {
		case id != "":
			data.MIMDiseases = append(data.MIMDiseases, fmt.Sprintf("MIM:%s - %s", id, name))
		case name != "":
			data.MIMDiseases = append(data.MIMDiseases, name)
		}
	}

	if rifs, ok := result["generif"].([]any); ok {
		for i, r := range rifs {
			if i == maxGeneRIF {
				break
			}
			e, ok := r.(map[string]any)
			if !ok {
				continue
			}
			pmid, text := scalar(e["pubmed"]), scalar(e["text"])
			if pmid != "" && text != "" {
				data.GeneRIF = append(data.GeneRIF, fmt.Sprintf("PMID:%s: %s...", pmid, prefix(text, rifTextSize)))
			}
		}
	}

	if ens := objects(result["ensembl"]); len(ens) > 0 {
		data.EnsemblID = scalar(ens[0]["gene"])
	}

	if pos := objects(result["genomic_pos"]); len(pos) > 0 {
		chr := scalar(pos[0]["chr"])
		start, okStart := toInt64(pos[0]["start"])
		end, okEnd := toInt64(pos[0]["end"])
		if chr != "" && okStart && okEnd && start != 0 && end != 0 {
			data.GenomicLocation = fmt.Sprintf("chr%s:%s-%s", chr, groupThousands(start), groupThousands(end))
		}
	}

	return data
}

// objects normalises a MyGene field that may be one object or a list of
// objects. Non-object list elements are skipped.
func objects(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// scalar renders a string or numeric JSON value. Other values render empty.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case float64:
		return int64(t), t == math.Trunc(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
