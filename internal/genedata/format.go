// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genedata

import (
	"fmt"
	"strings"

	"github.com/pdiddy/deepgene/pkg/types"
)

var goCategories = []struct {
	key, heading string
}{
	{"BP", "Biological Processes (Gene Ontology):"},
	{"MF", "Molecular Functions (Gene Ontology):"},
	{"CC", "Cellular Components (Gene Ontology):"},
}

// FormatForLLM renders gene data as a plain-text context block for the
// gene-information prompt.
func FormatForLLM(g types.GeneData) string {
	lines := []string{"GENE DATABASE INFORMATION (MyGene.info):", ""}

	lines = append(lines, "Gene: "+g.GeneSymbol)
	if g.GeneName != "" {
		lines = append(lines, "Full Name: "+g.GeneName)
	}
	if g.EntrezGeneID != 0 {
		lines = append(lines, fmt.Sprintf("NCBI Gene ID: %d", g.EntrezGeneID))
	}
	if g.EnsemblID != "" {
		lines = append(lines, "Ensembl ID: "+g.EnsemblID)
	}
	if g.GenomicLocation != "" {
		lines = append(lines, "Genomic Location: "+g.GenomicLocation)
	}
	lines = append(lines, "")

	if g.Summary != "" {
		lines = append(lines, "Summary:", "  "+g.Summary, "")
	}

	for _, cat := range goCategories {
		if terms := g.GOTerms[cat.key]; len(terms) > 0 {
			lines = append(lines, cat.heading)
			lines = appendBullets(lines, terms, 5)
		}
	}

	if len(g.Pathways) > 0 {
		lines = append(lines, "Known Pathways:")
		lines = appendBullets(lines, g.Pathways, 8)
	}
	if len(g.MIMDiseases) > 0 {
		lines = append(lines, "Disease Associations (OMIM):")
		lines = appendBullets(lines, g.MIMDiseases, len(g.MIMDiseases))
	}
	if len(g.GeneRIF) > 0 {
		lines = append(lines, "Recent Research (GeneRIF):")
		lines = appendBullets(lines, g.GeneRIF, 3)
	}

	return strings.Join(lines, "\n")
}

// appendBullets appends up to limit items as "  - item" followed by a blank line.
func appendBullets(lines, items []string, limit int) []string {
	for i, it := range items {
		if i == limit {
			break
		}
		lines = append(lines, "  - "+it)
	}
	return append(lines, "")
}
