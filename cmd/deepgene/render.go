// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/deepgene/pkg/types"
)

var (
	headingStyle = color.New(color.FgCyan, color.Bold)
	sectionStyle = color.New(color.FgYellow, color.Bold)
	dbStyle      = color.New(color.FgGreen, color.Bold)
	labelStyle   = color.New(color.FgCyan)
	dimStyle     = color.New(color.Faint)
)

const (
	summaryPreview  = 200
	mentionsPreview = 10
)

// renderDossier writes the human-readable research report for d.
func renderDossier(w io.Writer, d *types.Dossier) {
	fmt.Fprintln(w)
	headingStyle.Fprintf(w, "Gene Research Report: %s\n\n", d.RSID)

	labelStyle.Fprint(w, "Annotation: ")
	fmt.Fprintln(w, orNA(d.Annotation))
	labelStyle.Fprint(w, "Positional Gene: ")
	fmt.Fprintln(w, orNA(d.PositionalGene))
	fmt.Fprintln(w)

	if g := d.GeneData; g != nil {
		dbStyle.Fprint(w, "Gene Database Information ")
		dimStyle.Fprintln(w, "(MyGene.info)")
		fmt.Fprintln(w)
		if g.GeneName != "" {
			fmt.Fprintf(w, "  %s %s - %s\n", labelStyle.Sprint("Gene:"), g.GeneSymbol, g.GeneName)
		}
		if g.Summary != "" {
			summary := g.Summary
			if r := []rune(summary); len(r) > summaryPreview {
				summary = string(r[:summaryPreview]) + "..."
			}
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Sprint("Summary:"), summary)
		}
		writeBulletBlock(w, "Pathways:", g.Pathways, 5)
		writeBulletBlock(w, "OMIM Diseases:", g.MIMDiseases, 3)
		if g.GenomicLocation != "" {
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Sprint("Location:"), g.GenomicLocation)
		}
		fmt.Fprintln(w)
	}

	writeSection(w, "Function", "(AI Analysis)")
	writeList(w, d.Function)

	writeSection(w, "Associated Diseases", "(AI Analysis)")
	writeList(w, d.Diseases)

	writeSection(w, "Associated SNPs", "(AI Analysis)")
	if len(d.SNPs) == 0 {
		fmt.Fprintln(w, "  None")
	} else {
		ids := make([]string, 0, len(d.SNPs))
		for id := range d.SNPs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			snp := d.SNPs[id]
			fmt.Fprintf(w, "  %s\n", labelStyle.Sprint(id))
			fmt.Fprintf(w, "    Genes: %s\n", strings.Join(snp.Genes, ", "))
			fmt.Fprintf(w, "    Phenotypes: %s\n", strings.Join(snp.Phenotypes, ", "))
		}
	}
	fmt.Fprintln(w)

	writeSection(w, "Literature & References", "(AI + NER Analysis)")
	if len(d.Literature) == 0 {
		fmt.Fprintln(w, "  None")
		fmt.Fprintln(w)
	}
	for i, c := range d.Literature {
		fmt.Fprintf(w, "  %s %s\n", headingStyle.Sprintf("[%d]", i+1), c.FunctionalRelevance)
		if n := len(c.Mentions); n > 0 {
			shown := c.Mentions
			if n > mentionsPreview {
				shown = shown[:mentionsPreview]
			}
			dimStyle.Fprintf(w, "      Mutants (%d found): %s\n", n, strings.Join(shown, ", "))
			if n > mentionsPreview {
				dimStyle.Fprintf(w, "      ... and %d more\n", n-mentionsPreview)
			}
		}
		fmt.Fprintf(w, "      %s\n\n", c.SourceURL)
	}
}

func writeSection(w io.Writer, title, note string) {
	sectionStyle.Fprint(w, title+" ")
	dimStyle.Fprintln(w, note)
}

func writeList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  None")
	}
	for _, it := range items {
		fmt.Fprintf(w, "  • %s\n", it)
	}
	fmt.Fprintln(w)
}

func writeBulletBlock(w io.Writer, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", labelStyle.Sprint(label))
	for i, it := range items {
		if i == limit {
			break
		}
		fmt.Fprintf(w, "    • %s\n", it)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
