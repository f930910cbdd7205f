// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepgene/internal/genedata"
	"github.com/pdiddy/deepgene/internal/history"
	"github.com/pdiddy/deepgene/internal/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <rsID> <annotation> <positional_gene>",
	Short: "Research a variant and print an evidence-grounded report",
	Long: `Lookup fetches MyGene.info data for the positional gene, asks the AI
backend for the gene's function, diseases, SNPs and literature, then grounds
each citation by extracting variant mentions from its abstract.

Annotation is intronic or downstream. The positional gene may carry a
description, e.g. 'CTNND2 (delta catenin-2)'; words after the rsID and
annotation are joined.`,
	Example: `  deepgene lookup rs116515942 intronic 'CTNND2 (delta catenin-2)'`,
	Args:    cobra.MinimumNArgs(3),
	RunE:    runLookup,
}

func init() {
	lookupCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	lookupCmd.Flags().Bool("no-history", false, "do not record this lookup")
	lookupCmd.Flags().Bool("no-gene-data", false, "skip MyGene.info enrichment")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown format %q (want text, yaml, or json)", format)
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")
	noGeneData, _ := cmd.Flags().GetBool("no-gene-data")

	rsid, annotation := args[0], args[1]
	positional := strings.Join(args[2:], " ")
	if err := lookup.ValidateAnnotation(annotation); err != nil {
		return err
	}

	cfg := pipelineConfig()
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	opts := []lookup.Option{lookup.WithLogger(logger.Named("lookup"))}
	if !noGeneData {
		opts = append(opts, lookup.WithGeneSource(genedata.NewClient(cfg.GeneData, logger.Named("genedata"))))
	}
	if !noHistory {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			logger.Sugar().Warnf("history disabled: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, lookup.WithRecorder(store))
		}
	}

	svc := lookup.NewService(lookup.NewGenerator(p.client, logger.Named("generator")), p.merger, opts...)

	if format == "text" {
		fmt.Fprintf(os.Stderr, "Looking up %s (%s, %s)...\n", rsid, annotation, positional)
	}
	d, err := svc.Lookup(cmd.Context(), rsid, annotation, positional)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		return encodeYAML(os.Stdout, d)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	renderDossier(os.Stdout, d)
	return nil
}
