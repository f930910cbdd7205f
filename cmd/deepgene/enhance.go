// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepgene/pkg/types"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance [citations.yaml|-]",
	Short: "Ground a list of citations in their sources",
	Long: `Enhance reads a YAML (or JSON) list of citations, each with
functional_relevance, mutants, and url. For every citation it fetches the
source abstract, extracts variant mentions, and merges them into mutants.
Citations without retrievable content are left unchanged. The enhanced
list is written to stdout as YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().Int("concurrency", 0, "citations processed at once (default 1)")
	if err := viper.BindPFlag("enhance.concurrency", enhanceCmd.Flags().Lookup("concurrency")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	citations, err := decodeCitations(data)
	if err != nil {
		return err
	}

	p, err := newPipeline(pipelineConfig())
	if err != nil {
		return err
	}

	before := types.MentionCount(citations)
	citations = p.merger.Enhance(cmd.Context(), citations)
	fmt.Fprintf(os.Stderr, "enhanced %d citation(s): %d -> %d mention(s)\n",
		len(citations), before, types.MentionCount(citations))

	return encodeYAML(os.Stdout, citations)
}

// decodeCitations parses a YAML or JSON citation list. JSON is a subset of
// YAML, so one decoder handles both.
func decodeCitations(data []byte) ([]types.Citation, error) {
	var citations []types.Citation
	if err := yaml.Unmarshal(data, &citations); err != nil {
		return nil, fmt.Errorf("parsing citations: %w", err)
	}
	for i, c := range citations {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("citation %d: %w", i, err)
		}
	}
	return citations, nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
