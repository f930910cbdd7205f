// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepgene/internal/literature"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>...",
	Short: "Retrieve the abstract text for literature URLs",
	Long: `Fetch resolves each URL to a PubMed accession where possible and
retrieves the abstract through NCBI efetch; other URLs are scraped for an
abstract. Content is truncated to 2000 characters. A URL with no content
prints its status instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	f := newFetcher(pipelineConfig())

	found := 0
	for _, u := range args {
		res := f.FetchResult(cmd.Context(), u)
		printFetchResult(os.Stdout, u, res)
		if res.OK() {
			found++
		}
	}
	if found == 0 {
		return fmt.Errorf("no content retrieved for %d url(s)", len(args))
	}
	return nil
}

func printFetchResult(w io.Writer, u string, res literature.Result) {
	fmt.Fprintf(w, "== %s [%s]\n", u, literature.Classify(u))
	if res.OK() {
		fmt.Fprintf(w, "%s\n\n", res.Text)
		return
	}
	if res.Err != nil {
		fmt.Fprintf(w, "no content (%s: %v)\n\n", res.Status, res.Err)
		return
	}
	fmt.Fprintf(w, "no content (%s)\n\n", res.Status)
}
