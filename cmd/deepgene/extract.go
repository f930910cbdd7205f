package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract variant mentions from text",
	Long: `Extract reads text from a file (or stdin when the argument is "-" or
omitted) and prints the variant mentions the model finds in its first 2000
characters, one per line: rsIDs, p. and c. notation, short substitutions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	p, err := newPipeline(pipelineConfig())
	if err != nil {
		return err
	}

	for _, m := range p.extractor.Extract(cmd.Context(), string(text)) {
		fmt.Println(m)
	}
	return nil
}

// readInput reads the file named by args[0], or stdin for "-" or no args.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}
