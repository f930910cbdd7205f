// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deepgene/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [prefix]",
	Short: "List recent lookups or complete an rsID prefix",
	Long: `History lists recorded lookups, newest first. With a prefix argument it
prints the distinct recorded rsIDs starting with that prefix, one per line,
for shell completion. --export writes the recent entries as YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum entries to list (default history.max_results)")
	historyCmd.Flags().Bool("export", false, "write entries as YAML")
	historyCmd.Flags().String("history-path", "", "history database file")
	if err := viper.BindPFlag("history.path", historyCmd.Flags().Lookup("history-path")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(historyCmd)

	lookupCmd.ValidArgsFunction = completeRSID
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	export, _ := cmd.Flags().GetBool("export")

	store, err := history.NewStore(pipelineConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		ids, err := store.Complete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	if export {
		return store.ExportYAML(cmd.Context(), os.Stdout, limit)
	}

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No lookups recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Println(e)
	}
	return nil
}

// completeRSID offers recorded rsIDs for the first lookup argument.
func completeRSID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := history.NewStore(pipelineConfig().History)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer store.Close()

	ids, err := store.Complete(cmd.Context(), toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
