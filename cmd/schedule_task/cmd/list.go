package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"journeylink_app/internal/tasks"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the task names the worker can run",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		names := tasks.GlobalRegistry.Names()
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
