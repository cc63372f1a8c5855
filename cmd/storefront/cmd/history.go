package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent operations",
	Long:  `Show the local log of recent store operations and their outcomes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		if app.history == nil {
			fmt.Println("history is disabled (see history.enabled in storefront.yaml)")
			return nil
		}

		entries, err := app.history.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no recorded operations")
			return nil
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s  %-16s %-6s %s",
				e.CreatedAt.Local().Format(time.DateTime), e.Op, e.Outcome, e.Detail)
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}
