package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Show queued, watched, and skipped events",
		Long:    "Show journaled events oldest first. --limit keeps only the most recent events.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			events, err := tr.History()
			if err != nil {
				return err
			}
			if limit > 0 && len(events) > limit {
				events = events[len(events)-limit:]
			}
			if asJSON {
				return writeJSON(cmd, events)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No history recorded yet.")
				return nil
			}
			records := loadTitles(tr)
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				title := ""
				if rec, ok := records[ev.VideoID]; ok && rec.Available() {
					title = truncate(rec.Title, 40)
				}
				rows = append(rows, []string{
					formatLocal(ev.Timestamp),
					string(ev.Action),
					ev.VideoID,
					title,
					formatWait(ev.TimeInQueueSec),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Action", "ID", "Title", "Waited"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit events as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N events")
	return cmd
}
