package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ytq/internal/metadata"
	"ytq/internal/queue"
	"ytq/internal/tracker"
)

func newQueueCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newAddCommand(ctx),
		newNextCommand(ctx),
		newRandomCommand(ctx),
		newRemoveCommand(ctx),
		newListCommand(ctx),
		newPeekCommand(ctx),
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "add <video>...",
		Aliases: []string{"a"},
		Short:   "Add videos to the queue",
		Long:    "Add one or more videos by URL, short link, or 11-character id.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, input := range args {
				item, err := tr.Add(ctx.commandCtx(cmd), input)
				if errors.Is(err, tracker.ErrAlreadyQueued) {
					fmt.Fprintf(out, "%s %s\n", label(out, ansiYellow, "Video already in queue."), input)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", label(out, ansiGreen, "Added:"), item.ID)
			}
			return nil
		},
	}
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	var noOpen bool
	cmd := &cobra.Command{
		Use:     "next [video]",
		Aliases: []string{"n", "p", "w", "o", "play", "watch", "open"},
		Short:   "Watch the next video and remove it from the queue",
		Long:    "Take the next video for the configured mode, or the named video, record it as watched, and open it.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			item, err := tr.Next(ctx.commandCtx(cmd), target)
			return finishWatch(cmd, item, err, noOpen)
		},
	}
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Print the URL without launching a browser")
	return cmd
}

func newRandomCommand(ctx *commandContext) *cobra.Command {
	var noOpen bool
	cmd := &cobra.Command{
		Use:     "random",
		Aliases: []string{"r", "lucky"},
		Short:   "Pop and watch a random video from the queue",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			item, err := tr.Random(ctx.commandCtx(cmd))
			return finishWatch(cmd, item, err, noOpen)
		},
	}
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Print the URL without launching a browser")
	return cmd
}

func finishWatch(cmd *cobra.Command, item queue.Item, err error, noOpen bool) error {
	out := cmd.OutOrStdout()
	if errors.Is(err, queue.ErrEmpty) {
		fmt.Fprintln(out, label(out, ansiYellow, "The queue is empty."))
		return nil
	}
	if err != nil && item.ID == "" {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", label(out, ansiBlue, "Opening:"), item.URL)
	if err != nil {
		return err
	}
	if noOpen {
		return nil
	}
	return openBrowser(item.URL)
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <video>",
		Aliases: []string{"d", "rm", "delete"},
		Short:   "Remove a video by id or URL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			item, err := tr.Remove(ctx.commandCtx(cmd), args[0])
			if err != nil && item.ID == "" {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", label(out, ansiRed, "Removed:"), item.ID)
			return err
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List the current queue",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			items, err := tr.List(ctx.commandCtx(cmd))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, items)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Queue is empty.")
				return nil
			}
			fmt.Fprintf(out, "%d videos in queue:\n", len(items))
			fmt.Fprintln(out, renderItems(items, loadTitles(tr)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the queue as JSON")
	return cmd
}

func newPeekCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "peek [n]",
		Aliases: []string{"k"},
		Short:   "Look at the next few videos without watching",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 1 {
					return fmt.Errorf("invalid count %q: must be a positive integer", args[0])
				}
				n = parsed
			}
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			items, err := tr.Peek(ctx.commandCtx(cmd), n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Queue is empty.")
				return nil
			}
			fmt.Fprintf(out, "Next %d videos (%s mode):\n", len(items), titleCase(string(tr.Config().Mode)))
			fmt.Fprintln(out, renderItems(items, loadTitles(tr)))
			return nil
		},
	}
}

// loadTitles returns cached titles keyed by id; cache problems only cost
// the title column.
func loadTitles(tr *tracker.Tracker) map[string]metadata.Record {
	records, err := tr.Metadata()
	if err != nil {
		return nil
	}
	return records
}

func renderItems(items []queue.Item, records map[string]metadata.Record) string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		title, length := "", ""
		if rec, ok := records[item.ID]; ok && rec.Available() {
			title = truncate(rec.Title, 48)
			if rec.DurationSeconds > 0 {
				length = metadata.FormatDuration(rec.DurationSeconds)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.ID,
			title,
			length,
			formatLocal(item.AddedAt),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Title", "Length", "Added"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
