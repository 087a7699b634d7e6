package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytq/internal/config"
	"ytq/internal/metadata"
	"ytq/internal/tracker"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		fromPath   string
		useQueue   bool
		useHistory bool
		useAll     bool
		force      bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:     "fetch [video[,video...]]",
		Aliases: []string{"f"},
		Short:   "Refresh cached video metadata",
		Long: `Resolve titles, channels, and durations for queued or watched videos.

Records are read from the JSON file given with --from. Videos the source does
not know are cached as unavailable so later runs skip them unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			if tr.Config().Offline {
				return tracker.ErrOffline
			}
			fetcher, err := resolveFetcher(fromPath)
			if err != nil {
				return err
			}

			req := tracker.RefreshRequest{
				Scope: tracker.ScopeQueue,
				Force: force,
				Limit: limit,
			}
			switch {
			case len(args) == 1:
				req.Targets = args
			case useAll || (useQueue && useHistory):
				req.Scope = tracker.ScopeAll
			case useHistory:
				req.Scope = tracker.ScopeHistory
			}

			summary, err := tr.RefreshMetadata(ctx.commandCtx(cmd), fetcher, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary.Requested == 0 {
				fmt.Fprintln(out, "Metadata already up to date.")
				return nil
			}
			fmt.Fprintf(out, "%s %d of %d videos (%d unavailable)\n",
				label(out, ansiGreen, "Fetched:"), summary.Resolved, summary.Requested, summary.Unavailable)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromPath, "from", "", "JSON file of metadata records to resolve videos from")
	cmd.Flags().BoolVar(&useQueue, "queue", false, "Fetch for queued videos (default)")
	cmd.Flags().BoolVar(&useHistory, "history", false, "Fetch for videos in history")
	cmd.Flags().BoolVar(&useAll, "all", false, "Fetch for queued and historical videos")
	cmd.Flags().BoolVar(&force, "force", false, "Refetch videos that are already cached")
	cmd.Flags().IntVar(&limit, "limit", 0, "Fetch at most N videos")
	return cmd
}

func resolveFetcher(fromPath string) (metadata.Fetcher, error) {
	path := strings.TrimSpace(fromPath)
	if path == "" {
		return nil, errors.New("no metadata source available; pass --from <records.json>")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return metadata.FileFetcher{Path: expanded}, nil
}
