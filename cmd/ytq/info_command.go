package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ytq/internal/preflight"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Aliases: []string{"i"},
		Short:   "Show file locations and counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := ctx.tracker()
			if err != nil {
				return err
			}
			cfg := tr.Config()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Settings", colorize)...)
			lines = append(lines,
				renderStatusLine("Mode", statusInfo, titleCase(string(cfg.Mode)), colorize),
				renderStatusLine("Offline", statusInfo, yesNo(cfg.Offline), colorize),
				renderStatusLine("API key", statusInfo, yesNo(cfg.HasAPIKey()), colorize),
			)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Files", colorize)...)
			lines = append(lines,
				fileStatusLine("Config", ctx.configPath, colorize),
				fileStatusLine("Data directory", cfg.DataDir(), colorize),
				fileStatusLine("Queue", cfg.QueuePath(), colorize),
				fileStatusLine("History", cfg.HistoryDir(), colorize),
				fileStatusLine("Metadata", cfg.MetadataPath(), colorize),
			)

			items, err := tr.List(ctx.commandCtx(cmd))
			if err != nil {
				return err
			}
			stats, err := tr.Journal().Stats()
			if err != nil {
				return err
			}
			records, err := tr.Metadata()
			if err != nil {
				return err
			}
			unavailable := 0
			for _, rec := range records {
				if !rec.Available() {
					unavailable++
				}
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Counts", colorize)...)
			lines = append(lines,
				renderStatusLine("Queued videos", statusInfo, fmt.Sprintf("%d", len(items)), colorize),
				renderStatusLine("History events", statusInfo, fmt.Sprintf("%d in %d segments", stats.Events, stats.Segments), colorize),
				renderStatusLine("Cached metadata", statusInfo, fmt.Sprintf("%d (%d unavailable)", len(records), unavailable), colorize),
			)
			if stats.Skipped > 0 {
				lines = append(lines, renderStatusLine("Unreadable lines", statusWarn, fmt.Sprintf("%d", stats.Skipped), colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func fileStatusLine(name, path string, colorize bool) string {
	if strings.TrimSpace(path) == "" {
		return renderStatusLine(name, statusWarn, "not set", colorize)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return renderStatusLine(name, statusInfo, path+" (not created yet)", colorize)
		}
		return renderStatusLine(name, statusError, fmt.Sprintf("%s (%v)", path, err), colorize)
	}
	return renderStatusLine(name, statusOK, path, colorize)
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the data files are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(ctx.commandCtx(cmd), cfg)
			lines := renderSectionHeader("Checks", colorize)
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
