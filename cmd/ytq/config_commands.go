package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ytq/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:     "config [key value]",
		Aliases: []string{"cfg"},
		Short:   "Show or change configuration",
		Long: fmt.Sprintf(`Show the effective configuration, or set one key.

Keys: %s`, strings.Join(config.Keys(), ", ")),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <key> <value>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return runConfigSet(ctx, cmd, args[0], args[1])
			}
			return runConfigShow(ctx, cmd)
		},
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(ctx, cmd)
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration key",
		Long:  fmt.Sprintf("Change one configuration key. Keys: %s", strings.Join(config.Keys(), ", ")),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(ctx, cmd, args[0], args[1])
		},
	}
}

func runConfigShow(ctx *commandContext, cmd *cobra.Command) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	apiKey := "(not set)"
	if cfg.HasAPIKey() {
		apiKey = maskSecret(cfg.APIKey)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", ctx.configPath)
	fmt.Fprintf(out, "mode = %s\n", cfg.Mode)
	fmt.Fprintf(out, "offline = %t\n", cfg.Offline)
	fmt.Fprintf(out, "api_key = %s\n", apiKey)
	fmt.Fprintf(out, "data_dir = %s\n", cfg.DataDir())
	return nil
}

func runConfigSet(ctx *commandContext, cmd *cobra.Command, key, value string) error {
	path, err := config.Edit(ctx.configFlagValue(), func(cfg *config.Config) error {
		return cfg.Set(key, value)
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	shown := value
	if k := strings.ToLower(strings.TrimSpace(key)); k == "api_key" || k == "youtube_api_key" {
		shown = maskSecret(value)
	}
	fmt.Fprintf(out, "%s %s = %s (%s)\n", label(out, ansiGreen, "Updated:"), strings.ToLower(strings.TrimSpace(key)), shown, path)
	return nil
}

// maskSecret keeps the last four characters.
func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set offline = false and an api_key (or export YTQ_API_KEY) before fetching metadata.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
