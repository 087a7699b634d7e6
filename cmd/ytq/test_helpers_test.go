package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytq/internal/config"
	"ytq/internal/testsupport"
	"ytq/internal/tracker"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	opened     []string
	now        time.Time
}

func setupCLITestEnv(t *testing.T, extra ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("YTQ_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "")

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\n", cfg.DataDir())
	for _, line := range extra {
		content = line + "\n" + content
	}
	testsupport.WriteFile(t, configPath, []byte(content))

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		now:        time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}

	prevOpen := openBrowser
	openBrowser = func(url string) error {
		env.opened = append(env.opened, url)
		return nil
	}
	prevOptions := trackerOptions
	trackerOptions = []tracker.Option{tracker.WithClock(func() time.Time {
		env.now = env.now.Add(time.Minute)
		return env.now
	})}
	t.Cleanup(func() {
		openBrowser = prevOpen
		trackerOptions = prevOptions
	})

	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
