package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ytq/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("YTQ_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "")
	return home
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "ytq", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Mode != config.ModeQueue {
		t.Fatalf("mode = %q, want queue", cfg.Mode)
	}
	if !cfg.Offline {
		t.Fatal("expected offline to default to true")
	}
	if cfg.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.APIKey)
	}
	wantData := filepath.Join(home, ".local", "share", "ytq")
	if cfg.DataDir() != wantData {
		t.Fatalf("data dir = %q, want %q", cfg.DataDir(), wantData)
	}
	if cfg.QueuePath() != filepath.Join(wantData, "queue.json") {
		t.Fatalf("queue path = %q", cfg.QueuePath())
	}
	if cfg.HistoryDir() != filepath.Join(wantData, "history") {
		t.Fatalf("history dir = %q", cfg.HistoryDir())
	}
	if cfg.MetadataPath() != filepath.Join(wantData, "metadata.json") {
		t.Fatalf("metadata path = %q", cfg.MetadataPath())
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadHonorsXDGDirectories(t *testing.T) {
	isolateEnv(t)
	configHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg, resolved, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(configHome, "ytq", "config.toml") {
		t.Fatalf("resolved = %q", resolved)
	}
	if cfg.DataDir() != filepath.Join(dataHome, "ytq") {
		t.Fatalf("data dir = %q", cfg.DataDir())
	}
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mode = \"Stack\"\n[paths]\ndata_dir = \"~/ytq-data\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Mode != config.ModeStack {
		t.Fatalf("mode = %q, want stack", cfg.Mode)
	}
	if !cfg.Offline {
		t.Fatal("missing offline key should default to true")
	}
	if cfg.DataDir() != filepath.Join(home, "ytq-data") {
		t.Fatalf("data dir = %q", cfg.DataDir())
	}
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mode = \"deque\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "mode") {
		t.Fatalf("expected mode validation error, got %v", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mode = \n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAPIKeyFallbacks(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	legacy := filepath.Join(dir, "legacy.toml")
	if err := os.WriteFile(legacy, []byte("youtube_api_key = \"legacy-key\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(legacy)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "legacy-key" {
		t.Fatalf("expected legacy key, got %q", cfg.APIKey)
	}

	t.Setenv("YOUTUBE_API_KEY", "youtube-env")
	cfg, _, _, err = config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "youtube-env" {
		t.Fatalf("expected YOUTUBE_API_KEY fallback, got %q", cfg.APIKey)
	}

	t.Setenv("YTQ_API_KEY", "ytq-env")
	cfg, _, _, err = config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "ytq-env" {
		t.Fatalf("expected YTQ_API_KEY to take precedence, got %q", cfg.APIKey)
	}
	if !cfg.HasAPIKey() {
		t.Fatal("HasAPIKey should report true")
	}
}

func TestSetValidatesValues(t *testing.T) {
	cfg := config.Default()

	if err := cfg.Set("mode", "STACK"); err != nil {
		t.Fatalf("Set mode: %v", err)
	}
	if cfg.Mode != config.ModeStack {
		t.Fatalf("mode = %q", cfg.Mode)
	}
	if err := cfg.Set("mode", "deque"); err == nil {
		t.Fatal("expected invalid mode error")
	}
	if err := cfg.Set("offline", "false"); err != nil {
		t.Fatalf("Set offline: %v", err)
	}
	if cfg.Offline {
		t.Fatal("expected offline false")
	}
	if err := cfg.Set("offline", "maybe"); err == nil {
		t.Fatal("expected invalid boolean error")
	}
	if err := cfg.Set("youtube_api_key", "  secret  "); err != nil {
		t.Fatalf("Set api key alias: %v", err)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
	if err := cfg.Set("volume", "11"); err == nil || !strings.Contains(err.Error(), "mode, offline, api_key") {
		t.Fatalf("expected unknown key error listing keys, got %v", err)
	}
}

func TestEditPersistsAtomically(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	resolved, err := config.Edit(path, func(cfg *config.Config) error {
		if err := cfg.Set("mode", "stack"); err != nil {
			return err
		}
		return cfg.Set("offline", "false")
	})
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not valid TOML: %v", err)
	}
	if raw["mode"] != "stack" || raw["offline"] != false {
		t.Fatalf("unexpected saved values: %v", raw)
	}
	if _, ok := raw["api_key"]; ok {
		t.Fatalf("empty api key should be omitted: %v", raw)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Mode != config.ModeStack || cfg.Offline {
		t.Fatalf("reloaded config = %+v", cfg)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only config.toml, found %d entries", len(entries))
	}
}

func TestEditRejectsInvalidResultWithoutWriting(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := config.Edit(path, func(cfg *config.Config) error {
		cfg.Mode = "deque"
		return nil
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("config should not be written on validation failure: %v", statErr)
	}
}

func TestEnsureDirectoriesCreatesDataAndHistory(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(cfg.HistoryDir()); err != nil || !info.IsDir() {
		t.Fatalf("history dir missing: %v", err)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists || cfg.Mode != config.ModeQueue || !cfg.Offline {
		t.Fatalf("unexpected sample config: %+v", cfg)
	}
}

func TestLoadRejectsDirectoryPath(t *testing.T) {
	isolateEnv(t)
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error when config path is a directory")
	}
}
