package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"ytq/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Mode selects which end of the queue the next item is taken from.
type Mode string

const (
	// ModeQueue takes items first in, first out.
	ModeQueue Mode = "queue"
	// ModeStack takes items last in, first out.
	ModeStack Mode = "stack"
)

// ParseMode accepts "queue" or "stack" in any case.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeQueue:
		return ModeQueue, nil
	case ModeStack:
		return ModeStack, nil
	default:
		return "", fmt.Errorf("invalid mode %q: use %q or %q", value, ModeQueue, ModeStack)
	}
}

// Paths locates the data files.
type Paths struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// Config encapsulates all configuration values for ytq.
//
// The top-level keys are the user record edited through `ytq config set`:
//   - Mode: queue (FIFO) or stack (LIFO) selection for `ytq next`
//   - Offline: when true, metadata refreshes are refused
//   - APIKey: credential handed to the metadata fetcher
type Config struct {
	Mode    Mode    `toml:"mode"`
	Offline bool    `toml:"offline"`
	APIKey  string  `toml:"api_key,omitempty"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`

	// LegacyAPIKey accepts the key name used by earlier releases.
	LegacyAPIKey string `toml:"youtube_api_key,omitempty"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return expandPath(filepath.Join(base, "ytq", "config.toml"))
	}
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := loadRaw(path)
	if err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// loadRaw decodes the file over Default() without normalizing, so values
// written back by Edit keep the user's spelling (tilde paths, empty keys).
func loadRaw(path string) (Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return Config{}, "", false, err
	}
	if !exists {
		return cfg, resolvedPath, false, nil
	}

	data, err := os.ReadFile(resolvedPath)
	if err != nil {
		return Config{}, "", false, fmt.Errorf("open config: %w", err)
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
	}
	return cfg, resolvedPath, true, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	target := strings.TrimSpace(path)
	if target == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		target = defaultPath
	} else {
		expanded, err := expandPath(target)
		if err != nil {
			return "", false, err
		}
		target = expanded
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return target, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", target)
	}
	return target, true, nil
}

// Edit loads the file at path (defaults when absent), applies fn, validates
// the result, and writes the document back atomically.
func Edit(path string, fn func(*Config) error) (string, error) {
	cfg, resolvedPath, _, err := loadRaw(path)
	if err != nil {
		return "", err
	}
	if err := fn(&cfg); err != nil {
		return "", err
	}

	check := cfg
	if err := check.normalize(); err != nil {
		return "", err
	}
	if err := check.Validate(); err != nil {
		return "", err
	}

	if err := cfg.save(resolvedPath); err != nil {
		return "", err
	}
	return resolvedPath, nil
}

func (c *Config) save(path string) error {
	if c.LegacyAPIKey != "" && c.APIKey == "" {
		c.APIKey = c.LegacyAPIKey
	}
	c.LegacyAPIKey = ""

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Set updates one user-facing key from its string form.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "mode":
		mode, err := ParseMode(value)
		if err != nil {
			return err
		}
		c.Mode = mode
	case "offline":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			c.Offline = true
		case "false":
			c.Offline = false
		default:
			return fmt.Errorf("invalid boolean %q: use \"true\" or \"false\"", value)
		}
	case "api_key", "youtube_api_key":
		c.APIKey = strings.TrimSpace(value)
		c.LegacyAPIKey = ""
	default:
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	return []string{"mode", "offline", "api_key"}
}

// DataDir returns the directory holding the queue, history, and metadata files.
func (c *Config) DataDir() string {
	return c.Paths.DataDir
}

// QueuePath returns the queue snapshot location.
func (c *Config) QueuePath() string {
	return filepath.Join(c.Paths.DataDir, queueFileName)
}

// HistoryDir returns the directory holding journal segments.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.Paths.DataDir, historyDirName)
}

// MetadataPath returns the metadata cache location.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.Paths.DataDir, metadataFileName)
}

// HasAPIKey reports whether a fetch credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// EnsureDirectories creates the data and history directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir(), c.HistoryDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "ytq")
	}
	return defaultDataDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
