package config

const (
	defaultConfigPath      = "~/.config/ytq/config.toml"
	defaultDataDirFallback = "~/.local/share/ytq"
	defaultMode            = ModeQueue
	defaultOffline         = true
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"

	queueFileName    = "queue.json"
	historyDirName   = "history"
	metadataFileName = "metadata.json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Mode:    defaultMode,
		Offline: defaultOffline,
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
