package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentx-labs/bulkren/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyManifestName = "manifest_name"
	KeyIgnore       = "ignore"
	KeyStateFile    = "state_file"
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyEditor       = "editor"
	KeyDebounce     = "debounce"
)

// DefaultDebounce is how long the watcher waits for a burst of write events
// on a manifest to settle before applying it.
const DefaultDebounce = 300 * time.Millisecond

// Settings is the resolved, typed view of the configuration.
type Settings struct {
	ManifestName string
	Ignore       []string
	StateFile    string
	LogLevel     string
	LogFile      string
	Editor       string
	Debounce     time.Duration
}

// Dir returns the path to the config directory (~/.bulkren/).
// BULKREN_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.bulkren/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	dir := Dir()

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyManifestName, branding.ManifestName())
	viper.SetDefault(KeyIgnore, []string{})
	viper.SetDefault(KeyStateFile, filepath.Join(dir, "sessions.yaml"))
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFile, filepath.Join(dir, "logs", branding.CLIName()+".log"))
	viper.SetDefault(KeyEditor, "")
	viper.SetDefault(KeyDebounce, DefaultDebounce.String())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Current returns the typed settings. Load must have been called first.
func Current() Settings {
	debounce, err := time.ParseDuration(viper.GetString(KeyDebounce))
	if err != nil || debounce < 0 {
		debounce = DefaultDebounce
	}

	manifestName := strings.TrimSpace(viper.GetString(KeyManifestName))
	if manifestName == "" {
		manifestName = branding.ManifestName()
	}

	return Settings{
		ManifestName: manifestName,
		Ignore:       splitList(viper.GetStringSlice(KeyIgnore)),
		StateFile:    viper.GetString(KeyStateFile),
		LogLevel:     viper.GetString(KeyLogLevel),
		LogFile:      viper.GetString(KeyLogFile),
		Editor:       viper.GetString(KeyEditor),
		Debounce:     debounce,
	}
}

// splitList flattens comma-separated items so that `ignore: dist,build`
// and BULKREN_IGNORE=dist,build behave the same as a YAML list.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
