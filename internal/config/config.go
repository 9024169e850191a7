package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for sft.
type Config struct {
	BaseDir    string         `toml:"base_dir"`
	ArchiveDir string         `toml:"archive_dir"`
	SymlinkDir string         `toml:"symlink_dir"`
	TrashDir   string         `toml:"trash_dir"`
	IngestDir  string         `toml:"ingest_dir"`
	UpdateDir  string         `toml:"update_dir"`
	LogDir     string         `toml:"log_dir"`
	Database   DatabaseConfig `toml:"database"`
	Watcher    WatcherConfig  `toml:"watcher"`
}

// DatabaseConfig represents configuration for the registry database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// WatcherConfig holds settings for the ingest directory watcher.
type WatcherConfig struct {
	// SettleDelayMS is how long a file must go without write events before
	// the watcher considers it fully written. Defaults to 2000.
	SettleDelayMS int `toml:"settle_delay_ms"`
	// PollIntervalMS bounds how often pending files are re-checked.
	// Defaults to 500.
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// NewConfig creates a new Config rooted at baseDir with the default
// directory layout.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:    baseDir,
		ArchiveDir: filepath.Join(baseDir, "SovereignArchive"),
		SymlinkDir: filepath.Join(baseDir, "SFT_Symlink"),
		TrashDir:   filepath.Join(baseDir, "_TRASH"),
		IngestDir:  filepath.Join(baseDir, "_INGEST"),
		UpdateDir:  filepath.Join(baseDir, "_UPDATE"),
		LogDir:     filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Watcher: WatcherConfig{
			SettleDelayMS:  2000,
			PollIntervalMS: 500,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
