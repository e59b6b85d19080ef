package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Zone    ZoneConfig    `json:"zone"`
	Journal JournalConfig `json:"journal"`
	Window  WindowConfig  `json:"window"`
	Debug   DebugConfig   `json:"debug"`
}

// ZoneConfig holds drop zone options
type ZoneConfig struct {
	Frame               string `json:"frame"`      // "document" | "window" | "element:<id>"
	AcceptType          string `json:"acceptType"` // e.g. "image/*,.pdf"; empty accepts everything
	DropEffect          string `json:"dropEffect"` // "copy" | "move" | "link" | "none"
	TargetAlwaysVisible bool   `json:"targetAlwaysVisible"`
}

// JournalConfig holds drop journal settings
type JournalConfig struct {
	Enabled     bool   `json:"enabled"`
	Path        string `json:"path"` // empty uses the default under the user config dir
	RecentLimit int    `json:"recentLimit"`
}

// WindowConfig holds the demo window settings
type WindowConfig struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`  // dp
	Height int    `json:"height"` // dp
}

// DebugConfig lists debug categories enabled at startup (debug builds only)
type DebugConfig struct {
	Categories []string `json:"categories"`
}

// Frame kinds accepted in ZoneConfig.Frame
const (
	FrameDocument = "document"
	FrameWindow   = "window"
	FrameElement  = "element"
)

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field  string
	Value  string
	Reason string
	Err    error // optional sentinel for errors.Is
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseFrame splits a frame setting into its kind and element id.
// The id is only set for element frames.
func ParseFrame(s string) (kind, id string, err error) {
	switch {
	case s == FrameDocument || s == FrameWindow:
		return s, "", nil
	case strings.HasPrefix(s, FrameElement+":"):
		id = strings.TrimPrefix(s, FrameElement+":")
		if id == "" {
			return "", "", &ConfigError{Field: "zone.frame", Value: s, Reason: "element frame needs an id"}
		}
		return FrameElement, id, nil
	}
	return "", "", &ConfigError{Field: "zone.frame", Value: s, Reason: "must be document, window, or element:<id>"}
}

// Validate checks the zone settings and returns the first problem found
func (c *Config) Validate() error {
	if _, _, err := ParseFrame(c.Zone.Frame); err != nil {
		return err
	}
	switch c.Zone.DropEffect {
	case "copy", "move", "link", "none":
	default:
		return &ConfigError{Field: "zone.dropEffect", Value: c.Zone.DropEffect, Reason: "must be copy, move, link, or none"}
	}
	if c.Journal.RecentLimit < 0 {
		return &ConfigError{Field: "journal.recentLimit", Value: fmt.Sprint(c.Journal.RecentLimit), Reason: "must not be negative"}
	}
	return nil
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing or validation error if config failed to load
}

// NewManager creates a new configuration manager using the default path
func NewManager() *Manager {
	return NewManagerAt(ConfigPath())
}

// NewManagerAt creates a configuration manager bound to a specific file
func NewManagerAt(path string) *Manager {
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Zone: ZoneConfig{
			Frame:               FrameDocument,
			AcceptType:          "",
			DropEffect:          "copy",
			TargetAlwaysVisible: false,
		},
		Journal: JournalConfig{
			Enabled:     true,
			RecentLimit: 20,
		},
		Window: WindowConfig{
			Title:  "filedrop",
			Width:  640,
			Height: 480,
		},
		Debug: DebugConfig{
			Categories: []string{"APP", "DND", "FRAME"},
		},
	}
}

// ConfigPath returns the config file path: ~/.config/filedrop/config.json
// This is consistent across all platforms (Windows, macOS, Linux)
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "filedrop", "config.json")
}

// Path returns the file this manager reads and writes
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Load reads the configuration from the config file.
// If the file doesn't exist, creates it with defaults.
// If parsing or validation fails, stores the error and keeps defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	// Ensure config directory exists
	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Printf("Config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			log.Printf("Config: failed to save default config: %v", saveErr)
			return saveErr
		}
		return nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", m.path, err)
		return err
	}

	// Start from defaults so missing keys keep their default values
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Config: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}

	log.Printf("Config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetAcceptType updates the accept pattern
func (m *Manager) SetAcceptType(pattern string) {
	m.mu.Lock()
	m.config.Zone.AcceptType = pattern
	m.mu.Unlock()
	m.Save()
}

// SetTargetAlwaysVisible updates the target rendering hint
func (m *Manager) SetTargetAlwaysVisible(v bool) {
	m.mu.Lock()
	m.config.Zone.TargetAlwaysVisible = v
	m.mu.Unlock()
	m.Save()
}

// SetDropEffect updates the drop effect after validating it
func (m *Manager) SetDropEffect(effect string) error {
	m.mu.Lock()
	next := *m.config
	next.Zone.DropEffect = effect
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.config = &next
	m.mu.Unlock()
	return m.Save()
}

// SetFrame updates the frame setting after validating it
func (m *Manager) SetFrame(frame string) error {
	if _, _, err := ParseFrame(frame); err != nil {
		return err
	}
	m.mu.Lock()
	m.config.Zone.Frame = frame
	m.mu.Unlock()
	return m.Save()
}

// GetZone returns the zone settings
func (m *Manager) GetZone() ZoneConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Zone
}

// GenerateConfig backs up existing config and creates a fresh default config
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig() (backupPath string, err error) {
	return generateConfigAt(ConfigPath())
}

func generateConfigAt(configPath string) (backupPath string, err error) {
	if _, err := os.Stat(configPath); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(configPath), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}

	return backupPath, nil
}
