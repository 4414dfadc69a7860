// internal/config/config.go
//
// This package handles host configuration and the .support directory.
// Every project that embeds the Support menu gets a .support/ folder holding
// config.yaml and the diagnostic log.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/support-menu/internal/support"
)

const (
	// SupportDir is the name of the directory we create in each project
	SupportDir = ".support"

	// Review deep-link modes accepted by platform.review_deep_links.
	ReviewDeepLinksAuto = "auto"
	ReviewDeepLinksOn   = "true"
	ReviewDeepLinksOff  = "false"
)

const defaultConfigYAML = `# support menu configuration
version: 1

app:
  # Shown in the support email subject.
  name: My App
  # Numeric App Store identifier used for review and listing links.
  store_id: "000000000"
  # Hide mailing list, review, social and store entries.
  restricted: false

platform:
  # auto probes the OS version; true/false force the review deep link on or off.
  review_deep_links: auto

# Loopback bridge for native menu shells (support-menu serve).
bridge:
  enabled: true
  host: 127.0.0.1
  port: 8766
`

// AppConfig describes the host application.
type AppConfig struct {
	Name       string `yaml:"name"`
	StoreID    string `yaml:"store_id"`
	Restricted bool   `yaml:"restricted"`
}

// PlatformConfig overrides capability probing.
type PlatformConfig struct {
	ReviewDeepLinks string `yaml:"review_deep_links"`
}

// BridgeConfig captures optional bridge server overrides.
type BridgeConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// FileConfig models .support/config.yaml.
type FileConfig struct {
	Version  int            `yaml:"version"`
	App      AppConfig      `yaml:"app"`
	Platform PlatformConfig `yaml:"platform"`
	Bridge   BridgeConfig   `yaml:"bridge"`
}

// Config holds the runtime configuration for a host.
type Config struct {
	// ProjectDir is the directory the host was started from
	ProjectDir string

	// SupportProjectDir is ProjectDir/.support
	SupportProjectDir string

	File FileConfig
}

// Overrides carries command-line values that win over config.yaml. Nil
// fields leave the file value alone.
type Overrides struct {
	AppName         *string
	StoreID         *string
	Restricted      *bool
	ReviewDeepLinks *string
}

// InitSupportDir creates .support/ with logs/ and a default config.yaml.
func InitSupportDir(projectDir string) error {
	supportDir := filepath.Join(projectDir, SupportDir)
	if err := os.MkdirAll(filepath.Join(supportDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure support dir: %w", err)
	}
	return ensureConfigFile(filepath.Join(supportDir, "config.yaml"))
}

// Load reads .support/config.yaml under projectDir. A missing file yields
// the defaults.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		SupportProjectDir: filepath.Join(projectDir, SupportDir),
		File:              defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.SupportProjectDir, "config.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SupportProjectDir, "logs")
}

// LogPath returns the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "support.log")
}

// Support returns the immutable value the menu core consumes.
func (c *Config) Support() support.Config {
	return support.Config{
		StoreID:    c.File.App.StoreID,
		AppName:    c.File.App.Name,
		Restricted: c.File.App.Restricted,
	}
}

// ReviewDeepLinks reports the forced review deep-link setting. When auto is
// true the caller should probe the platform instead.
func (c *Config) ReviewDeepLinks() (enabled bool, auto bool) {
	switch c.File.Platform.ReviewDeepLinks {
	case ReviewDeepLinksOn:
		return true, false
	case ReviewDeepLinksOff:
		return false, false
	default:
		return false, true
	}
}

// Apply merges command-line overrides and revalidates.
func (c *Config) Apply(o Overrides) error {
	if o.AppName != nil {
		c.File.App.Name = *o.AppName
	}
	if o.StoreID != nil {
		c.File.App.StoreID = *o.StoreID
	}
	if o.Restricted != nil {
		c.File.App.Restricted = *o.Restricted
	}
	if o.ReviewDeepLinks != nil {
		c.File.Platform.ReviewDeepLinks = *o.ReviewDeepLinks
	}
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Save writes the current configuration back to .support/config.yaml.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.SupportProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure support dir: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		App: AppConfig{
			Name: "My App",
		},
		Platform: PlatformConfig{
			ReviewDeepLinks: ReviewDeepLinksAuto,
		},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Platform.ReviewDeepLinks) == "" {
		fc.Platform.ReviewDeepLinks = ReviewDeepLinksAuto
	}
}

func (fc *FileConfig) normalize() {
	fc.App.Name = strings.TrimSpace(fc.App.Name)
	fc.App.StoreID = strings.TrimSpace(fc.App.StoreID)
	fc.Platform.ReviewDeepLinks = strings.ToLower(strings.TrimSpace(fc.Platform.ReviewDeepLinks))
	fc.Bridge.Host = strings.TrimSpace(fc.Bridge.Host)
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if fc.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	switch fc.Platform.ReviewDeepLinks {
	case ReviewDeepLinksAuto, ReviewDeepLinksOn, ReviewDeepLinksOff:
	default:
		return fmt.Errorf("platform.review_deep_links must be 'auto', 'true' or 'false'")
	}
	if fc.Bridge.Port < 0 || fc.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be between 0 and 65535")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
