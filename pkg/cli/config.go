package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.sqlgen/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile" json:"current_profile"`
	Profiles       map[string]Profile `yaml:"profiles" json:"profiles"`
}

// Profile represents a single named configuration profile.
type Profile struct {
	Metadata string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Mode     string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Output   string `yaml:"output,omitempty" json:"output,omitempty"`
}

// profileKeys are the settable profile fields, in display order.
var profileKeys = []string{"metadata", "mode", "output"}

// Get returns the value of key.
func (p Profile) Get(key string) (string, error) {
	switch key {
	case "metadata":
		return p.Metadata, nil
	case "mode":
		return p.Mode, nil
	case "output":
		return p.Output, nil
	}
	return "", unknownKeyError(key)
}

// Set assigns value to key.
func (p *Profile) Set(key, value string) error {
	switch key {
	case "metadata":
		p.Metadata = value
	case "mode":
		p.Mode = value
	case "output":
		p.Output = value
	default:
		return unknownKeyError(key)
	}
	return nil
}

func unknownKeyError(key string) error {
	keys := append([]string(nil), profileKeys...)
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %q: valid keys are %v", key, keys)
}

func newUserConfig() *UserConfig {
	return &UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{},
	}
}

// ActiveProfileName returns override when set, otherwise the current profile.
func (c *UserConfig) ActiveProfileName(override string) string {
	if override != "" {
		return override
	}
	if c.CurrentProfile == "" {
		return "default"
	}
	return c.CurrentProfile
}

// ActiveProfile returns the profile to use based on the override or current-profile.
func (c *UserConfig) ActiveProfile(override string) Profile {
	return c.Profiles[c.ActiveProfileName(override)]
}

// ConfigDir returns the path to ~/.sqlgen/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlgen")
}

// ConfigPath returns the path to ~/.sqlgen/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads ~/.sqlgen/config.yaml.
func LoadUserConfig() (*UserConfig, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// loadUserConfigOrEmpty treats a missing or unreadable config as empty.
func loadUserConfigOrEmpty() *UserConfig {
	cfg, err := LoadUserConfig()
	if err != nil {
		return newUserConfig()
	}
	return cfg
}

// SaveUserConfig writes ~/.sqlgen/config.yaml.
func SaveUserConfig(cfg *UserConfig) error {
	if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o600)
}
