// Package config loads and saves the savegames TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all savegames configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Profiles   []Profile        `toml:"profiles"`
	Cache      CacheConfig      `toml:"cache"`
	TUI        TUIConfig        `toml:"tui"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ActiveProfile string `toml:"active_profile"`
	DocumentsDir  string `toml:"documents_dir,omitempty"` // overrides OS detection
	AssetDir      string `toml:"asset_dir,omitempty"`     // fallback save images
}

// Profile binds a user profile to a game and its install path.
type Profile struct {
	ID       string `toml:"id"`
	Name     string `toml:"name,omitempty"`
	Game     string `toml:"game"`
	GamePath string `toml:"game_path,omitempty"`
}

// DisplayName returns the profile name, falling back to the id.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// CacheConfig controls the save details cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// TUIConfig holds dashboard preferences.
type TUIConfig struct {
	Watch      bool `toml:"watch"`
	DebounceMs int  `toml:"debounce_ms"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Enabled: true},
		TUI: TUIConfig{
			Watch:      true,
			DebounceMs: 500,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "savegames")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "savegames")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// GamesPath returns the path of the optional game definitions file.
func GamesPath() string {
	return filepath.Join(ConfigDir(), "games.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Profile returns the profile with the given id.
func (c Config) Profile(id string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// ActiveProfile returns the configured active profile.
func (c Config) ActiveProfile() (Profile, bool) {
	if c.General.ActiveProfile == "" {
		return Profile{}, false
	}
	return c.Profile(c.General.ActiveProfile)
}

// UpsertProfile adds p or replaces the profile with the same id.
func (c *Config) UpsertProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	if p.Game == "" {
		return fmt.Errorf("profile %s: game is required", p.ID)
	}
	for i := range c.Profiles {
		if c.Profiles[i].ID == p.ID {
			c.Profiles[i] = p
			return nil
		}
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}
