package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PixPMusic/nocturn-studio/internal/engine"
	"github.com/google/uuid"
)

// ErrPresetNotFound is returned when a preset ID is unknown
var ErrPresetNotFound = errors.New("preset not found")

// Default port names, matching what the generated host scripts expect
const (
	DefaultOutPort = "Nocturn Studio Out"
	DefaultInPort  = "Nocturn Studio In"
)

// Preset is a named mapping table
type Preset struct {
	ID       string                    `json:"id"`
	Name     string                    `json:"name"`
	Mappings map[string]engine.Mapping `json:"mappings"`
}

// NewPreset creates a preset with a generated ID
func NewPreset(name string, mappings map[string]engine.Mapping) Preset {
	return Preset{
		ID:       uuid.New().String(),
		Name:     name,
		Mappings: mappings,
	}
}

// Config holds application configuration
type Config struct {
	FirstLaunchCompleted bool     `json:"first_launch_completed"`
	OpenAtStartup        bool     `json:"open_at_startup"`
	LEDFeedback          bool     `json:"led_feedback"`
	Variant              string   `json:"variant"`
	OutPort              string   `json:"out_port"`      // port the bridge sends to
	InPort               string   `json:"in_port"`       // port the host sends feedback to
	VirtualPorts         bool     `json:"virtual_ports"` // create the ports instead of opening existing ones
	ScriptDir            string   `json:"script_dir"`
	Presets              []Preset `json:"presets"`
	CurrentPresetID      string   `json:"current_preset_id"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Variant:      "studio",
		OutPort:      DefaultOutPort,
		InPort:       DefaultInPort,
		VirtualPorts: true,
		LEDFeedback:  true,
		Presets:      []Preset{},
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "nocturn-studio"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, returning defaults if it does not exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Presets == nil {
		cfg.Presets = []Preset{}
	}
	if cfg.Variant == "" {
		cfg.Variant = "studio"
	}
	return cfg, nil
}

// Save writes the config to the default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolvedScriptDir returns the script output directory, defaulting to a
// folder next to the config file
func (c *Config) ResolvedScriptDir() (string, error) {
	if c.ScriptDir != "" {
		return c.ScriptDir, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scripts"), nil
}

// CurrentPreset returns the selected preset, or nil if there is none
func (c *Config) CurrentPreset() *Preset {
	for i := range c.Presets {
		if c.Presets[i].ID == c.CurrentPresetID {
			return &c.Presets[i]
		}
	}
	return nil
}

// AddPreset appends a preset and selects it
func (c *Config) AddPreset(p Preset) {
	c.Presets = append(c.Presets, p)
	c.CurrentPresetID = p.ID
}

// RemovePreset removes a preset by ID
func (c *Config) RemovePreset(id string) {
	for i, p := range c.Presets {
		if p.ID == id {
			c.Presets = append(c.Presets[:i], c.Presets[i+1:]...)
			if c.CurrentPresetID == id {
				c.CurrentPresetID = ""
			}
			return
		}
	}
}

// SavePreset stores mappings under name, replacing a preset with the same
// name, and selects it
func (c *Config) SavePreset(name string, mappings map[string]engine.Mapping) Preset {
	copied := make(map[string]engine.Mapping, len(mappings))
	for id, m := range mappings {
		copied[id] = m
	}

	for i := range c.Presets {
		if c.Presets[i].Name == name {
			c.Presets[i].Mappings = copied
			c.CurrentPresetID = c.Presets[i].ID
			return c.Presets[i]
		}
	}

	p := NewPreset(name, copied)
	c.AddPreset(p)
	return p
}

// LoadPreset selects a preset and returns its mappings
func (c *Config) LoadPreset(id string) (map[string]engine.Mapping, error) {
	for _, p := range c.Presets {
		if p.ID == id {
			c.CurrentPresetID = id
			return p.Mappings, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
}
