package snowman

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gekko3d/snowman/snowrt/core"
)

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// AssetConfig points at optional on-disk overrides. Empty paths use the
// embedded shaders, the procedural snowflake and the Go Regular font.
type AssetConfig struct {
	ShaderDir  string  `toml:"shader_dir"`
	TextureDir string  `toml:"texture_dir"`
	FontPath   string  `toml:"font_path"`
	FontSize   float64 `toml:"font_size"`
}

type Config struct {
	Window       WindowConfig      `toml:"window"`
	Capabilities core.Capabilities `toml:"capabilities"`
	Settings     Settings          `toml:"settings"`
	Assets       AssetConfig       `toml:"assets"`
	WatchShaders bool              `toml:"watch_shaders"`
	Debug        bool              `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Snowman",
		},
		Capabilities: core.FullCapabilities(),
		Settings:     DefaultSettings(),
		Assets: AssetConfig{
			FontSize: 16,
		},
	}
}

// LoadConfig reads path over DefaultConfig. Unknown keys are rejected so a
// misspelt setting does not silently fall back to its default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func DecodeConfig(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	cfg.Settings = cfg.Settings.Clamp(cfg.Capabilities)
	return nil
}

func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func (c Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
