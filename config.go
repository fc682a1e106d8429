package acorn

import (
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables for a Stage and the tools built on it. It is
// usually decoded from YAML:
//
//	title: demo
//	width: 640
//	height: 480
//	debug: false
//	maxItems: 15
//	cache:
//	  gcFrames: 500
//	  checkInterval: 100
type Config struct {
	Title    string       `yaml:"title"`
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Debug    bool         `yaml:"debug"`
	MaxItems int          `yaml:"maxItems"`
	Cache    CacheOptions `yaml:"cache"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Title:    "acorn",
		Width:    640,
		Height:   480,
		MaxItems: DefaultMaxItems,
		Cache:    CacheOptions{GCFrames: DefaultGCFrames},
	}
}

// LoadConfig decodes YAML over DefaultConfig, so absent keys keep their
// defaults, and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, zerr.Wrap(err, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Cache = cfg.Cache.withDefaults()
	return cfg, nil
}

// LoadConfigFile reads and decodes the YAML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, zerr.Wrap(err, "failed to read configuration")
	}
	return LoadConfig(data)
}

// Validate reports the first out-of-range field as ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return annotate(ErrInvalidConfig, "width", c.Width, "height", c.Height)
	case c.MaxItems < 0:
		return annotate(ErrInvalidConfig, "maxItems", c.MaxItems)
	case c.Cache.GCFrames < 0:
		return annotate(ErrInvalidConfig, "gcFrames", c.Cache.GCFrames)
	case c.Cache.CheckInterval < 0:
		return annotate(ErrInvalidConfig, "checkInterval", c.Cache.CheckInterval)
	}
	return nil
}
