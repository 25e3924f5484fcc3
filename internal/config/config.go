package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/powersim/internal/sim"
	"github.com/san-kum/powersim/internal/telemetry"
)

// Config is the full application configuration: the simulation core
// plus the telemetry surface around it.
type Config struct {
	Sim       sim.Config       `yaml:"sim" koanf:"sim"`
	Telemetry telemetry.Config `yaml:"telemetry" koanf:"telemetry"`
}

func DefaultConfig() *Config {
	return &Config{
		Sim:       sim.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads a YAML or JSON file over the defaults, then applies
// POWERSIM_ environment overrides (POWERSIM_SIM__DT=0.25 sets sim.dt).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = kyaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("POWERSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "powersim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if err := cfg.Sim.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
