package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceSQLite = "sqlite"
	SourceCSV    = "csv"
)

// Config models droneops.yml.
type Config struct {
	Source struct {
		Kind   string `yaml:"kind"`
		CSVDir string `yaml:"csv_dir"`
	} `yaml:"source"`
	Rules  Rules `yaml:"rules"`
	Server struct {
		Addr      string `yaml:"addr"`
		BasePath  string `yaml:"base_path"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Rules tunes the matching and conflict rules.
type Rules struct {
	RainMarkers            []string `yaml:"rain_markers"`
	MaintenanceHorizonDays int      `yaml:"maintenance_horizon_days"`
	Currency               string   `yaml:"currency"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with dops config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceSQLite, SourceCSV:
	default:
		return fmt.Errorf("config.source.kind must be %q or %q", SourceSQLite, SourceCSV)
	}
	if c.Source.Kind == SourceCSV && strings.TrimSpace(c.Source.CSVDir) == "" {
		return fmt.Errorf("config.source.csv_dir is required for csv sources")
	}
	for i, m := range c.Rules.RainMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("config.rules.rain_markers[%d] is empty", i)
		}
	}
	if c.Rules.MaintenanceHorizonDays < 0 {
		return fmt.Errorf("config.rules.maintenance_horizon_days must not be negative")
	}
	if c.Rules.Currency == "" {
		return fmt.Errorf("config.rules.currency is required")
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("config.log.format must be json or console")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "droneops.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultTemplate), &cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys left out of
// data keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `source:
  kind: sqlite
  csv_dir: data

rules:
  rain_markers: [ip43, ip44, ip55]
  maintenance_horizon_days: 30
  currency: INR

server:
  addr: 127.0.0.1:8080
  base_path: ""

log:
  level: info
  format: json
`
