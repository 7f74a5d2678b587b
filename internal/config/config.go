package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the values the configure flow works with. Everything has a
// default matching a stock tesseract-olap install; a YAML file and a few
// environment variables can override them.
type Config struct {
	ServiceName    string `yaml:"service_name"`
	ServiceUser    string `yaml:"service_user"`
	UnitPath       string `yaml:"unit_path"`
	HomeDir        string `yaml:"home_dir"`
	DefaultAddress string `yaml:"default_address"` // ClickHouse host:port shipped in the unit file
	SchemaToken    string `yaml:"schema_token"`    // schema filename shipped in the unit file
	SchemaDir      string `yaml:"schema_dir"`      // directory under HomeDir holding the schema
}

// Environment variables read by Load.
const (
	EnvConfigFile = "TESSERACT_SETUP_CONFIG"
	EnvUnitPath   = "TESSERACT_UNIT_PATH"
	EnvUser       = "TESSERACT_USER"
)

// Defaults returns the stock tesseract-olap layout.
func Defaults() Config {
	return Config{
		ServiceName:    "tesseract-olap",
		ServiceUser:    "tesseract",
		UnitPath:       "/etc/systemd/system/tesseract-olap.service",
		HomeDir:        homeDir(),
		DefaultAddress: "127.0.0.1:9000",
		SchemaToken:    "schema.json",
		SchemaDir:      "tesseract-schema",
	}
}

// Load returns defaults, overlaid by the YAML file named in
// TESSERACT_SETUP_CONFIG (if set) and then by environment overrides
// (HOME, TESSERACT_UNIT_PATH, TESSERACT_USER).
func Load() (Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("HOME"); v != "" {
		cfg.HomeDir = v
	}
	if v := os.Getenv(EnvUnitPath); v != "" {
		cfg.UnitPath = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		cfg.ServiceUser = v
	}
	return cfg, nil
}

// ErrNoHome is returned when no absolute home directory is known.
var ErrNoHome = errors.New("home directory unknown: set HOME or home_dir")

// DefaultSchemaPath is where the schema lives when the operator keeps the
// default: <home>/tesseract-schema/schema.json. The unit needs an absolute
// path, so a missing or relative HomeDir is an error.
func (c Config) DefaultSchemaPath() (string, error) {
	if c.HomeDir == "" || !filepath.IsAbs(c.HomeDir) {
		return "", fmt.Errorf("%w (got %q)", ErrNoHome, c.HomeDir)
	}
	return filepath.Join(c.HomeDir, c.SchemaDir, c.SchemaToken), nil
}

// homeDir prefers $HOME so the default path follows the invoking
// environment, then the passwd entry of the current user.
func homeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return ""
}
