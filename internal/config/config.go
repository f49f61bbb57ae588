// Package config defines the configuration document consumed by the engine
// and its YAML loader. Parsing lives here, at the boundary: the runner only
// ever sees the decoded in-memory structure.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/apicheck/internal/auth"
	"github.com/loykin/apicheck/internal/runner"
	"gopkg.in/yaml.v3"
)

// Variable seeds the run's variable store before any step executes. Value
// and ValueFromEnv are mutually exclusive; ValueFromEnv reads a process
// environment variable at load time.
type Variable struct {
	Name         string `yaml:"name" mapstructure:"name"`
	Value        string `yaml:"value" mapstructure:"value"`
	ValueFromEnv string `yaml:"valueFromEnv" mapstructure:"valueFromEnv"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level         string `yaml:"level" mapstructure:"level"`                   // error, warn, info, debug
	Format        string `yaml:"format" mapstructure:"format"`                 // text, json, color
	MaskSensitive *bool  `yaml:"mask_sensitive" mapstructure:"mask_sensitive"` // default true
}

// ClientConfig carries explicit TLS options for the HTTP client.
type ClientConfig struct {
	Insecure      bool   `yaml:"insecure" mapstructure:"insecure"`
	MinTLSVersion string `yaml:"min_tls_version" mapstructure:"min_tls_version"`
}

// ReportConfig controls optional report artifacts.
type ReportConfig struct {
	JSONPath string `yaml:"json_path" mapstructure:"json_path"`
}

// Config is the parsed configuration document: connection targets, seed
// variables, pre-run auth providers and the ordered step list.
type Config struct {
	Name             string        `yaml:"name" mapstructure:"name"`
	BaseURL          string        `yaml:"baseUrl" mapstructure:"baseUrl"`
	ConnectionString string        `yaml:"connectionString" mapstructure:"connectionString"`
	Variables        []Variable    `yaml:"variables" mapstructure:"variables"`
	Auth             []auth.Config `yaml:"auth" mapstructure:"auth"`
	Logging          LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Client           ClientConfig  `yaml:"client" mapstructure:"client"`
	Report           ReportConfig  `yaml:"report" mapstructure:"report"`
	Steps            []runner.Step `yaml:"steps" mapstructure:"steps"`
}

// Load reads and decodes a YAML configuration file.
func Load(path string) (*Config, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean) // #nosec G304 -- path comes from the CLI flag
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration %s: %w", clean, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(clean), filepath.Ext(clean))
	}
	return &cfg, nil
}

// SeedVariables resolves the variables section into a flat map, reading
// process environment values where requested.
func (c *Config) SeedVariables() map[string]string {
	seed := make(map[string]string, len(c.Variables))
	for _, v := range c.Variables {
		if v.Name == "" {
			continue
		}
		if v.ValueFromEnv != "" {
			seed[v.Name] = os.Getenv(v.ValueFromEnv)
			continue
		}
		seed[v.Name] = v.Value
	}
	return seed
}

// Validate checks the structural rules that make a document runnable: every
// step needs a name and exactly one of apiRequest/databaseAction, database
// steps need a connection string, and API steps need a base URL unless the
// endpoint is absolute. It returns one finding per violation.
func (c *Config) Validate() []string {
	var findings []string
	if len(c.Steps) == 0 {
		findings = append(findings, "configuration has no steps")
	}
	for i, s := range c.Steps {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("step #%d", i+1)
			findings = append(findings, fmt.Sprintf("%s: missing name", label))
		}
		switch {
		case s.Request != nil && s.Database != nil:
			findings = append(findings, fmt.Sprintf("%s: declares both apiRequest and databaseAction", label))
		case s.Request == nil && s.Database == nil:
			findings = append(findings, fmt.Sprintf("%s: declares neither apiRequest nor databaseAction", label))
		case s.Database != nil && strings.TrimSpace(c.ConnectionString) == "":
			findings = append(findings, fmt.Sprintf("%s: databaseAction requires a connectionString", label))
		case s.Request != nil && strings.TrimSpace(c.BaseURL) == "" &&
			!strings.HasPrefix(strings.TrimSpace(s.Request.Endpoint), "http"):
			findings = append(findings, fmt.Sprintf("%s: apiRequest requires a baseUrl or an absolute endpoint", label))
		}
		if s.Auth != nil && s.Request == nil {
			findings = append(findings, fmt.Sprintf("%s: authentication applies only to apiRequest steps", label))
		}
	}
	return findings
}
