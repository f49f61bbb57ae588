// Package apicheck executes declarative API/database test configurations:
// ordered steps run sequentially against live targets, a variable store is
// threaded across them, and typed assertions turn responses and query
// results into pass/fail verdicts.
package apicheck

import (
	"context"
	"crypto/tls"

	"github.com/loykin/apicheck/internal/assertion"
	"github.com/loykin/apicheck/internal/auth"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/config"
	"github.com/loykin/apicheck/internal/dbx"
	"github.com/loykin/apicheck/internal/env"
	"github.com/loykin/apicheck/internal/request"
	"github.com/loykin/apicheck/internal/runner"
)

// Re-export commonly used types for embedded use.

// Config is the parsed configuration document.
type Config = config.Config

// Step is one unit of work in a run.
type Step = runner.Step

// RequestSpec is the API request payload of a step.
type RequestSpec = request.Spec

// DatabaseSpec is the database action payload of a step.
type DatabaseSpec = dbx.Spec

// TokenSpec describes post-step token extraction.
type TokenSpec = runner.TokenSpec

// AssertionSpec describes one assertion attached to a step.
type AssertionSpec = assertion.Spec

// RunResult is the aggregated summary of one run.
type RunResult = runner.RunResult

// StepResult is the outcome of one step.
type StepResult = runner.StepResult

// AssertionResult is the outcome of one assertion.
type AssertionResult = assertion.Result

// AuthMethod is the plugin interface for pre-run credential acquisition.
type AuthMethod = auth.Method

// AuthFactory builds an AuthMethod from a loosely-typed spec map.
type AuthFactory = auth.Factory

// RegisterAuthProvider exposes custom auth provider registration for library
// users.
func RegisterAuthProvider(typ string, f AuthFactory) { auth.Register(typ, f) }

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// Run executes the configuration and returns its summary. The run itself
// never fails outright: step faults are contained in the summary. The only
// error paths are pre-run ones (auth provider acquisition).
func Run(ctx context.Context, cfg *Config) (*RunResult, error) {
	configureLogging(cfg.Logging)

	r := &runner.Runner{
		Name:             cfg.Name,
		BaseURL:          cfg.BaseURL,
		ConnectionString: cfg.ConnectionString,
		Steps:            cfg.Steps,
		Auth:             cfg.Auth,
		Client:           request.NewClient(tlsConfig(cfg.Client)),
		Store:            env.NewFrom(cfg.SeedVariables()),
	}
	return r.Run(ctx)
}

func configureLogging(lc config.LoggingConfig) {
	mask := true
	if lc.MaskSensitive != nil {
		mask = *lc.MaskSensitive
	}
	common.SetDefaultLogger(common.NewLogger(common.ParseLogLevel(lc.Level), lc.Format, mask))
}

func tlsConfig(cc config.ClientConfig) *tls.Config {
	if !cc.Insecure && cc.MinTLSVersion == "" {
		return nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS13} // #nosec G402 -- insecure is an explicit opt-in
	cfg.InsecureSkipVerify = cc.Insecure
	switch cc.MinTLSVersion {
	case "1.0":
		cfg.MinVersion = tls.VersionTLS10
	case "1.1":
		cfg.MinVersion = tls.VersionTLS11
	case "1.2":
		cfg.MinVersion = tls.VersionTLS12
	case "1.3", "":
		cfg.MinVersion = tls.VersionTLS13
	}
	return cfg
}
