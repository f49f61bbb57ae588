// Package auth acquires credentials before a run starts and seeds them into
// the variable store, so steps can reference them through substitution or the
// bearer token mechanism. Providers are registered in a pluggable registry
// keyed by type.
package auth

import (
	"context"
	"fmt"
	"strings"
)

// Config is one pre-run auth entry from the configuration document.
type Config struct {
	// Provider type key (e.g., "basic", "oauth2").
	Type string `yaml:"type" mapstructure:"type"`
	// Store variable name the acquired value is written under.
	Name string `yaml:"name" mapstructure:"name"`
	// Provider-specific configuration.
	Spec map[string]interface{} `yaml:"config" mapstructure:"config"`
}

// Method is the plugin interface for an authentication method. Acquire
// returns only the credential value to store (e.g. "Basic ..." or a raw
// access token).
type Method interface {
	Acquire(ctx context.Context) (string, error)
}

// Factory builds a Method from a loosely-typed spec map.
type Factory func(spec map[string]interface{}) (Method, error)

var providers = map[string]Factory{}

func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register registers a provider factory under a type key. The key is
// normalized to lower-case. Library users may add their own providers.
func Register(typ string, f Factory) {
	key := normalizeKey(typ)
	if key == "" || f == nil {
		return
	}
	providers[key] = f
}

// Acquire resolves the provider for typ, builds it from spec and acquires
// the credential value.
func Acquire(ctx context.Context, typ string, spec map[string]interface{}) (string, error) {
	f, ok := providers[normalizeKey(typ)]
	if !ok {
		return "", fmt.Errorf("auth: unsupported provider type: %s", typ)
	}
	m, err := f(spec)
	if err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return m.Acquire(ctx)
}
