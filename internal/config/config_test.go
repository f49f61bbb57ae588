package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/apicheck/internal/dbx"
	"github.com/loykin/apicheck/internal/request"
	"github.com/loykin/apicheck/internal/runner"
)

const sampleYAML = `
name: user service smoke
baseUrl: http://localhost:8080
connectionString: sqlite://./smoke.db
variables:
  - name: tenant
    value: acme
  - name: apiKey
    valueFromEnv: APICHECK_TEST_KEY
steps:
  - name: login
    description: obtain a token
    apiRequest:
      method: POST
      endpoint: /login
      headers:
        X-Tenant: ${tenant}
      body:
        user: admin
        nested:
          flag: true
      assertions:
        - type: notEmpty
          propertyPath: $.data.token
    authentication:
      tokenPath: $.data.token
      variableName: bearerToken
      tokenType: Bearer
  - name: count users
    databaseAction:
      query: SELECT COUNT(*) AS n FROM users
      parameters:
        tenant: ${tenant}
      assertions:
        - type: greaterThan
          column: n
          expectedValue: "0"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apicheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DecodesFullDocument(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "user service smoke" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if len(cfg.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(cfg.Steps))
	}

	login := cfg.Steps[0]
	if login.Request == nil || login.Database != nil {
		t.Fatalf("step 1 must be an API step: %+v", login)
	}
	if login.Request.Headers["X-Tenant"] != "${tenant}" {
		t.Fatalf("placeholders must survive decoding untouched: %+v", login.Request.Headers)
	}
	body, ok := login.Request.Body.(map[string]interface{})
	if !ok {
		t.Fatalf("body must decode as a map, got %T", login.Request.Body)
	}
	if nested, ok := body["nested"].(map[string]interface{}); !ok || nested["flag"] != true {
		t.Fatalf("nested body decoding: %#v", body)
	}
	if login.Auth == nil || login.Auth.TokenPath != "$.data.token" {
		t.Fatalf("authentication descriptor: %+v", login.Auth)
	}
	if len(login.Request.Assertions) != 1 || login.Request.Assertions[0].Type != "notEmpty" {
		t.Fatalf("assertions: %#v", login.Request.Assertions)
	}

	dbStep := cfg.Steps[1]
	if dbStep.Database == nil || dbStep.Request != nil {
		t.Fatalf("step 2 must be a database step: %+v", dbStep)
	}
	if dbStep.Database.Assertions[0].Column != "n" {
		t.Fatalf("db assertion column: %#v", dbStep.Database.Assertions)
	}
}

func TestLoad_NameDefaultsToFileName(t *testing.T) {
	cfg, err := Load(writeConfig(t, "baseUrl: http://x\nsteps: []\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "apicheck" {
		t.Fatalf("expected file-derived name, got %q", cfg.Name)
	}
}

func TestSeedVariables(t *testing.T) {
	t.Setenv("APICHECK_TEST_KEY", "secret-from-env")
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	seed := cfg.SeedVariables()
	if seed["tenant"] != "acme" {
		t.Fatalf("literal variable: %q", seed["tenant"])
	}
	if seed["apiKey"] != "secret-from-env" {
		t.Fatalf("env-sourced variable: %q", seed["apiKey"])
	}
}

func TestValidate_FlagsStepShapeErrors(t *testing.T) {
	cfg := &Config{
		BaseURL:          "http://x",
		ConnectionString: "",
		Steps: []runner.Step{
			{Name: "neither"},
			{Name: "both", Request: &request.Spec{Method: "GET", Endpoint: "/"}, Database: &dbx.Spec{Query: "SELECT 1"}},
			{Name: "db without conn", Database: &dbx.Spec{Query: "SELECT 1"}},
		},
	}
	findings := cfg.Validate()
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d: %v", len(findings), findings)
	}
	for i, want := range []string{"neither", "both", "connectionString"} {
		if !strings.Contains(findings[i], want) {
			t.Fatalf("finding %d should mention %q: %q", i, want, findings[i])
		}
	}
}

func TestValidate_CleanConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if findings := cfg.Validate(); len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
}
