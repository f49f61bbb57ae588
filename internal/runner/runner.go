// Package runner orchestrates a run: it executes steps strictly in declared
// order, threads the variable store between them, evaluates assertions and
// aggregates per-step results into a run summary. Failures are contained at
// the smallest possible scope; nothing below the runner aborts a run.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/loykin/apicheck/internal/assertion"
	"github.com/loykin/apicheck/internal/auth"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/constants"
	"github.com/loykin/apicheck/internal/dbx"
	"github.com/loykin/apicheck/internal/env"
	"github.com/loykin/apicheck/internal/extract"
	"github.com/loykin/apicheck/internal/request"
)

// Runner executes one configuration. It owns the variable store for the
// duration of the run; construct a fresh Runner per run so concurrent runs
// in the same process never interfere.
type Runner struct {
	Name             string
	BaseURL          string
	ConnectionString string
	Steps            []Step
	Auth             []auth.Config
	Client           *resty.Client
	Store            *env.Store
}

// Run executes all steps sequentially and returns the summary. Pre-run auth
// provider failure is the only error path: it aborts before the first step.
// Step-level faults are recorded in the summary instead.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	logger := common.GetLogger().WithComponent("runner")
	if r.Store == nil {
		r.Store = env.New()
	}
	if r.Client == nil {
		r.Client = request.NewClient(nil)
	}

	if err := r.acquireAuth(ctx); err != nil {
		return nil, err
	}

	result := &RunResult{
		Name:      r.Name,
		StartedAt: time.Now(),
		Steps:     make([]StepResult, 0, len(r.Steps)),
	}
	logger.Info("run started", "name", r.Name, "steps", len(r.Steps))

	for i := range r.Steps {
		step := &r.Steps[i]
		sr := r.runStep(ctx, step)
		result.Steps = append(result.Steps, sr)
		result.Total++
		if sr.Success {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	logger.Info("run finished", "name", r.Name,
		"total", result.Total, "passed", result.Passed, "failed", result.Failed,
		"duration", result.Duration)
	return result, nil
}

// acquireAuth runs the configured providers and seeds their values into the
// store before the first step executes.
func (r *Runner) acquireAuth(ctx context.Context) error {
	logger := common.GetLogger().WithComponent("auth")
	for _, a := range r.Auth {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("auth: provider entry of type %q has no name", a.Type)
		}
		value, err := auth.Acquire(ctx, a.Type, a.Spec)
		if err != nil {
			return fmt.Errorf("auth: acquire %q: %w", a.Name, err)
		}
		r.Store.Set(a.Name, value)
		logger.Debug("credential acquired", "name", a.Name, "type", a.Type)
	}
	return nil
}

// runStep executes one step through its full lifecycle. Any fault is folded
// into the returned StepResult; this function never returns an error.
func (r *Runner) runStep(ctx context.Context, step *Step) StepResult {
	logger := common.GetLogger().WithComponent("runner").WithStep(step.Name)
	sr := StepResult{Name: step.Name, Description: step.Description}
	start := time.Now()
	defer func() { sr.Duration = time.Since(start) }()

	switch {
	case step.Request != nil && step.Database != nil:
		sr.Error = "configuration error: step declares both apiRequest and databaseAction"
		logger.Error("invalid step configuration", "error", sr.Error)
	case step.Request != nil:
		r.runRequestStep(ctx, step, &sr)
	case step.Database != nil:
		r.runDatabaseStep(ctx, step, &sr)
	default:
		sr.Error = "configuration error: step declares neither apiRequest nor databaseAction"
		logger.Error("invalid step configuration", "error", sr.Error)
	}

	if sr.Success {
		logger.Info("step passed", "assertions", len(sr.Assertions))
	} else {
		logger.Warn("step failed", "error", sr.Error, "assertions", len(sr.Assertions))
	}
	return sr
}

func (r *Runner) runRequestStep(ctx context.Context, step *Step, sr *StepResult) {
	resp, err := step.Request.Execute(ctx, r.Client, r.BaseURL, r.Store)
	if err != nil {
		sr.Error = err.Error()
		return
	}
	sr.StatusCode = resp.StatusCode
	sr.Response = string(resp.Body)

	passed := true
	for _, spec := range step.Request.Assertions {
		body := resp.Body
		if !resp.Parsed && strings.TrimSpace(spec.PropertyPath) != "" {
			// Without a parsed document only the whole-body locator resolves.
			res := assertion.Evaluate(spec.Type, spec.PropertyPath, "", false, spec.ExpectedValue)
			sr.Assertions = append(sr.Assertions, res)
			passed = passed && res.Success
			continue
		}
		actual, present := extract.FromDocument(body, spec.PropertyPath)
		res := assertion.Evaluate(spec.Type, spec.PropertyPath, actual, present, spec.ExpectedValue)
		sr.Assertions = append(sr.Assertions, res)
		passed = passed && res.Success
	}

	if !resp.IsSuccess() {
		sr.Error = fmt.Sprintf("unexpected status code %d", resp.StatusCode)
	}
	sr.Success = resp.IsSuccess() && passed

	if step.Auth != nil {
		r.extractToken(step, resp, sr)
	}
}

func (r *Runner) runDatabaseStep(ctx context.Context, step *Step, sr *StepResult) {
	db, err := dbx.Open(ctx, r.ConnectionString)
	if err != nil {
		sr.Error = err.Error()
		return
	}
	defer func() { _ = db.Close() }()

	result, err := step.Database.Execute(ctx, db, r.Store)
	if err != nil {
		sr.Error = err.Error()
		return
	}

	passed := true
	for _, spec := range step.Database.Assertions {
		actual, err := extract.FromResult(result.Columns, result.Rows, spec.Column)
		var res assertion.Result
		if err != nil {
			res = assertion.Failed(spec, err.Error())
		} else {
			res = assertion.Evaluate(spec.Type, spec.Column, actual, true, spec.ExpectedValue)
		}
		sr.Assertions = append(sr.Assertions, res)
		passed = passed && res.Success
	}
	sr.Success = passed
}

// extractToken runs only after a successful API step with a parsed response.
// A missing token is a warning, never a step failure: the step's own
// assertions already determined its verdict.
func (r *Runner) extractToken(step *Step, resp *request.Response, sr *StepResult) {
	logger := common.GetLogger().WithComponent("runner").WithStep(step.Name)
	if !sr.Success {
		return
	}
	if !resp.Parsed {
		logger.Warn("token extraction skipped: response is not structured", "path", step.Auth.TokenPath)
		return
	}
	value, present := extract.FromDocument(resp.Body, step.Auth.TokenPath)
	if !present {
		logger.Warn("token extraction found no value", "path", step.Auth.TokenPath)
		return
	}
	r.Store.Set(step.Auth.VariableName, value)
	tokenType := strings.TrimSpace(step.Auth.TokenType)
	if tokenType != "" && !r.Store.Has(constants.VarAuthTokenType) {
		r.Store.Set(constants.VarAuthTokenType, tokenType)
	}
	logger.Debug("token stored", "variable", step.Auth.VariableName)
	inspectJWT(logger, value)
}

// inspectJWT logs expiry diagnostics when the extracted credential parses as
// a JWT. Purely informational; parse failures are silently ignored because
// opaque tokens are common.
func inspectJWT(logger *common.Logger, token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if time.Now().After(exp.Time) {
		logger.Warn("extracted token is already expired", "expired_at", exp.Time)
		return
	}
	logger.Debug("extracted token expiry", "expires_at", exp.Time)
}
