package runner

import (
	"time"

	"github.com/loykin/apicheck/internal/assertion"
	"github.com/loykin/apicheck/internal/dbx"
	"github.com/loykin/apicheck/internal/request"
)

// Step is one named unit of work. Exactly one of Request or Database must be
// populated; a step with neither, or with both, is a configuration error and
// is recorded as a failed step without aborting the run.
type Step struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Description string        `yaml:"description" mapstructure:"description"`
	Request     *request.Spec `yaml:"apiRequest" mapstructure:"apiRequest"`
	Database    *dbx.Spec     `yaml:"databaseAction" mapstructure:"databaseAction"`
	Auth        *TokenSpec    `yaml:"authentication" mapstructure:"authentication"`
}

// TokenSpec describes post-step token extraction on API steps: where to read
// the token from the parsed response, which variable to store it under, and
// an optional token scheme label.
type TokenSpec struct {
	TokenPath    string `yaml:"tokenPath" mapstructure:"tokenPath"`
	VariableName string `yaml:"variableName" mapstructure:"variableName"`
	TokenType    string `yaml:"tokenType" mapstructure:"tokenType"`
}

// StepResult is the immutable outcome of one step.
type StepResult struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Success     bool               `json:"success"`
	Duration    time.Duration      `json:"duration"`
	Error       string             `json:"error,omitempty"`
	StatusCode  int                `json:"statusCode,omitempty"`
	Response    string             `json:"response,omitempty"`
	Assertions  []assertion.Result `json:"assertions,omitempty"`
}

// RunResult is the aggregated summary of one run, assembled purely from the
// recorded StepResults.
type RunResult struct {
	Name       string        `json:"name"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Duration   time.Duration `json:"duration"`
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Steps      []StepResult  `json:"steps"`
}
