package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/loykin/apicheck/internal/assertion"
	"github.com/loykin/apicheck/internal/env"
)

// Spec describes the database action of a step, matching the databaseAction
// block of the configuration document. Queries reference parameters by name
// (e.g. @userId); the query text itself is never substituted, only the
// parameter values are.
type Spec struct {
	Query      string                 `yaml:"query" mapstructure:"query"`
	Parameters map[string]interface{} `yaml:"parameters" mapstructure:"parameters"`
	Assertions []assertion.Spec       `yaml:"assertions" mapstructure:"assertions"`
}

// Result is the tabular outcome of one query: column names in result order
// and rows as column-keyed maps.
type Result struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Execute binds substituted parameters and runs the query. String parameter
// values go through variable substitution; values that are empty after
// substitution are bound as SQL NULL rather than an empty string. Driver
// faults are returned for the step runner to record.
func (s *Spec) Execute(ctx context.Context, db *sql.DB, store *env.Store) (*Result, error) {
	args := bindParameters(s.Parameters, store)

	rows, err := db.QueryContext(ctx, s.Query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	result := &Result{Columns: columns, Rows: make([]map[string]interface{}, 0)}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// bindParameters renders parameter values through the store and returns
// sql.Named arguments in deterministic name order.
func bindParameters(params map[string]interface{}, store *env.Store) []interface{} {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		value := params[name]
		if s, ok := value.(string); ok {
			rendered := store.Substitute(s)
			if strings.TrimSpace(rendered) == "" {
				args = append(args, sql.Named(name, nil))
				continue
			}
			args = append(args, sql.Named(name, rendered))
			continue
		}
		if value == nil {
			args = append(args, sql.Named(name, nil))
			continue
		}
		args = append(args, sql.Named(name, value))
	}
	return args
}
