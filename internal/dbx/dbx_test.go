package dbx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/loykin/apicheck/internal/env"
)

func TestParseConnectionString(t *testing.T) {
	cases := []struct {
		in         string
		driver     string
		dsn        string
		shouldFail bool
	}{
		{"sqlite://./test.db", "sqlite", "./test.db", false},
		{"sqlite:file.db", "sqlite", "file.db", false},
		{"postgres://u:p@localhost:5432/db", "pgx", "postgres://u:p@localhost:5432/db", false},
		{"postgresql://u:p@localhost/db", "pgx", "postgresql://u:p@localhost/db", false},
		{"", "", "", true},
		{"mysql://u:p@localhost/db", "", "", true},
	}
	for _, c := range cases {
		driver, dsn, err := ParseConnectionString(c.in)
		if c.shouldFail {
			if err == nil {
				t.Fatalf("ParseConnectionString(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseConnectionString(%q): %v", c.in, err)
		}
		if driver != c.driver || dsn != c.dsn {
			t.Fatalf("ParseConnectionString(%q) = (%q, %q), want (%q, %q)", c.in, driver, dsn, c.driver, c.dsn)
		}
	}
}

func sqliteConnStr(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "apicheck_test.db")
}

func TestExecute_QueryWithSubstitutedParameters(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, sqliteConnStr(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, email TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO users(id, name, email) VALUES (1, 'alice', 'a@x'), (2, 'bob', 'b@x')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	store := env.NewFrom(map[string]string{"userId": "2"})
	spec := &Spec{
		Query:      `SELECT name, email FROM users WHERE id = @id`,
		Parameters: map[string]interface{}{"id": "${userId}"},
	}
	res, err := spec.Execute(ctx, db, store)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.Columns) != 2 || res.Columns[0] != "name" {
		t.Fatalf("unexpected columns: %v", res.Columns)
	}
	if len(res.Rows) != 1 || res.Rows[0]["name"] != "bob" {
		t.Fatalf("unexpected rows: %#v", res.Rows)
	}
}

func TestExecute_EmptyParameterBindsNull(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, sqliteConnStr(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	// ${missingVar} is unknown -> stays verbatim; an empty value after
	// substitution must be bound as NULL, not as an empty string.
	insert := &Spec{
		Query:      `INSERT INTO notes(id, body) VALUES (1, @body)`,
		Parameters: map[string]interface{}{"body": ""},
	}
	if _, err := insert.Execute(ctx, db, env.New()); err != nil {
		t.Fatalf("insert: %v", err)
	}

	check := &Spec{Query: `SELECT COUNT(*) AS n FROM notes WHERE body IS NULL`}
	res, err := check.Execute(ctx, db, env.New())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected one row, got %#v", res.Rows)
	}
	if got := res.Rows[0]["n"]; got != int64(1) && got != "1" {
		t.Fatalf("expected NULL binding, count = %#v", got)
	}
}

func TestExecute_QueryTextIsNeverSubstituted(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, sqliteConnStr(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, "CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO t(v) VALUES ('${x}')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// The placeholder inside the query literal must reach the database as-is
	// even when the store could resolve it.
	store := env.NewFrom(map[string]string{"x": "resolved"})
	spec := &Spec{Query: "SELECT v FROM t WHERE v = '${x}'"}
	res, err := spec.Execute(ctx, db, store)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0]["v"] != "${x}" {
		t.Fatalf("query text must pass through unmodified, got %#v", res.Rows)
	}
}

func TestExecute_DriverFaultSurfacesAsError(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, sqliteConnStr(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	spec := &Spec{Query: `SELECT * FROM no_such_table`}
	if _, err := spec.Execute(ctx, db, env.New()); err == nil {
		t.Fatalf("expected driver error for missing table")
	}
}
