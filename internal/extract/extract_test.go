package extract

import (
	"errors"
	"testing"
)

func TestFromDocument_PathAndWholeDocument(t *testing.T) {
	body := []byte(`{"data":{"token":"tok-1","count":3,"price":1.5,"ok":true}}`)

	if v, ok := FromDocument(body, "$.data.token"); !ok || v != "tok-1" {
		t.Fatalf("expected token extraction, got %q (ok=%v)", v, ok)
	}
	if v, ok := FromDocument(body, "data.count"); !ok || v != "3" {
		t.Fatalf("expected integral float rendered without decimals, got %q (ok=%v)", v, ok)
	}
	if v, ok := FromDocument(body, "$.data.price"); !ok || v != "1.5" {
		t.Fatalf("expected 1.5, got %q (ok=%v)", v, ok)
	}
	if v, ok := FromDocument(body, "$.data.ok"); !ok || v != "true" {
		t.Fatalf("expected true, got %q (ok=%v)", v, ok)
	}
	if _, ok := FromDocument(body, "$.data.missing"); ok {
		t.Fatalf("expected unresolved path to be absent")
	}
	// Empty locator means the whole document stringified.
	if v, ok := FromDocument(body, ""); !ok || v != string(body) {
		t.Fatalf("expected whole document, got %q (ok=%v)", v, ok)
	}
}

func TestFromResult_RowCountIsSyntheticAndAlwaysResolves(t *testing.T) {
	rows := []map[string]interface{}{{"id": int64(1)}, {"id": int64(2)}}
	// rowCount resolves regardless of column existence, case-insensitively.
	for _, name := range []string{"rowCount", "rowcount", "ROWCOUNT"} {
		v, err := FromResult([]string{"id"}, rows, name)
		if err != nil || v != "2" {
			t.Fatalf("FromResult(%q) = %q, %v; want \"2\", nil", name, v, err)
		}
	}
	// Even on an empty result set with no columns.
	v, err := FromResult(nil, nil, "rowCount")
	if err != nil || v != "0" {
		t.Fatalf("expected rowCount=0 on empty result, got %q, %v", v, err)
	}
}

func TestFromResult_ColumnNotFoundVersusNoRows(t *testing.T) {
	rows := []map[string]interface{}{{"id": int64(1)}}

	if _, err := FromResult([]string{"id"}, rows, "nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := FromResult([]string{"id"}, nil, "id"); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestFromResult_FirstRowOnlyAndCaseInsensitiveColumn(t *testing.T) {
	rows := []map[string]interface{}{{"Email": "a@x"}, {"Email": "b@x"}}
	v, err := FromResult([]string{"Email"}, rows, "email")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "a@x" {
		t.Fatalf("expected first-row value, got %q", v)
	}
}

func TestAnyToString(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{float64(10), "10"},
		{float64(10.25), "10.25"},
		{int64(-3), "-3"},
		{true, "true"},
		{[]byte("raw"), "raw"},
		{map[string]interface{}{"a": float64(1)}, `{"a":1}`},
	}
	for _, c := range cases {
		if got := AnyToString(c.in); got != c.want {
			t.Fatalf("AnyToString(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}
