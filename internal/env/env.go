package env

import "strings"

// Store holds the run-scoped variables threaded across steps. It is owned by
// a single run and is never shared between runs; steps mutate it only through
// token extraction and read it only through substitution, so no locking is
// needed under the strictly sequential execution model.
type Store struct {
	vars map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{vars: map[string]string{}}
}

// NewFrom returns a Store seeded with the given values.
func NewFrom(seed map[string]string) *Store {
	s := New()
	for k, v := range seed {
		s.vars[k] = v
	}
	return s
}

// Set writes a variable. Last write wins; the value is visible to every
// subsequent substitution in the same run.
func (s *Store) Set(name, value string) {
	if s.vars == nil {
		s.vars = map[string]string{}
	}
	s.vars[name] = value
}

// Lookup returns the value for name and whether it is present.
func (s *Store) Lookup(name string) (string, bool) {
	if s == nil || s.vars == nil {
		return "", false
	}
	v, ok := s.vars[name]
	return v, ok
}

// Has reports whether name is present in the store.
func (s *Store) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Snapshot returns a copy of the current variables, mainly for logging.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// Substitute rewrites every ${name} occurrence in text with the stored value.
// Unknown names are left verbatim so optional variables are tolerated. The
// scan is a single left-to-right pass and substituted values are not
// re-scanned for further placeholders.
func (s *Store) Substitute(text string) string {
	if text == "" || !strings.Contains(text, "${") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		start := strings.Index(text, "${")
		if start < 0 {
			b.WriteString(text)
			break
		}
		end := strings.Index(text[start:], "}")
		if end < 0 {
			b.WriteString(text)
			break
		}
		end += start
		name := text[start+2 : end]
		b.WriteString(text[:start])
		if v, ok := s.Lookup(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(text[start : end+1])
		}
		text = text[end+1:]
	}
	return b.String()
}

// SubstituteValue walks a decoded document depth-first and applies Substitute
// to every string scalar. Maps and sequences are rebuilt; numbers, booleans
// and nulls pass through untouched.
func (s *Store) SubstituteValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return s.Substitute(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = s.SubstituteValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = s.SubstituteValue(item)
		}
		return out
	default:
		return v
	}
}

// SubstituteMap applies Substitute to every value of a string map, returning
// a new map. Used for headers and query parameters.
func (s *Store) SubstituteMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = s.Substitute(v)
	}
	return out
}
