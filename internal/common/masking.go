package common

import (
	"log/slog"
	"regexp"
	"strings"
)

const maskedValue = "***MASKED***"

// sensitiveKeys are attribute keys whose values are always masked,
// case-insensitively.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "access_token", "auth_token", "bearertoken",
	"authorization", "api_key", "apikey",
	"secret", "client_secret",
}

// credentialPatterns match credential material embedded inside free-form
// string values, such as Authorization header dumps.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
	regexp.MustCompile(`(?i)Basic\s+[A-Za-z0-9+/]+=*`),
}

// Masker hides credential values in log output. A nil Masker is a no-op.
type Masker struct{}

// NewMasker returns a Masker with the default sensitive-key set.
func NewMasker() *Masker { return &Masker{} }

// MaskAttr masks a slog attribute when its key is sensitive or its string
// value embeds credential material.
func (m *Masker) MaskAttr(a slog.Attr) slog.Attr {
	if m == nil {
		return a
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, maskedValue)
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, m.MaskString(a.Value.String()))
	}
	return a
}

// MaskString replaces embedded credential material in s.
func (m *Masker) MaskString(s string) string {
	if m == nil {
		return s
	}
	for _, re := range credentialPatterns {
		s = re.ReplaceAllString(s, maskedValue)
	}
	return s
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if k == s {
			return true
		}
	}
	return false
}
