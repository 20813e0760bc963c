package logger

import (
	"log/slog"
	"regexp"
	"strings"
)

// Uploaded documents are usually contracts and other legal material, so
// their content is treated exactly like a credential: never logged.
var sensitiveKeys = map[string]bool{
	"api_key":         true,
	"apikey":          true,
	"authorization":   true,
	"bearer":          true,
	"body":            true,
	"chunk":           true,
	"completion":      true,
	"document":        true,
	"password":        true,
	"prompt":          true,
	"quote":           true,
	"secret":          true,
	"simplified_text": true,
	"text":            true,
	"token":           true,
}

var sensitiveKeySubstrings = []string{
	"key",
	"token",
	"secret",
	"password",
	"authorization",
	"bearer",
	"api",
	"prompt",
	"document",
	"chunk",
	"quote",
	"completion",
	"body",
	"content",
	"text",
}

var sensitiveValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsk-[A-Za-z0-9_-]{10,}\b`),
	regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{10,}\b`),
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*\b`),
	regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|secret)\b\s*[:=]\s*\S+`),
}

// RedactAttr is a slog.ReplaceAttr function that blanks credentials and
// document content before any handler sees them. Only string values are
// considered; counts, indexes and durations pass through untouched.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if shouldRedact(a) {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}

func shouldRedact(a slog.Attr) bool {
	if a.Value.Kind() != slog.KindString {
		return false
	}
	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] {
		return true
	}
	for _, sub := range sensitiveKeySubstrings {
		if strings.Contains(key, sub) {
			return true
		}
	}

	value := a.Value.String()
	if value == "" {
		return false
	}
	for _, re := range sensitiveValuePatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
