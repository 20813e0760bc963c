// Package normalize turns raw model completions into structured results.
// Model output format compliance is empirical, not guaranteed: the layers
// here (reasoning strip, fence strip, object extraction, schema coercion,
// plain-text fallback) each recover one common deviation, so a partially
// conforming reply still yields a structured result and a hopeless one
// degrades to plain text instead of failing the request.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Severity ranks a red flag.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RedFlag is one structured risk annotation: a quoted clause, what is
// risky about it, and the plausible worst case.
type RedFlag struct {
	Quote     string   `json:"quote"`
	Risk      string   `json:"risk"`
	Severity  Severity `json:"severity"`
	WorstCase string   `json:"worst_case"`
}

// Result is the outcome of normalizing one completion.
type Result struct {
	SimplifiedText string
	RedFlags       []RedFlag
}

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Normalize converts a raw completion into a Result. It never fails:
// when no usable JSON object can be recovered, the cleaned raw text
// becomes the simplified text and the flag list stays empty.
func Normalize(raw string) Result {
	cleaned := StripReasoning(raw)
	if result, ok := parseStructured(cleaned); ok {
		return result
	}
	return Result{SimplifiedText: cleaned}
}

// StripReasoning removes inline chain-of-thought blocks
// (<think>...</think>, non-greedy, every occurrence) and trims the
// remainder. Local reasoning models emit these before the answer.
func StripReasoning(s string) string {
	return strings.TrimSpace(reasoningBlock.ReplaceAllString(s, ""))
}

// stripFences drops a leading markdown fence (optionally tagged json)
// and any stray fence markers left in the body. Models wrap JSON in
// fences no matter how firmly the prompt forbids it.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	return strings.ReplaceAll(s, "```", "")
}

// parseStructured attempts the strict path: locate the outermost brace
// span, parse it, and coerce the payload to the expected schema. The
// bool reports whether a usable simplified_text was recovered.
func parseStructured(cleaned string) (Result, bool) {
	text := stripFences(cleaned)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Result{}, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return Result{}, false
	}

	simplified, _ := payload["simplified_text"].(string)
	simplified = strings.TrimSpace(simplified)
	if simplified == "" {
		return Result{}, false
	}

	result := Result{SimplifiedText: simplified}
	if entries, ok := payload["red_flags"].([]any); ok {
		for _, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if flag, ok := coerceFlag(fields); ok {
				result.RedFlags = append(result.RedFlags, flag)
			}
		}
	}
	return result, true
}

// coerceFlag validates one red-flag entry. A flag without a usable quote
// is dropped; everything else is defaulted rather than rejected.
func coerceFlag(fields map[string]any) (RedFlag, bool) {
	quote := stringField(fields, "quote", "text")
	if quote == "" {
		return RedFlag{}, false
	}
	return RedFlag{
		Quote:     quote,
		Risk:      stringField(fields, "risk"),
		Severity:  coerceSeverity(stringField(fields, "severity", "risk_level")),
		WorstCase: stringField(fields, "worst_case"),
	}, true
}

// stringField returns the first present, string-typed, non-blank value
// among keys, trimmed. Later keys are legacy spellings.
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func coerceSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityLow
	}
}
