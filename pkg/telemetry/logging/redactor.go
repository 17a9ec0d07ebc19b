package logging

import (
	"regexp"
	"strings"

	"mercator-hq/saturn/pkg/config"
)

// Built-in redaction pattern names.
const (
	PatternMRN         = "mrn"
	PatternSSN         = "ssn"
	PatternEmail       = "email"
	PatternPhone       = "phone"
	PatternBirthDate   = "birth_date"
	PatternBearerToken = "bearer_token"
)

// Redactor masks protected health information in log values.
// Patterns are applied in registration order.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

var builtinPatterns = []struct {
	name, regex, replacement string
}{
	{PatternMRN, `(?i)\b(MRN|medical[ _]record[ _]number)(\s*[:#=]?\s*)[A-Z0-9-]{4,}`, "$1$2[REDACTED]"},
	{PatternSSN, `\b\d{3}-\d{2}-\d{4}\b`, "***-**-****"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "[EMAIL]"},
	{PatternPhone, `\b(?:\+?1[-.\s])?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`, "***-***-****"},
	{PatternBirthDate, `(?i)\b(dob|birth[ _]?date)(\s*[:=]?\s*)@?\d{4}-\d{2}-\d{2}`, "$1$2[REDACTED]"},
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// extra. Extra patterns that fail to compile are skipped and reported in
// the returned slice of names.
func NewRedactor(extra []config.RedactPattern) (*Redactor, []string) {
	r := &Redactor{}
	for _, p := range builtinPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	var skipped []string
	for _, p := range extra {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			skipped = append(skipped, p.Name)
			continue
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}
	return r, skipped
}

// Patterns returns the pattern names in application order.
func (r *Redactor) Patterns() []string {
	names := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		names[i] = p.name
	}
	return names
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// sensitiveKeys are attribute names whose values are dropped entirely.
var sensitiveKeys = []string{
	"patient", "mrn", "ssn", "birth", "dob",
	"token", "secret", "password", "authorization",
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
