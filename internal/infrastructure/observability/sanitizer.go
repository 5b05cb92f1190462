package observability

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// PIILevel defines how much customer data reaches traces and logs.
type PIILevel string

const (
	// PIILevelNone redacts all customer content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed hashes PII with the tenant as salt
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull performs no sanitization
	PIILevelFull PIILevel = "full"
)

// piiPattern matches, in order of preference, an email, a card number, a Colombian mobile
// number and an identity document number (cédula, NIT, passport digits).
var piiPattern = regexp.MustCompile(
	`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})` +
		`|(\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b)` +
		`|((?:\+?57[\s-]?)?\b3\d{2}[\s-]?\d{3}[\s-]?\d{4}\b)` +
		`|(\b\d{6,12}(?:-\d)?\b)`,
)

var piiLabels = []string{"EMAIL", "CC", "PHONE", "DOC"}

// Sanitizer removes customer contact and identity data from free text.
type Sanitizer struct {
	level      PIILevel
	tenantSalt string
}

// NewSanitizer creates a sanitizer salted with the tenant id. An unknown level hashes.
func NewSanitizer(level PIILevel, tenantID string) *Sanitizer {
	if level != PIILevelNone && level != PIILevelFull {
		level = PIILevelHashed
	}
	return &Sanitizer{level: level, tenantSalt: tenantID}
}

// Sanitize applies the configured level to input.
func (s *Sanitizer) Sanitize(input string) string {
	switch s.level {
	case PIILevelNone:
		if input == "" {
			return ""
		}
		return "[REDACTED]"
	case PIILevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

func (s *Sanitizer) hashPII(input string) string {
	matches := piiPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(input[last:m[0]])
		label := "PII"
		for i := range piiLabels {
			if m[2+2*i] >= 0 {
				label = piiLabels[i]
				break
			}
		}
		if label == "CC" {
			b.WriteString("[CC:REDACTED]")
		} else {
			b.WriteString("[" + label + ":" + s.hash(input[m[0]:m[1]]) + "]")
		}
		last = m[1]
	}
	b.WriteString(input[last:])
	return b.String()
}

// hash returns the first 8 hex chars of the salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	h := sha256.Sum256([]byte(data + s.tenantSalt))
	return hex.EncodeToString(h[:])[:8]
}

// ArgumentRedactor sanitizes tool arguments at a fixed level, salting with each tenant.
type ArgumentRedactor struct {
	Level PIILevel
}

// SanitizeArguments applies the redactor's level to arguments of tenantID.
func (r ArgumentRedactor) SanitizeArguments(tenantID, arguments string) string {
	return NewSanitizer(r.Level, tenantID).Sanitize(arguments)
}
