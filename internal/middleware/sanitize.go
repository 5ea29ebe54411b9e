package middleware

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-supplied text before it is stored or
// echoed back. Chat messages and free-text fields pass through here.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a strict text-only sanitizer
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean strips all markup from the input
func (s *Sanitizer) Clean(input string) string {
	return s.policy.Sanitize(input)
}

// CleanAll sanitizes a slice of strings in place
func (s *Sanitizer) CleanAll(inputs []string) []string {
	for i, input := range inputs {
		inputs[i] = s.policy.Sanitize(input)
	}
	return inputs
}
