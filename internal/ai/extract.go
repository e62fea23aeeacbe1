package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("```json|```")
	// Greedy match of the first balanced-looking top-level object or array.
	// This is a heuristic, not a parser: unrelated braces before the payload
	// can make it mis-extract. Accepted limitation.
	spanRe = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
)

// ExtractJSON recovers a JSON payload from generated text that may wrap it in
// code fences or surrounding prose, and unmarshals it into v. A failed parse
// surfaces ErrUnparsable; no secondary repair is attempted.
func ExtractJSON(text string, v any) error {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))

	candidate := spanRe.FindString(cleaned)
	if candidate == "" {
		candidate = cleaned
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return nil
}
