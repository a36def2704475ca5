package summarizer

import (
	"context"
	"strings"
)

// Input describes a single direct-mode summary request.
type Input struct {
	// Model is the language model identifier.
	Model string
	// Instructions is the variant prompt sent as the system message.
	Instructions string
	// Text is the joined content sent as the user message.
	Text string
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

// NormalizeOutput picks the first non-empty output and folds it onto one line.
func NormalizeOutput(outputs []string) string {
	for _, out := range outputs {
		if line := strings.Join(strings.Fields(out), " "); line != "" {
			return line
		}
	}
	return ""
}
