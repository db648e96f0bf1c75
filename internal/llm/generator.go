// Package llm provides the language-model call interface used for query
// rewriting, plus an OpenAI-compatible implementation and a test mock.
package llm

import "context"

// Generator issues one completion call: a fixed system instruction plus the
// user prompt, returning the response text. Implementations must respect
// ctx cancellation and deadlines.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
