package llm

import (
	"context"
	"fmt"
)

// MockGenerator is a deterministic Generator for tests and offline runs.
// When Err is set, every call fails with it. When Response is empty, the
// user prompt is echoed back inside a canned listing template.
type MockGenerator struct {
	Response string
	Err      error
	Calls    int
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return fmt.Sprintf("Listing matching %s, well located and ready to move in.", userPrompt), nil
}
