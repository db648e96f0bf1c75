// Package transform turns raw query text into a retrieval-optimized form:
// a hypothetical matching listing (for embedding), a synonym-expanded query
// (for keyword search), and structured filter specs.
package transform

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propseek/propseek/internal/llm"
	"github.com/propseek/propseek/internal/models"
	"github.com/propseek/propseek/pkg/utils"
)

const hypothesisPrompt = "You write one short, realistic property listing that would perfectly " +
	"match the user's search. Respond with the listing text only, no preamble."

const (
	defaultHypothesisCap = 300
	defaultTimeout       = 10 * time.Second

	// degradedScore is the fixed confidence assigned when the pipeline
	// panics and falls back to the raw query.
	degradedScore = 0.3
)

// Transformer converts raw queries into TransformedQuery values.
// Stateless per request; safe for concurrent use.
type Transformer struct {
	generator     llm.Generator
	timeout       time.Duration
	hypothesisCap int
	logger        *zap.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithTimeout bounds the language-model call.
func WithTimeout(d time.Duration) Option {
	return func(t *Transformer) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithHypothesisCap overrides the rewritten-text length cap.
func WithHypothesisCap(n int) Option {
	return func(t *Transformer) {
		if n > 0 {
			t.hypothesisCap = n
		}
	}
}

// WithLogger sets a logger for degradation events.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// NewTransformer creates a transformer around the given generator.
func NewTransformer(generator llm.Generator, opts ...Option) *Transformer {
	t := &Transformer{
		generator:     generator,
		timeout:       defaultTimeout,
		hypothesisCap: defaultHypothesisCap,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform runs the full pipeline. It never returns an error: LLM failures
// fall back to the raw query, and a panic anywhere degrades to a low-confidence
// passthrough instead of failing the request.
func (t *Transformer) Transform(ctx context.Context, query string) (out models.TransformedQuery) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.TransformedQuery{}
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("transform pipeline panicked, degrading", zap.Any("panic", r))
			out = t.degraded(trimmed)
		}
	}()

	rewritten := t.hypothesis(ctx, trimmed)
	expanded := Expand(trimmed)
	specs := ExtractSpecs(trimmed)

	return models.TransformedQuery{
		Original:       trimmed,
		Rewritten:      rewritten,
		Expanded:       expanded,
		Specs:          specs,
		EmbeddingReady: true,
		Score:          t.confidence(trimmed, rewritten, specs),
	}
}

// hypothesis generates a hypothetical matching listing for the query.
// Any failure falls back to the query text itself; this step never aborts
// the pipeline.
func (t *Transformer) hypothesis(ctx context.Context, query string) string {
	if t.generator == nil {
		return query
	}
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.generator.Generate(callCtx, hypothesisPrompt, query)
	if err != nil {
		t.logger.Warn("hypothesis generation failed, using original query", zap.Error(err))
		return query
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return query
	}
	return utils.Truncate(text, t.hypothesisCap)
}

// confidence scores transformation quality in [0,1]: base 0.5, bonuses for
// each detected filter and for mid-length queries, a penalty when the
// rewritten text shares almost no tokens with the original (hallucination
// signal).
func (t *Transformer) confidence(original, rewritten string, specs models.ListingSpecs) float64 {
	score := 0.5
	if specs.BudgetMax != nil {
		score += 0.15
	}
	if specs.Location != "" {
		score += 0.15
	}
	if specs.Type != "" {
		score += 0.10
	}
	if specs.Bedrooms != nil {
		score += 0.05
	}

	words := len(strings.Fields(original))
	if words >= 10 && words <= 50 {
		score += 0.10
	}

	overlap := utils.TokenOverlap(utils.Tokenize(original), utils.Tokenize(rewritten))
	if overlap < 0.2 {
		score -= 0.15
	}

	return utils.Clamp01(score)
}

// degraded builds the fallback result for an unexpected pipeline failure:
// the raw query passes through both text fields, specs are still extracted.
func (t *Transformer) degraded(query string) models.TransformedQuery {
	return models.TransformedQuery{
		Original:       query,
		Rewritten:      query,
		Expanded:       query,
		Specs:          ExtractSpecs(query),
		EmbeddingReady: true,
		Score:          degradedScore,
	}
}
