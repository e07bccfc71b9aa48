// Package genai provides the natural-language diagram generation
// collaborator.
//
// The core engine only depends on the Generator interface: a function from
// prompt text to a raw, unpositioned graph. The production implementation
// is an Anthropic Messages API client; tests substitute fakes.
//
// Failures map onto the application error codes: missing credentials,
// transport failures, and responses that are not the expected JSON shape
// (in particular, a response without a "nodes" array). No failure is
// retried automatically; each one is surfaced as a single user-visible
// message and the prior document state is left untouched by the caller.
package genai

import (
	"context"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
)

// Generator produces a raw unpositioned graph from free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (diagram.RawGraph, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (diagram.RawGraph, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (diagram.RawGraph, error) {
	return f(ctx, prompt)
}
