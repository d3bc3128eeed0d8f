// Package llm defines the one-shot completion boundary and the retry policy
// that wraps calls across it.
package llm

import "context"

// Client is a single-call completion capability: one prompt in, one
// generated text out. Implementations live in provider subpackages.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}
