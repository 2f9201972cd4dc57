package llm

import "context"

// DefaultMaxTokens bounds the response length when a caller does not ask for
// a specific limit.
const DefaultMaxTokens = 500

// Client abstracts the expert-query service. Ask submits a single-turn
// instruction plus context and returns the service's whitespace-trimmed
// answer. Implementations must use deterministic sampling so identical input
// yields stable output for a given model version.
type Client interface {
	Ask(ctx context.Context, instruction, contextText string, maxTokens int) (string, error)
}
