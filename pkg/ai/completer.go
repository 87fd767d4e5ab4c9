package ai

import "context"

// Message is one role-tagged turn sent to a completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of a single completion call. Provider metadata is
// exposed for callers but not persisted anywhere today.
type Result struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	FinishReason     string
}

// ChatCompleter submits an ordered list of role-tagged messages and returns
// the generated text. Implementations perform exactly one generation per
// call: no retries, so a single user action never double-generates.
type ChatCompleter interface {
	Complete(ctx context.Context, model string, messages []Message) (Result, error)
}
