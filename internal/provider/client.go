// Package provider implements the two hosted analysis backends behind one
// capability interface, plus the resolver that picks between them.
//
// The set of backends is fixed at two: the configured primary and the single
// alternate it falls back to. This is a closed enumeration, not a plugin
// system.
package provider

import "context"

// Kind identifies an analysis backend.
type Kind string

const (
	KindClaude Kind = "claude"
	KindOpenAI Kind = "openai"
)

// Other returns the single alternate backend.
func (k Kind) Other() Kind {
	if k == KindClaude {
		return KindOpenAI
	}
	return KindClaude
}

// Title returns the display name of the backend.
func (k Kind) Title() string {
	switch k {
	case KindClaude:
		return "Claude"
	case KindOpenAI:
		return "OpenAI"
	default:
		return string(k)
	}
}

// AnalysisClient is the capability contract implemented by both backends:
// turn a trace and a question into a natural-language answer. Responses are
// not deterministic; identical calls may return different text.
type AnalysisClient interface {
	AnalyzeTrace(ctx context.Context, traceText, question string) (string, error)
	Kind() Kind
	GetModel() string
}

// Request limits shared by both backends.
const (
	maxAnswerTokens = 4096
	temperature     = 0.1
)
