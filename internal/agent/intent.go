// Package agent routes free-text utterances to task server tool calls,
// via the language model when available and a keyword matcher when not.
package agent

import (
	"taskman/internal/tool"
)

// Kind discriminates the router's decision for one utterance
type Kind string

const (
	KindChat     Kind = "chat"
	KindToolCall Kind = "tool_call"
	KindError    Kind = "error"
)

// Route tags which path produced an intent
type Route string

const (
	RouteDynamic  Route = "dynamic"
	RouteStatic   Route = "static"
	RouteFallback Route = "fallback"
)

// Intent is the structured decision for one utterance: converse, invoke a
// tool, or report an error. Exactly one kind is active; tool fields are
// meaningful only for KindToolCall.
type Intent struct {
	Kind     Kind
	Response string // chat reply or error text

	Tool        string
	Parameters  map[string]any
	Explanation string

	// Route records which path produced this intent, for observability
	Route Route
	// Result holds the normalized outcome when a tool was dispatched
	Result *tool.CallResult
}

// chatIntent builds a conversational intent
func chatIntent(response string) Intent {
	return Intent{Kind: KindChat, Response: response}
}

// errorIntent builds an error intent
func errorIntent(response string) Intent {
	return Intent{Kind: KindError, Response: response}
}
