package agent

import (
	"strings"
)

// Fixed replies for the fallback path
const (
	fallbackHelpMessage = "I'm running in fallback mode. Try one of:\n" +
		"- \"Show all tasks\"\n" +
		"- \"Create task: <title>\"\n" +
		"- \"Show stats\""

	fallbackTitlePrompt = "What should the task be called? " +
		"Try: \"Create task: Buy groceries\""
)

// createPhrases are stripped from the utterance to recover the task title
var createPhrases = []string{"create task", "add task", "new task"}

// MatchFallback routes an utterance with deterministic, schema-independent
// keyword rules. First match wins; matching is case-insensitive substring
// testing. It always returns a well-formed intent.
func MatchFallback(utterance string) Intent {
	lower := strings.ToLower(utterance)
	mentionsTask := strings.Contains(lower, "task")

	switch {
	case containsAny(lower, "list", "show", "display", "all") && mentionsTask:
		return Intent{Kind: KindToolCall, Tool: "list_tasks", Parameters: map[string]any{}}

	case containsAny(lower, "create", "add", "new") && mentionsTask:
		title := stripCreatePhrases(utterance)
		if title == "" {
			return chatIntent(fallbackTitlePrompt)
		}
		return Intent{
			Kind: KindToolCall,
			Tool: "create_task",
			Parameters: map[string]any{
				"title":    title,
				"priority": "medium",
			},
		}

	case containsAny(lower, "stats", "statistics", "summary"):
		return Intent{Kind: KindToolCall, Tool: "get_task_stats", Parameters: map[string]any{}}

	default:
		return chatIntent(fallbackHelpMessage)
	}
}

// containsAny reports whether any needle occurs in the lowercased utterance
func containsAny(lower string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// stripCreatePhrases removes the trigger phrases from the utterance and
// trims the separators around what remains, leaving the task title.
func stripCreatePhrases(utterance string) string {
	remainder := utterance
	for _, phrase := range createPhrases {
		remainder = removeFold(remainder, phrase)
	}
	remainder = strings.TrimSpace(remainder)
	remainder = strings.TrimLeft(remainder, ":-")
	return strings.TrimSpace(remainder)
}

// removeFold deletes the first case-insensitive occurrence of phrase from s
func removeFold(s, phrase string) string {
	idx := strings.Index(strings.ToLower(s), phrase)
	if idx == -1 {
		return s
	}
	return s[:idx] + s[idx+len(phrase):]
}
