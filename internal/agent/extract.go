package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject recovers exactly one JSON object from raw model output that
// may be wrapped in a fenced code block. It is a best-effort heuristic, not
// a balanced-delimiter parser: the json-tagged fence case takes the span
// from the first '{' to the last '}'.
func ExtractObject(raw string) (map[string]any, error) {
	candidate := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(candidate, "```json"):
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start != -1 && end != -1 && end >= start {
			candidate = candidate[start : end+1]
		}

	case strings.HasPrefix(candidate, "```"):
		lines := strings.Split(candidate, "\n")
		if strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		candidate = strings.Join(lines, "\n")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// modelReply is the JSON contract the prompt instructs the model to follow
type modelReply struct {
	Action      string         `json:"action"`
	Response    string         `json:"response"`
	Tool        string         `json:"tool"`
	Parameters  map[string]any `json:"parameters"`
	Explanation string         `json:"explanation"`
}

// ParseIntent turns raw model output into an Intent. Parse failures become
// error intents; this function never fails.
func ParseIntent(raw string) Intent {
	obj, err := ExtractObject(raw)
	if err != nil {
		return errorIntent(fmt.Sprintf("Failed to parse model response: %v", err))
	}

	// Round-trip through the extracted object so the action mapping shares
	// one decode path.
	encoded, err := json.Marshal(obj)
	if err != nil {
		return errorIntent(fmt.Sprintf("Failed to parse model response: %v", err))
	}
	var reply modelReply
	if err := json.Unmarshal(encoded, &reply); err != nil {
		return errorIntent(fmt.Sprintf("Failed to parse model response: %v", err))
	}

	switch reply.Action {
	case "chat":
		return chatIntent(reply.Response)
	case "error":
		return errorIntent(reply.Response)
	case "tool_call":
		return Intent{
			Kind:        KindToolCall,
			Tool:        reply.Tool,
			Parameters:  reply.Parameters,
			Explanation: reply.Explanation,
		}
	default:
		return errorIntent(fmt.Sprintf("Model returned unrecognized action %q", reply.Action))
	}
}
