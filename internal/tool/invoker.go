package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskman/internal/logger"
)

// Caller dispatches a single tool invocation to the task server
type Caller interface {
	CallTool(ctx context.Context, name string, params map[string]any) (map[string]any, error)
}

// CallResult is the normalized outcome of one tool invocation
type CallResult struct {
	OK        bool
	Message   string
	ErrorText string
	// Data retains the full raw server reply for downstream rendering
	Data map[string]any
}

// ValidationError rejects a tool call before any network traffic
type ValidationError struct {
	Tool string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unknown tool %q: not offered by the connected server", e.Tool)
}

// Invoker validates proposed tool calls against the active schema and
// dispatches them to the task server.
type Invoker struct {
	backend Caller
	log     *logger.Logger
}

// NewInvoker creates an invoker backed by the given caller
func NewInvoker(backend Caller, log *logger.Logger) *Invoker {
	return &Invoker{backend: backend, log: log}
}

// Validate checks the tool name against the active schema. Dynamic schemas
// enforce membership; static schemas trust the built-in tool set and let any
// name through.
func Validate(name string, schema *Schema) error {
	if schema.Source != SourceDynamic {
		return nil
	}
	if _, ok := schema.Lookup(name); !ok {
		return &ValidationError{Tool: name}
	}
	return nil
}

// Invoke validates and dispatches one tool call, normalizing the server's
// reply into a CallResult. Validation failures short-circuit before any
// network call.
func (iv *Invoker) Invoke(ctx context.Context, name string, params map[string]any, schema *Schema) *CallResult {
	if err := Validate(name, schema); err != nil {
		return &CallResult{OK: false, ErrorText: err.Error()}
	}

	if iv.log != nil {
		encoded, _ := json.Marshal(params)
		iv.log.ToolCall(name, string(encoded))
	}

	start := time.Now()
	reply, err := iv.backend.CallTool(ctx, name, params)
	if err != nil {
		if iv.log != nil {
			iv.log.ToolResult(name, false, err.Error(), time.Since(start))
		}
		return &CallResult{OK: false, ErrorText: err.Error()}
	}

	result := normalize(reply)
	if iv.log != nil {
		output := result.Message
		if !result.OK {
			output = result.ErrorText
		}
		iv.log.ToolResult(name, result.OK, output, time.Since(start))
	}
	return result
}

// normalize maps a raw server reply onto the uniform result shape
func normalize(reply map[string]any) *CallResult {
	result := &CallResult{Data: reply}

	if errVal, ok := reply["error"]; ok {
		result.ErrorText = fmt.Sprint(errVal)
		return result
	}

	result.OK = true
	if msg, ok := reply["message"].(string); ok {
		result.Message = msg
		if task, ok := reply["task"].(map[string]any); ok {
			result.Message += formatTaskDetails(task)
		}
		return result
	}

	result.Message = "Operation completed successfully"
	return result
}

// formatTaskDetails renders the detail block appended after create/update
// replies that carry the affected task.
func formatTaskDetails(task map[string]any) string {
	return fmt.Sprintf("\n\n📋 Task details:\n- Title: %v\n- Priority: %v\n- Completed: %v",
		task["title"], task["priority"], task["completed"])
}
