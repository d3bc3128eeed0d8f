package tool

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"taskman/internal/logger"
)

// fakeCaller records invocations and serves a canned reply
type fakeCaller struct {
	reply map[string]any
	err   error
	calls int
	last  string
}

func (f *fakeCaller) CallTool(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	f.calls++
	f.last = name
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func newTestInvoker(backend Caller) *Invoker {
	return NewInvoker(backend, logger.NewLogger(io.Discard, logger.LevelError))
}

func dynamicSchema(names ...string) *Schema {
	tools := make([]Descriptor, len(names))
	for i, name := range names {
		tools[i] = Descriptor{Name: name}
	}
	return &Schema{Tools: tools, Source: SourceDynamic}
}

func TestInvoke_DynamicSchemaRejectsUnknownTool(t *testing.T) {
	backend := &fakeCaller{}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "delete_task", map[string]any{"id": "123"}, dynamicSchema("list_tasks"))

	if result.OK {
		t.Error("Unknown tool should fail validation")
	}
	if !strings.Contains(result.ErrorText, "delete_task") {
		t.Errorf("Error text should name the rejected tool, got: %s", result.ErrorText)
	}
	if backend.calls != 0 {
		t.Errorf("Validation failure must not reach the backend, got %d calls", backend.calls)
	}
}

func TestInvoke_StaticSchemaForwardsAnyName(t *testing.T) {
	backend := &fakeCaller{reply: map[string]any{"message": "done"}}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "some_future_tool", nil, StaticSchema())

	if !result.OK {
		t.Errorf("Static schema should trust any tool name, got: %s", result.ErrorText)
	}
	if backend.calls != 1 || backend.last != "some_future_tool" {
		t.Errorf("Expected one backend call for some_future_tool, got %d (%s)", backend.calls, backend.last)
	}
}

func TestInvoke_NormalizesBackendError(t *testing.T) {
	backend := &fakeCaller{reply: map[string]any{"error": "task not found"}}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "delete_task", map[string]any{"id": "nope"}, StaticSchema())

	if result.OK {
		t.Error("Reply with an error key should fail")
	}
	if result.ErrorText != "task not found" {
		t.Errorf("Expected backend error text, got: %s", result.ErrorText)
	}
	if result.Data["error"] != "task not found" {
		t.Error("Raw reply should be retained in Data")
	}
}

func TestInvoke_NormalizesMessageWithTaskDetails(t *testing.T) {
	backend := &fakeCaller{reply: map[string]any{
		"message": "Task created",
		"task": map[string]any{
			"title":     "Buy milk",
			"priority":  "medium",
			"completed": false,
		},
	}}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "create_task", map[string]any{"title": "Buy milk"}, StaticSchema())

	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.ErrorText)
	}
	if !strings.HasPrefix(result.Message, "Task created") {
		t.Errorf("Message should start with the backend message, got: %s", result.Message)
	}
	for _, want := range []string{"Title: Buy milk", "Priority: medium", "Completed: false"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("Task detail block missing %q in: %s", want, result.Message)
		}
	}
}

func TestInvoke_NormalizesBareReply(t *testing.T) {
	backend := &fakeCaller{reply: map[string]any{"tasks": []any{}}}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "list_tasks", nil, StaticSchema())

	if !result.OK {
		t.Fatalf("Expected success, got: %s", result.ErrorText)
	}
	if result.Message != "Operation completed successfully" {
		t.Errorf("Expected generic message, got: %s", result.Message)
	}
	if _, ok := result.Data["tasks"]; !ok {
		t.Error("Raw reply should be retained in Data")
	}
}

func TestInvoke_TransportErrorBecomesFailedResult(t *testing.T) {
	backend := &fakeCaller{err: fmt.Errorf("cannot connect to task server at http://localhost:3002: connection refused")}
	iv := newTestInvoker(backend)

	result := iv.Invoke(context.Background(), "list_tasks", nil, StaticSchema())

	if result.OK {
		t.Error("Transport failure should produce a failed result")
	}
	if !strings.Contains(result.ErrorText, "cannot connect") {
		t.Errorf("Error text should surface the transport failure, got: %s", result.ErrorText)
	}
}
