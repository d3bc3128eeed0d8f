package agent

import (
	"strings"
	"testing"
)

func TestMatchFallback_ListTasks(t *testing.T) {
	for _, utterance := range []string{"show me all tasks", "List my tasks", "display tasks please"} {
		intent := MatchFallback(utterance)
		if intent.Kind != KindToolCall || intent.Tool != "list_tasks" {
			t.Errorf("MatchFallback(%q) = %s/%s, want tool_call/list_tasks", utterance, intent.Kind, intent.Tool)
		}
		if len(intent.Parameters) != 0 {
			t.Errorf("list_tasks should take no parameters, got %#v", intent.Parameters)
		}
	}
}

func TestMatchFallback_CreateTask(t *testing.T) {
	intent := MatchFallback("create task: Buy milk")

	if intent.Kind != KindToolCall || intent.Tool != "create_task" {
		t.Fatalf("Expected create_task dispatch, got %s/%s", intent.Kind, intent.Tool)
	}
	if intent.Parameters["title"] != "Buy milk" {
		t.Errorf("Expected title 'Buy milk', got %v", intent.Parameters["title"])
	}
	if intent.Parameters["priority"] != "medium" {
		t.Errorf("Expected default medium priority, got %v", intent.Parameters["priority"])
	}
}

func TestMatchFallback_CreateTaskPreservesTitleCase(t *testing.T) {
	intent := MatchFallback("New Task: Deploy The App")

	if intent.Tool != "create_task" {
		t.Fatalf("Expected create_task dispatch, got %s", intent.Tool)
	}
	if intent.Parameters["title"] != "Deploy The App" {
		t.Errorf("Title case should be preserved, got %v", intent.Parameters["title"])
	}
}

func TestMatchFallback_CreateTaskWithoutTitle(t *testing.T) {
	intent := MatchFallback("create task:")

	if intent.Kind != KindChat {
		t.Fatalf("Missing title should yield a chat prompt, got %s", intent.Kind)
	}
	if intent.Tool != "" {
		t.Error("Missing title must not dispatch anything")
	}
	if !strings.Contains(strings.ToLower(intent.Response), "task") {
		t.Errorf("Chat prompt should ask for a title, got: %s", intent.Response)
	}
}

func TestMatchFallback_Stats(t *testing.T) {
	for _, utterance := range []string{"give me stats", "show statistics", "summary please"} {
		intent := MatchFallback(utterance)
		if intent.Kind != KindToolCall || intent.Tool != "get_task_stats" {
			t.Errorf("MatchFallback(%q) = %s/%s, want tool_call/get_task_stats", utterance, intent.Kind, intent.Tool)
		}
	}
}

func TestMatchFallback_HelpMessage(t *testing.T) {
	intent := MatchFallback("hello there")

	if intent.Kind != KindChat {
		t.Fatalf("Unmatched utterance should yield the help chat, got %s", intent.Kind)
	}
	for _, phrasing := range []string{"Show all tasks", "Create task:", "Show stats"} {
		if !strings.Contains(intent.Response, phrasing) {
			t.Errorf("Help message should list %q, got: %s", phrasing, intent.Response)
		}
	}
}

func TestMatchFallback_FirstRuleWins(t *testing.T) {
	// "show" + "task" matches the list rule before the stats rule can see
	// "summary"
	intent := MatchFallback("show task summary")
	if intent.Tool != "list_tasks" {
		t.Errorf("First matching rule should win, got %s", intent.Tool)
	}
}
