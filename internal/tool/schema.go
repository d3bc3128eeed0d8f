package tool

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ParamSpec describes one parameter of a task server tool
type ParamSpec struct {
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Descriptor describes one tool offered by the task server.
// Immutable once fetched.
type Descriptor struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Parameters  map[string]ParamSpec `json:"parameters"`
}

// Source tags where a schema came from
type Source string

const (
	SourceStatic  Source = "static"
	SourceDynamic Source = "dynamic"
)

// Schema is an ordered set of tool descriptors plus provenance.
// Tool names are unique within a schema.
type Schema struct {
	Tools     []Descriptor
	Source    Source
	FetchedAt time.Time // zero for static schemas
}

// Lookup returns the descriptor with the given name, if present
func (s *Schema) Lookup(name string) (Descriptor, bool) {
	for _, d := range s.Tools {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// StaticSchema returns the built-in tool schema. It mirrors the tools the
// task server ships with and never fails.
func StaticSchema() *Schema {
	return &Schema{
		Source: SourceStatic,
		Tools: []Descriptor{
			{
				Name:        "list_tasks",
				Description: "Get all tasks from the database",
				Parameters:  map[string]ParamSpec{},
			},
			{
				Name:        "create_task",
				Description: "Create a new task",
				Parameters: map[string]ParamSpec{
					"title":       {Type: "string", Required: true, Description: "Task title"},
					"description": {Type: "string", Description: "Task description"},
					"priority":    {Type: "string", Description: "Task priority", Enum: []string{"low", "medium", "high"}},
				},
			},
			{
				Name:        "update_task",
				Description: "Update an existing task",
				Parameters: map[string]ParamSpec{
					"id":          {Type: "string", Required: true, Description: "Task id"},
					"title":       {Type: "string", Description: "New title"},
					"description": {Type: "string", Description: "New description"},
					"completed":   {Type: "boolean", Description: "Completion flag"},
					"priority":    {Type: "string", Description: "New priority", Enum: []string{"low", "medium", "high"}},
				},
			},
			{
				Name:        "delete_task",
				Description: "Delete a task",
				Parameters: map[string]ParamSpec{
					"id": {Type: "string", Required: true, Description: "Task id"},
				},
			},
			{
				Name:        "search_tasks",
				Description: "Search tasks by keyword",
				Parameters: map[string]ParamSpec{
					"query": {Type: "string", Required: true, Description: "Search term"},
					"limit": {Type: "number", Description: "Maximum results"},
				},
			},
			{
				Name:        "get_task_stats",
				Description: "Get task statistics",
				Parameters:  map[string]ParamSpec{},
			},
		},
	}
}

// exampleUtterances maps tool names to one example utterance each, used
// when rendering the schema into prompt text.
var exampleUtterances = map[string]string{
	"list_tasks":     "Show me all tasks",
	"create_task":    "Create a high priority task to deploy the app",
	"update_task":    "Mark task 123 as completed",
	"delete_task":    "Delete task 123",
	"search_tasks":   "Find tasks about deployment",
	"get_task_stats": "Show task statistics",
}

// ExampleFor returns the example utterance for a tool. Tools without an
// entry get a generic example.
func ExampleFor(name string) string {
	if ex, ok := exampleUtterances[name]; ok {
		return ex
	}
	return fmt.Sprintf("Use the %s tool", name)
}

// PromptText renders the schema as an enumerated, human-readable tool
// listing for inclusion in the model prompt.
func PromptText(schema *Schema) string {
	var b strings.Builder
	b.WriteString("Available Task Management Tools:\n")

	for i, d := range schema.Tools {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, d.Name)
		fmt.Fprintf(&b, "   - Purpose: %s\n", d.Description)

		required, optional := splitParams(d.Parameters)
		if len(required) == 0 && len(optional) == 0 {
			b.WriteString("   - Parameters: none\n")
		}
		if len(required) > 0 {
			fmt.Fprintf(&b, "   - Required: %s\n", strings.Join(required, ", "))
		}
		if len(optional) > 0 {
			fmt.Fprintf(&b, "   - Optional: %s\n", strings.Join(optional, ", "))
		}
		fmt.Fprintf(&b, "   - Example: %q\n", ExampleFor(d.Name))
	}

	return b.String()
}

// splitParams partitions parameters into required and optional listings,
// sorted by name so prompt text is stable across runs.
func splitParams(params map[string]ParamSpec) (required, optional []string) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := params[name]
		entry := fmt.Sprintf("%s (%s)", name, spec.Type)
		if len(spec.Enum) > 0 {
			entry = fmt.Sprintf(`%s ("%s")`, name, strings.Join(spec.Enum, `"|"`))
		}
		if spec.Required {
			required = append(required, entry)
		} else {
			optional = append(optional, entry)
		}
	}
	return required, optional
}
