// Package cli renders backend results for terminal display.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskman/internal/mcp"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)

	priorityStyles = map[string]lipgloss.Style{
		"HIGH":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		"MEDIUM": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		"LOW":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	}
)

// RenderTasks formats a task list as a table
func RenderTasks(tasks []map[string]any, title string) string {
	if len(tasks) == 0 {
		return "📭 No tasks found"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STATUS", "PRIORITY", "TITLE", "DESCRIPTION", "ID")

	for _, task := range tasks {
		status := "⏳ Pending"
		if completed, _ := task["completed"].(bool); completed {
			status = "✅ Done"
		}

		priority := strings.ToUpper(stringField(task, "priority", "medium"))
		if style, ok := priorityStyles[priority]; ok {
			priority = style.Render(priority)
		}

		t.Row(
			status,
			priority,
			stringField(task, "title", "No title"),
			truncate(stringField(task, "description", ""), 50),
			truncate(stringField(task, "id", "Unknown"), 12),
		)
	}

	return headerStyle.Render(title) + "\n" + t.Render()
}

// RenderStats formats the statistics reply as a dashboard panel
func RenderStats(stats map[string]any) string {
	lines := []string{
		headerStyle.Render("📊 Task Statistics"),
		fmt.Sprintf("├── Total Tasks: %v", numField(stats, "total")),
		fmt.Sprintf("├── Completed: %v", numField(stats, "completed")),
		fmt.Sprintf("├── Pending: %v", numField(stats, "pending")),
		fmt.Sprintf("├── High Priority: %v", numField(stats, "highPriority")),
		fmt.Sprintf("├── Medium Priority: %v", numField(stats, "mediumPriority")),
		fmt.Sprintf("└── Low Priority: %v", numField(stats, "lowPriority")),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// RenderHealth formats the health endpoint reply
func RenderHealth(info *mcp.HealthInfo) string {
	lines := []string{
		"✅ Task server is healthy",
		fmt.Sprintf("   Version: %s", orUnknown(info.Version)),
		fmt.Sprintf("   Clients: %s", orUnknown(strings.Join(info.Clients, ", "))),
	}
	return strings.Join(lines, "\n")
}

// RenderMessage formats a result message with a status marker
func RenderMessage(ok bool, message string) string {
	if ok {
		return "✅ " + message
	}
	return "❌ " + message
}

// Hint renders a dim footer line, like the original's message trailer
func Hint(message string) string {
	return dimStyle.Render("💡 " + message)
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// numField tolerates the number types JSON decoding can produce
func numField(m map[string]any, key string) any {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case nil:
		return 0
	default:
		return v
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
