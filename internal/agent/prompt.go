package agent

import "fmt"

// promptTemplate instructs the model to answer with exactly one JSON
// object following the intent contract. The rules pin down the fields the
// task server actually accepts.
const promptTemplate = `You are a task management assistant. Analyze this user request and determine the appropriate action.

%s

User request: %q

IMPORTANT RULES:
1. For create_task: ALWAYS include a "title" field (this is REQUIRED)
2. For create_task: Only use "title", "description", and "priority" fields
3. For update_task: ALWAYS include an "id" field
4. Priority must be one of: "low", "medium", "high"
5. Do NOT use fields like "status" or "name" - they don't exist
6. RESPOND WITH PURE JSON ONLY - NO MARKDOWN CODE BLOCKS OR FORMATTING

If this is a task operation, respond with JSON in this EXACT format (NO ` + "```" + ` markers):
{
    "action": "tool_call",
    "tool": "tool_name_here",
    "parameters": {
        "title": "extracted title here",
        "priority": "high|medium|low",
        "description": "optional description"
    },
    "explanation": "Brief explanation of what you're doing"
}

If it's just conversation, respond with (NO ` + "```" + ` markers):
{
    "action": "chat",
    "response": "Your response here"
}

Examples:
- "Create a task to deploy the app" -> {"action": "tool_call", "tool": "create_task", "parameters": {"title": "Deploy the app"}}
- "Create high priority task to review code" -> {"action": "tool_call", "tool": "create_task", "parameters": {"title": "Review code", "priority": "high"}}

IMPORTANT: Return ONLY the JSON object, no extra text or formatting.`

// buildPrompt renders the routing prompt for one utterance
func buildPrompt(schemaText, utterance string) string {
	return fmt.Sprintf(promptTemplate, schemaText, utterance)
}
