package agent

import (
	"context"
	"fmt"

	"taskman/internal/llm"
	"taskman/internal/logger"
	"taskman/internal/tool"
)

// Greeting is the assistant message every new session starts with
const Greeting = "Hello! I'm your Task Management Assistant. I can help you " +
	"create, update, delete, and view your tasks. Try saying: " +
	"\"Create a high priority task to test the system\""

// Message is one turn of session chat history
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Session holds the per-client state for a sequence of utterances: the
// schema cache and the chat history. One session per client instance;
// sessions are never shared.
type Session struct {
	Cache   *tool.Cache
	History []Message
}

// NewSession creates a session around the given schema cache
func NewSession(cache *tool.Cache) *Session {
	return &Session{
		Cache:   cache,
		History: []Message{{Role: "assistant", Content: Greeting}},
	}
}

func (s *Session) addUser(content string) {
	s.History = append(s.History, Message{Role: "user", Content: content})
}

func (s *Session) addAssistant(content string) {
	s.History = append(s.History, Message{Role: "assistant", Content: content})
}

// Options control how one utterance is routed
type Options struct {
	// UseDynamicSchema prefers the server-discovered schema over the
	// built-in one
	UseDynamicSchema bool
	// ForceRefresh bypasses the schema cache
	ForceRefresh bool
	// Fallback routes through the keyword matcher, skipping the model
	Fallback bool
}

// Router turns utterances into validated tool calls or conversational
// replies.
type Router struct {
	model   llm.Client
	retry   *llm.Policy
	invoker *tool.Invoker
	log     *logger.Logger
}

// NewRouter creates a router over the given model, retry policy and invoker
func NewRouter(model llm.Client, retry *llm.Policy, invoker *tool.Invoker, log *logger.Logger) *Router {
	return &Router{
		model:   model,
		retry:   retry,
		invoker: invoker,
		log:     log,
	}
}

// Route processes one utterance for the session and returns the resulting
// intent, with any dispatched tool call's result attached. The returned
// intent always carries the route tag of the path that produced it.
func (r *Router) Route(ctx context.Context, sess *Session, utterance string, opts Options) Intent {
	sess.addUser(utterance)
	intent := r.route(ctx, sess, utterance, opts)
	sess.addAssistant(intent.Response)
	return intent
}

func (r *Router) route(ctx context.Context, sess *Session, utterance string, opts Options) Intent {
	if opts.Fallback {
		intent := MatchFallback(utterance)
		intent.Route = RouteFallback
		if intent.Kind == KindToolCall {
			r.dispatch(ctx, &intent, tool.StaticSchema())
		}
		return intent
	}

	schema := sess.Cache.GetSchema(ctx, opts.UseDynamicSchema, opts.ForceRefresh)
	route := routeForSource(schema.Source)

	prompt := buildPrompt(tool.PromptText(schema), utterance)
	r.log.Debug("Routing utterance via %s schema (%d tools)", schema.Source, len(schema.Tools))

	res, err := r.retry.Execute(ctx, func(ctx context.Context) (string, error) {
		return r.model.Complete(ctx, prompt)
	})
	if err != nil {
		intent := errorIntent(fmt.Sprintf("Model request failed: %v", err))
		intent.Route = route
		return intent
	}
	if res.RateLimited {
		intent := chatIntent(res.Message)
		intent.Route = route
		return intent
	}

	intent := ParseIntent(res.Text)
	intent.Route = route
	if intent.Kind != KindToolCall {
		return intent
	}

	if intent.Tool == "" {
		failed := errorIntent("Model proposed a tool call without naming a tool")
		failed.Route = route
		return failed
	}
	// The prompt contract mandates a title for create_task; reject before
	// wasting a server round-trip.
	if intent.Tool == "create_task" && !hasTitle(intent.Parameters) {
		failed := errorIntent("Model proposed create_task without a title. Please rephrase, e.g. \"Create task: Buy milk\"")
		failed.Route = route
		return failed
	}

	r.dispatch(ctx, &intent, schema)
	return intent
}

// dispatch runs the tool call and folds its normalized result into the
// intent's response text.
func (r *Router) dispatch(ctx context.Context, intent *Intent, schema *tool.Schema) {
	result := r.invoker.Invoke(ctx, intent.Tool, intent.Parameters, schema)
	intent.Result = result
	if result.OK {
		intent.Response = result.Message
	} else {
		intent.Response = result.ErrorText
	}
}

func hasTitle(params map[string]any) bool {
	title, ok := params["title"].(string)
	return ok && title != ""
}

func routeForSource(source tool.Source) Route {
	if source == tool.SourceDynamic {
		return RouteDynamic
	}
	return RouteStatic
}
