package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskman/internal/agent"
	"taskman/internal/cli"
	"taskman/internal/config"
	"taskman/internal/llm"
	"taskman/internal/llm/gemini"
	"taskman/internal/llm/openai"
	"taskman/internal/logger"
	"taskman/internal/mcp"
	"taskman/internal/tool"
)

var (
	configPath string
	serverURL  string
	provider   string
	model      string
	apiKey     string

	useDynamic bool
	fallback   bool
	refresh    bool

	priority    string
	description string
	searchLimit int

	verbose bool
	noColor bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskman",
		Short: "Natural-language client for the task management server",
		Long: "taskman routes free-text commands to the task management server,\n" +
			"using a language model for intent extraction with a deterministic\n" +
			"keyword fallback.",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: search taskman.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Task server URL")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	chatCmd := &cobra.Command{
		Use:   "chat [utterance]",
		Short: "Route a free-text command, or start an interactive session",
		RunE:  runChat,
	}
	chatCmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai or gemini")
	chatCmd.Flags().StringVar(&model, "model", "", "Model to use")
	chatCmd.Flags().StringVar(&apiKey, "api-key", "", "Model API key")
	chatCmd.Flags().BoolVar(&useDynamic, "dynamic-schema", false, "Discover the tool schema from the server")
	chatCmd.Flags().BoolVar(&fallback, "fallback", false, "Skip the model and use keyword routing")
	chatCmd.Flags().BoolVar(&refresh, "refresh", false, "Force a schema re-fetch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		RunE:  runList,
	}

	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCreate,
	}
	createCmd.Flags().StringVar(&priority, "priority", "medium", "Task priority: low, medium or high")
	createCmd.Flags().StringVar(&description, "description", "", "Task description")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		RunE:  runStats,
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check task server health",
		RunE:  runHealth,
	}

	rootCmd.AddCommand(chatCmd, listCmd, createCmd, searchCmd, statsCmd, healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with command-line overrides
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadWithDefaults()
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}

	return cfg, cfg.Validate()
}

func newLogger() *logger.Logger {
	logLevel := logger.LevelInfo
	if verbose {
		logLevel = logger.LevelDebug
	}
	log := logger.NewLogger(os.Stdout, logLevel)
	if noColor {
		log.SetColorMode(false)
	}
	return log
}

// newModelClient creates the completion client for the configured provider
func newModelClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		key := cfg.LLM.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key required (set llm.api_key or OPENAI_API_KEY)")
		}
		return openai.NewClient(key, cfg.LLM.Model), nil
	case "gemini":
		key := cfg.LLM.APIKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		return gemini.NewClient(ctx, key, cfg.LLM.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.LLM.Provider)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend := mcp.NewClient(cfg.Server.BaseURL)

	var modelClient llm.Client
	if !fallback {
		modelClient, err = newModelClient(ctx, cfg)
		if err != nil {
			return err
		}
		log.Debug("Using %s model %s", modelClient.Provider(), modelClient.Model())
	}

	cache := tool.NewCache(backend, cfg.Cache.TTL(), log)
	invoker := tool.NewInvoker(backend, log)
	router := agent.NewRouter(modelClient, llm.NewPolicy(log), invoker, log)
	sess := agent.NewSession(cache)

	opts := agent.Options{
		UseDynamicSchema: useDynamic,
		ForceRefresh:     refresh,
		Fallback:         fallback,
	}

	if len(args) > 0 {
		printIntent(router.Route(ctx, sess, strings.Join(args, " "), opts))
		return nil
	}

	// Interactive session
	fmt.Println(agent.Greeting)
	fmt.Println(`Type "exit" to leave.`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		printIntent(router.Route(ctx, sess, line, opts))
	}
	return scanner.Err()
}

// printIntent renders a routed intent and any attached tool result
func printIntent(intent agent.Intent) {
	switch intent.Kind {
	case agent.KindError:
		fmt.Println(cli.RenderMessage(false, intent.Response))
	case agent.KindChat:
		fmt.Println(intent.Response)
	case agent.KindToolCall:
		ok := intent.Result != nil && intent.Result.OK
		fmt.Println(cli.RenderMessage(ok, intent.Response))
		if intent.Result != nil {
			printResultData(intent.Result.Data)
		}
	}
}

// printResultData renders list/stats payloads carried in the raw reply
func printResultData(data map[string]any) {
	if data == nil {
		return
	}
	if tasks := taskRows(data["tasks"]); tasks != nil {
		fmt.Println(cli.RenderTasks(tasks, "📋 Tasks"))
	}
	if stats, ok := data["stats"].(map[string]any); ok {
		fmt.Println(cli.RenderStats(stats))
	}
}

// taskRows converts the decoded JSON task array into row maps
func taskRows(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	tasks := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if task, ok := item.(map[string]any); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// directCall runs one tool against the server after a health check, the way
// the direct subcommands do.
func directCall(name string, params map[string]any) (*tool.CallResult, error) {
	ctx := context.Background()
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	backend := mcp.NewClient(cfg.Server.BaseURL)

	if _, err := backend.Health(ctx); err != nil {
		return nil, fmt.Errorf("task server is not responding: %w", err)
	}

	invoker := tool.NewInvoker(backend, log)
	return invoker.Invoke(ctx, name, params, tool.StaticSchema()), nil
}

func runList(cmd *cobra.Command, args []string) error {
	result, err := directCall("list_tasks", nil)
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.ErrorText)
	}
	fmt.Println(cli.RenderTasks(taskRows(result.Data["tasks"]), "📋 All Tasks"))
	fmt.Println(cli.Hint(result.Message))
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	result, err := directCall("create_task", map[string]any{
		"title":       strings.Join(args, " "),
		"description": description,
		"priority":    priority,
	})
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.ErrorText)
	}
	fmt.Println(cli.RenderMessage(true, result.Message))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	result, err := directCall("search_tasks", map[string]any{
		"query": query,
		"limit": searchLimit,
	})
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.ErrorText)
	}
	fmt.Println(cli.RenderTasks(taskRows(result.Data["tasks"]), fmt.Sprintf("🔍 Search Results for %q", query)))
	fmt.Println(cli.Hint(result.Message))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	result, err := directCall("get_task_stats", nil)
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.ErrorText)
	}
	stats, _ := result.Data["stats"].(map[string]any)
	fmt.Println(cli.RenderStats(stats))
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend := mcp.NewClient(cfg.Server.BaseURL)

	info, err := backend.Health(context.Background())
	if err != nil {
		fmt.Println(cli.RenderMessage(false, "Task server is not responding"))
		return err
	}
	fmt.Println(cli.RenderHealth(info))
	return nil
}
