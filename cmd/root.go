// ABOUTME: Root command for the todoctl CLI
// ABOUTME: Handles global flags, configuration, and shared wiring

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/client"
	"github.com/markalston/todoctl/internal/config"
	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/logger"
	"github.com/markalston/todoctl/internal/recent"
	"github.com/markalston/todoctl/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	graphqlURL string
	transport  string
	configDir  string
	logLevel   string
	jsonOutput bool
	assumeYes  bool
)

// Exit codes
const (
	exitOK       = 0
	exitRejected = 1 // refused locally: validation, guard, self-action
	exitError    = 2 // backend, network or configuration error
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "todoctl",
	Short: "Command-line client for the todo service",
	Long: `todoctl is a command-line and terminal UI client for the todo service.

It signs in against the backend, manages your todos, and lets admins manage users.

Exit codes:
  0 - Success (or a declined confirmation)
  1 - Rejected locally (invalid input, not logged in, not an admin, own account)
  2 - Error (backend, network, configuration)

Environment Variables:
  TODO_API_URL      REST base URL (default: http://localhost:8080/api)
  TODO_GRAPHQL_URL  GraphQL endpoint (default: http://localhost:8080/v1/graphql)
  TODO_TRANSPORT    rest or graphql for todo and admin calls (default: rest)
  TODO_CONFIG_DIR   Session and config directory (default: ~/.config/todoctl)
  TODO_TIMEOUT      HTTP client timeout, e.g. 30s (default: none)
  TODO_ALL_PROXY    ssh+socks5://user@host:port?private-key=/path
  TODO_COALESCE     Merge identical in-flight requests (default: true)
  LOG_LEVEL         debug, info, warn, error (default: warn)
  LOG_FORMAT        text or json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "REST base URL (overrides TODO_API_URL)")
	rootCmd.PersistentFlags().StringVar(&graphqlURL, "graphql-url", "", "GraphQL endpoint (overrides TODO_GRAPHQL_URL)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "rest or graphql (overrides TODO_TRANSPORT)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session and config directory (overrides TODO_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig merges configuration sources with flags taking priority
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if graphqlURL != "" {
		cfg.GraphQLURL = graphqlURL
	}
	if transport != "" {
		cfg.Transport = transport
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the pieces every command needs
type app struct {
	cfg    *config.Config
	store  *session.FileStore
	client *client.Client
	guard  *authz.Guard
	recent *recent.Accounts
}

// newApp loads configuration and wires the session store, guard and client.
// Logging goes to stderr at the configured level.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	store := session.NewFileStore(cfg.ConfigDir)
	c, err := client.New(client.Options{
		BaseURL:           cfg.APIURL,
		GraphQLURL:        cfg.GraphQLURL,
		Transport:         cfg.Transport,
		Session:           store,
		Timeout:           cfg.Timeout,
		AllProxy:          cfg.AllProxy,
		DisableCoalescing: !cfg.Coalesce,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		store:  store,
		client: c,
		guard:  authz.New(store),
		recent: recent.New(cfg.ConfigDir),
	}, nil
}

// fail prints err and returns the matching exit code
func fail(w io.Writer, err error) int {
	if IsJSONOutput() {
		out := map[string]any{"error": controller.Banner(err)}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			out["kind"] = apiErr.Kind
			if apiErr.Status != 0 {
				out["status"] = apiErr.Status
			}
		}
		if route, ok := controller.RedirectTarget(err); ok {
			out["redirect"] = route
		}
		writeJSON(w, out)
	} else {
		fmt.Fprintf(w, "Error: %s\n", controller.Banner(err))
	}

	if controller.IsLocal(err) {
		return exitRejected
	}
	return exitError
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// parseID parses a positional id argument
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &controller.ValidationError{Field: "id", Message: fmt.Sprintf("invalid id %q", arg)}
	}
	return id, nil
}
