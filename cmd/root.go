// Package cmd wires the CLI: the default command opens the chat UI;
// subcommands cover auth, profile and offline session management.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tutorctl/tutorctl/internal/api"
	"github.com/tutorctl/tutorctl/internal/auth"
	"github.com/tutorctl/tutorctl/internal/config"
	"github.com/tutorctl/tutorctl/internal/gateway"
	"github.com/tutorctl/tutorctl/internal/session"
)

var (
	cfgFile     string
	apiURLFlag  string
	gatewayFlag string
	plainFlag   bool

	// Package-level version info, set by Execute().
	appVersion string
	appCommit  string
	appDate    string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd := &cobra.Command{
		Use:   "tutorctl",
		Short: "Terminal client for the learning assistant service",
		Long:  "tutorctl is a terminal chat client with locally persisted sessions, talking to a remote learning assistant service.",
		// Running tutorctl with no subcommand opens the chat UI.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/tutorctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "override the remote service base URL")
	rootCmd.Flags().StringVarP(&gatewayFlag, "gateway", "g", "", "completion gateway: backend, openai or anthropic")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "force the plain REPL instead of the TUI")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if apiURLFlag != "" {
		cfg.API.BaseURL = apiURLFlag
	}
	if gatewayFlag != "" {
		cfg.Gateway = gatewayFlag
	}

	return cfg
}

// credStore opens the credential store at its fixed path.
func credStore() *auth.Store {
	path, err := auth.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve credentials path:", err)
		os.Exit(1)
	}
	return auth.NewStore(path)
}

// loadCreds reads stored credentials, treating a corrupt file as logged out.
func loadCreds() auth.Credentials {
	creds, err := credStore().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (treating as logged out)\n", err)
		return auth.Credentials{}
	}
	return creds
}

// apiClient builds a client for the remote service with the stored token.
func apiClient(cfg *config.Config, creds auth.Credentials) *api.Client {
	return api.NewClient(cfg.API.BaseURL, creds.Token)
}

// openStore opens the configured session store backend.
func openStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return session.NewSQLiteStore(filepath.Join(cfg.DataDir, "sessions.db"))
	case "", config.StorageJSON:
		return session.NewFileStore(filepath.Join(cfg.DataDir, "sessions.json")), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want json or sqlite)", cfg.Storage)
	}
}

// buildCompleter creates the completion gateway selected by configuration.
func buildCompleter(cfg *config.Config, creds auth.Credentials) (session.Completer, error) {
	switch cfg.Gateway {
	case "", config.GatewayBackend:
		return gateway.NewBackend(apiClient(cfg, creds)), nil
	case config.GatewayOpenAI:
		pc := cfg.GetProviderConfig(config.GatewayOpenAI)
		if pc.APIKey == "" {
			return nil, fmt.Errorf("API key not configured for the openai gateway.\nSet providers.openai.api_key in the config file or the LLM_API_KEY environment variable")
		}
		return gateway.NewOpenAI(pc.APIKey, pc.BaseURL, pc.Model), nil
	case config.GatewayAnthropic:
		pc := cfg.GetProviderConfig(config.GatewayAnthropic)
		if pc.APIKey == "" {
			return nil, fmt.Errorf("API key not configured for the anthropic gateway.\nSet providers.anthropic.api_key in the config file or the ANTHROPIC_API_KEY environment variable")
		}
		return gateway.NewAnthropic(pc.APIKey, pc.Model), nil
	default:
		return nil, fmt.Errorf("unknown gateway %q (want backend, openai or anthropic)", cfg.Gateway)
	}
}

// stdoutIsTerminal reports whether the chat UI may use the TUI.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
