package cmd

import (
	"fmt"
	"os"

	"github.com/tutorctl/tutorctl/internal/config"
	"github.com/tutorctl/tutorctl/internal/session"
	"github.com/tutorctl/tutorctl/internal/tui"
)

// runChat opens the interactive chat UI: the bubbletea TUI on a
// terminal, the plain REPL otherwise or with --plain.
func runChat() error {
	cfg := initConfig()
	creds := loadCreds()

	if cfg.Gateway == "" || cfg.Gateway == config.GatewayBackend {
		if !creds.LoggedIn() {
			// The chat endpoint accepts unauthenticated calls; just warn.
			fmt.Fprintln(os.Stderr, "not logged in; run `tutorctl login` to attach your account")
		}
	}

	completer, err := buildCompleter(cfg, creds)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	mgr := session.NewManager(store, completer)
	mgr.Hydrate()

	if plainFlag || !stdoutIsTerminal() {
		return tui.RunPlain(mgr, os.Stdin, os.Stdout)
	}
	return tui.Run(mgr)
}
