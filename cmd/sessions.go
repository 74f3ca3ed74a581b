package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutorctl/tutorctl/internal/session"
)

// newSessionsCmd manages the local session store without opening the
// chat UI. IDs may be abbreviated to a unique prefix.
func newSessionsCmd() *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage locally stored chat sessions",
	}

	sessions.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeStore, err := offlineManager()
			if err != nil {
				return err
			}
			defer closeStore()

			for _, s := range mgr.Sessions() {
				topicMark := ""
				if s.Topic != "" {
					topicMark = " [topic]"
				}
				fmt.Printf("%s  %-28s  %3d messages  %s%s\n",
					s.ShortID(), s.Title, len(s.Messages),
					s.UpdatedAt.Format("2006-01-02 15:04"), topicMark)
			}
			return nil
		},
	})

	sessions.AddCommand(&cobra.Command{
		Use:   "export <id>",
		Short: "Write a session transcript to a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeStore, err := offlineManager()
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := resolveSession(mgr, args[0])
			if err != nil {
				return err
			}
			name := session.ExportFilename(s)
			if err := os.WriteFile(name, []byte(session.ExportText(s)), 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Println("Exported to", name)
			return nil
		},
	})

	sessions.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeStore, err := offlineManager()
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := resolveSession(mgr, args[0])
			if err != nil {
				return err
			}
			mgr.DeleteSession(s.ID)
			fmt.Println("Deleted", s.ShortID())
			return nil
		},
	})

	sessions.AddCommand(&cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeStore, err := offlineManager()
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := resolveSession(mgr, args[0])
			if err != nil {
				return err
			}
			mgr.RenameSession(s.ID, strings.Join(args[1:], " "))
			return nil
		},
	})

	return sessions
}

// offlineManager opens the store with no completion gateway attached.
func offlineManager() (*session.Manager, func(), error) {
	cfg := initConfig()
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	mgr := session.NewManager(store, nil)
	mgr.Hydrate()
	return mgr, func() { store.Close() }, nil
}

// resolveSession finds a session by ID or unique ID prefix.
func resolveSession(mgr *session.Manager, id string) (*session.Session, error) {
	var match *session.Session
	for _, s := range mgr.Sessions() {
		if s.ID == id {
			return s, nil
		}
		if strings.HasPrefix(s.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous session id %q", id)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return match, nil
}
