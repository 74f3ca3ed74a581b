package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored token and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credStore().Clear(); err != nil {
				return fmt.Errorf("clear credentials: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()
			creds := loadCreds()
			if !creds.LoggedIn() {
				return fmt.Errorf("not logged in; run `tutorctl login`")
			}

			profile, err := apiClient(cfg, creds).Me(context.Background())
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}

			fmt.Printf("Name:  %s\nEmail: %s\nRole:  %s\n", profile.Name, profile.Email, profile.Role)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var name string

	update := &cobra.Command{
		Use:   "update",
		Short: "Update the profile name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			cfg := initConfig()
			creds := loadCreds()
			if !creds.LoggedIn() {
				return fmt.Errorf("not logged in; run `tutorctl login`")
			}

			// The service decides who may edit; a denial is shown as-is.
			profile, err := apiClient(cfg, creds).UpdateMe(context.Background(), name)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}

			fmt.Printf("Profile updated: %s <%s>\n", profile.Name, profile.Email)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")

	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage the remote profile",
	}
	profile.AddCommand(update)
	return profile
}
