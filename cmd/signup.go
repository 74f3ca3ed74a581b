package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorctl/tutorctl/internal/auth"
)

func newSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the remote service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			name, err := promptLine("Name: ")
			if err != nil {
				return err
			}
			email, err := promptLine("Email: ")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("name, email and password are required")
			}

			client := apiClient(cfg, auth.Credentials{})
			if err := client.Signup(context.Background(), name, email, password); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			fmt.Println("Signup successful; run `tutorctl login` to sign in.")
			return nil
		},
	}
}
