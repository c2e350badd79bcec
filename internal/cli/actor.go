package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/pixelcanvas/internal/api/response"
)

func newActorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Account commands",
	}

	cmd.AddCommand(newActorAuthCmd("register", "Register a new account", "/api/v1/actors/register"))
	cmd.AddCommand(newActorAuthCmd("login", "Log in to an existing account", "/api/v1/actors/login"))
	cmd.AddCommand(newActorLogoutCmd())
	cmd.AddCommand(newActorMeCmd())

	return cmd
}

// newActorAuthCmd builds register and login, which share a body and both
// save the returned token
func newActorAuthCmd(use, short, path string) *cobra.Command {
	var name, pass string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name, "password": pass}
			var result response.AuthResponse

			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Actor name (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newActorLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/actors/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Logged out")
			return nil
		},
	}
}

func newActorMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Actor

			if err := client.Get("/api/v1/actors/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
