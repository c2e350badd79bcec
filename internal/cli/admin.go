package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pixelcanvas/internal/api/response"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderation commands (admins and moderators)",
	}

	cmd.AddCommand(newAdminTargetCmd("ban", "Ban an actor from placing pixels", "/api/v1/admin/ban"))
	cmd.AddCommand(newAdminTargetCmd("unban", "Lift a ban", "/api/v1/admin/unban"))
	cmd.AddCommand(newAdminTargetCmd("remove-timeout", "Lift a timeout", "/api/v1/admin/remove-timeout"))
	cmd.AddCommand(newAdminTimeoutCmd())
	cmd.AddCommand(newAdminSetModeratorCmd())
	cmd.AddCommand(newAdminDashboardCmd())

	return cmd
}

func newAdminTargetCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <actor-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return moderate(cmd, path, map[string]any{"user_id": args[0]})
		},
	}
}

func newAdminTimeoutCmd() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "timeout <actor-id>",
		Short: "Block an actor from placing pixels for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return moderate(cmd, "/api/v1/admin/timeout", map[string]any{"user_id": args[0], "minutes": minutes})
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 5, "Timeout length in minutes")

	return cmd
}

func newAdminSetModeratorCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "set-moderator <actor-id>",
		Short: "Grant (or with --revoke, remove) the moderator role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return moderate(cmd, "/api/v1/admin/set-moderator", map[string]any{"user_id": args[0], "is_moderator": !revoke})
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "Remove the role instead of granting it")

	return cmd
}

func newAdminDashboardCmd() *cobra.Command {
	var top, recent int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show canvas statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if top > 0 {
				q.Set("top", strconv.Itoa(top))
			}
			if recent > 0 {
				q.Set("recent", strconv.Itoa(recent))
			}
			path := "/api/v1/admin/dashboard"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result response.Dashboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Number of top actors (server default when zero)")
	cmd.Flags().IntVar(&recent, "recent", 0, "Number of recent placements (server default when zero)")

	return cmd
}

func moderate(cmd *cobra.Command, path string, body map[string]any) error {
	var result response.Moderation
	if err := client.Post(path, body, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
	return nil
}
