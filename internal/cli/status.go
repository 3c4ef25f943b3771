package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/movdb-bootstrap/internal/mongoadmin"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the database user exists",
	Long:  `Connect to MongoDB and report the configured user and its roles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mongo.Timeout)
		defer cancel()

		s, err := connect(ctx, cfg)
		if err != nil {
			color.Red("✗ Server DOWN: %v", err)
			return err
		}
		defer closeSession(s)

		info, err := s.UserInfo(ctx, cfg.Principal.UserName)
		if err != nil {
			color.Red("✗ Failed to get status: %v", err)
			return err
		}

		// Print status
		color.Cyan("User             Status      Database         Roles")
		color.Cyan("──────────────────────────────────────────────────────────")

		printUserStatus(cfg.Principal.UserName, s.Database(), info)

		return nil
	},
}

func printUserStatus(name, db string, info *mongoadmin.UserInfo) {
	if info == nil {
		color.New().Printf("%-16s %s   %-16s %s\n", name, color.RedString("✗ MISSING"), db, "-")
		return
	}

	roles := make([]string, 0, len(info.Roles))
	for _, r := range info.Roles {
		roles = append(roles, r.Role+"@"+r.DB)
	}
	color.New().Printf("%-16s %s    %-16s %s\n", info.User, color.GreenString("✓ EXISTS"), info.DB, strings.Join(roles, ", "))
}
