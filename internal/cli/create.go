package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/movdb-bootstrap/internal/config"
	"github.com/blackwell-systems/movdb-bootstrap/internal/memadmin"
	"github.com/blackwell-systems/movdb-bootstrap/internal/mongoadmin"
	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the database user",
	Long: `Create the database user with a readWrite role on MOV_DB_NAME.

The createUser request is sent once. If the user already exists the
server rejects it and the command exits non-zero.

With --dry-run the request goes to an in-memory catalog instead of the
server, which shows what would be created without touching MongoDB.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		p := principal(cfg)
		req := provision.BuildRequest(p)

		log.Info().
			Str("user", req.User).
			Str("database", req.Database()).
			Str("session_database", cfg.SessionDatabase()).
			Bool("dry_run", dryRun).
			Msg("Creating database user")
		log.Debug().Interface("request", req.Redacted()).Msg("createUser request")

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mongo.Timeout)
		defer cancel()

		admin, closeAdmin, err := openAdmin(ctx, cfg, dryRun)
		if err != nil {
			log.Error().Err(err).Str("uri", cfg.Mongo.URI).Msg("Failed to open administrative session")
			color.Red("✗ Failed to connect: %v", err)
			return err
		}
		defer closeAdmin()

		if dryRun {
			color.Cyan("Dry run: submitting to an in-memory catalog")
		}
		color.Cyan("Creating user %q with readWrite on %q...", req.User, req.Database())

		if err := provision.NewDirective(admin).Run(ctx, p); err != nil {
			log.Error().
				Err(err).
				Str("user", req.User).
				Str("reason", string(provision.ReasonOf(err))).
				Msg("Principal creation rejected")
			color.Red("✗ Failed to create user: %v", err)
			return err
		}

		log.Info().Str("user", req.User).Str("database", req.Database()).Msg("Created database user")
		color.Green("✓ User %q created with readWrite on %q", req.User, req.Database())
		return nil
	},
}

func init() {
	createCmd.Flags().Bool("dry-run", false, "Submit to an in-memory catalog instead of the server")
}

// openAdmin returns the session the directive submits to and a function that releases it.
func openAdmin(ctx context.Context, cfg *config.Config, dryRun bool) (provision.Admin, func(), error) {
	if dryRun {
		return memadmin.New(cfg.SessionDatabase()), func() {}, nil
	}

	s, err := connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { closeSession(s) }, nil
}

type sessionCloser interface {
	Close(ctx context.Context) error
}

// closeSession releases the session, logging rather than returning a close failure.
func closeSession(s sessionCloser) {
	if err := s.Close(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to close administrative session")
	}
}

func connect(ctx context.Context, cfg *config.Config) (*mongoadmin.Session, error) {
	return mongoadmin.Connect(ctx, mongoadmin.Options{
		URI:           cfg.Mongo.URI,
		AdminUser:     cfg.Mongo.AdminUser,
		AdminPassword: cfg.Mongo.AdminPassword,
		Database:      cfg.SessionDatabase(),
		Timeout:       cfg.Mongo.Timeout,
	})
}
