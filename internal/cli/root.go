// Package cli implements the movdb-bootstrap commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/movdb-bootstrap/internal/config"
	"github.com/blackwell-systems/movdb-bootstrap/internal/logging"
	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

var rootCmd = &cobra.Command{
	Use:   "movdb-bootstrap",
	Short: "Provision the MOV database user",
	Long: `Provision the MOV database user.

Reads MOV_DB_USER_NAME, MOV_DB_USER_PASSWORD and MOV_DB_NAME and creates
that user with a single readWrite role on the named database. The values
are used as-is: nothing is defaulted, validated or checked for existence,
so running create twice fails the second time.`,
	SilenceUsage: true,
}

// Execute runs the root command; SIGINT and SIGTERM cancel the running command.
func Execute(version string) error {
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyUserName, "", "User to create (MOV_DB_USER_NAME)")
	flags.String(config.KeyDatabase, "", "Database the readWrite role applies to (MOV_DB_NAME)")
	flags.String(config.KeyURI, "", "Administrative connection URI (MOV_DB_URI)")
	flags.String(config.KeySessionDatabase, "", "Database the user is defined in (MOV_DB_SESSION_DATABASE)")
	flags.Duration(config.KeyTimeout, 0, "Connect and command deadline (MOV_DB_TIMEOUT)")

	// Bind flags to viper; flag names match the config keys
	for _, key := range []string{
		config.KeyUserName,
		config.KeyDatabase,
		config.KeyURI,
		config.KeySessionDatabase,
		config.KeyTimeout,
	} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(createCmd, renderCmd, statusCmd, configCmd, versionCmd)
}

// setup loads configuration and installs the global logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Apply(cfg.Log)
	return cfg, nil
}

func principal(cfg *config.Config) provision.Principal {
	return provision.Principal{
		UserName: cfg.Principal.UserName,
		Password: cfg.Principal.Password,
		Database: cfg.Principal.Database,
	}
}
