// Package config provides configuration management for the movdb-bootstrap CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
//
// The three principal inputs (MOV_DB_USER_NAME, MOV_DB_USER_PASSWORD, MOV_DB_NAME) have no
// defaults and are never validated here: whatever the environment holds, including an empty
// string, is handed to the directive as-is.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Keys shared with the cli package for flag binding.
const (
	KeyUserName        = "db-user-name"
	KeyUserPassword    = "db-user-password"
	KeyDatabase        = "db-name"
	KeyURI             = "db-uri"
	KeyAdminUser       = "db-admin-user"
	KeyAdminPassword   = "db-admin-password"
	KeySessionDatabase = "db-session-database"
	KeyTimeout         = "db-timeout"

	KeyLogConsoleLevel    = "log-console-level"
	KeyLogFileLevel       = "log-file-level"
	KeyLogFileMaxBytes    = "log-file-max-bytes"
	KeyLogFileBackupCount = "log-file-backup-count"
	KeyLogDir             = "log-dir"
	KeyLogFileName        = "log-file-name"
)

const envPrefix = "MOV"

// DefaultSessionDatabase is used when neither db-session-database nor db-name is set,
// matching the mongo shell's default database.
const DefaultSessionDatabase = "test"

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	Principal PrincipalConfig
	Mongo     MongoConfig
	Log       LogConfig
}

// PrincipalConfig holds the user to create, verbatim from the environment
type PrincipalConfig struct {
	UserName string
	Password string
	Database string
}

// MongoConfig describes the administrative connection
type MongoConfig struct {
	URI             string
	AdminUser       string
	AdminPassword   string
	SessionDatabase string
	Timeout         time.Duration
}

// LogConfig mirrors the LOG_* variables shared with the other VALAWAI components
type LogConfig struct {
	ConsoleLevel    string
	FileLevel       string
	FileMaxBytes    int
	FileBackupCount int
	Dir             string
	FileName        string
}

// Init initializes viper with defaults and config file paths
func Init() error {
	return initViper(viper.GetViper())
}

func initViper(v *viper.Viper) error {
	// Set config file name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config file search paths
	v.AddConfigPath("$HOME/.movdb-bootstrap")
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault(KeyURI, "mongodb://localhost:27017")
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyLogConsoleLevel, "INFO")
	v.SetDefault(KeyLogFileLevel, "DEBUG")
	v.SetDefault(KeyLogFileMaxBytes, 1000000)
	v.SetDefault(KeyLogFileBackupCount, 5)
	v.SetDefault(KeyLogDir, "logs")
	v.SetDefault(KeyLogFileName, "movdb_bootstrap.txt")

	// Bind environment variables with prefix: db-user-name -> MOV_DB_USER_NAME
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// Logging variables are unprefixed
	for _, key := range []string{
		KeyLogConsoleLevel,
		KeyLogFileLevel,
		KeyLogFileMaxBytes,
		KeyLogFileBackupCount,
		KeyLogDir,
		KeyLogFileName,
	} {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Principal: PrincipalConfig{
			UserName: v.GetString(KeyUserName),
			Password: v.GetString(KeyUserPassword),
			Database: v.GetString(KeyDatabase),
		},
		Mongo: MongoConfig{
			URI:             v.GetString(KeyURI),
			AdminUser:       v.GetString(KeyAdminUser),
			AdminPassword:   v.GetString(KeyAdminPassword),
			SessionDatabase: v.GetString(KeySessionDatabase),
			Timeout:         v.GetDuration(KeyTimeout),
		},
		Log: LogConfig{
			ConsoleLevel:    v.GetString(KeyLogConsoleLevel),
			FileLevel:       v.GetString(KeyLogFileLevel),
			FileMaxBytes:    v.GetInt(KeyLogFileMaxBytes),
			FileBackupCount: v.GetInt(KeyLogFileBackupCount),
			Dir:             v.GetString(KeyLogDir),
			FileName:        v.GetString(KeyLogFileName),
		},
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SessionDatabase is the database createUser runs against: the explicit setting, else the
// target database, else DefaultSessionDatabase.
func (c *Config) SessionDatabase() string {
	if c.Mongo.SessionDatabase != "" {
		return c.Mongo.SessionDatabase
	}
	if c.Principal.Database != "" {
		return c.Principal.Database
	}
	return DefaultSessionDatabase
}

// Validate ensures config is sane. Principal fields are not checked.
func (c *Config) Validate() error {
	if err := options.Client().ApplyURI(c.Mongo.URI).Validate(); err != nil {
		return fmt.Errorf("invalid db-uri: %w", err)
	}

	if c.Mongo.Timeout <= 0 {
		return fmt.Errorf("invalid db-timeout: %s", c.Mongo.Timeout)
	}

	if !validLevel(c.Log.ConsoleLevel) {
		return fmt.Errorf("invalid log-console-level: %s", c.Log.ConsoleLevel)
	}
	if !validLevel(c.Log.FileLevel) {
		return fmt.Errorf("invalid log-file-level: %s", c.Log.FileLevel)
	}

	if c.Log.FileMaxBytes < 0 {
		return fmt.Errorf("invalid log-file-max-bytes: %d", c.Log.FileMaxBytes)
	}
	if c.Log.FileBackupCount < 0 {
		return fmt.Errorf("invalid log-file-backup-count: %d", c.Log.FileBackupCount)
	}

	return nil
}

func validLevel(level string) bool {
	switch strings.ToUpper(level) {
	case "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "CRITICAL", "FATAL":
		return true
	}
	return false
}

// Display shows current config (for movdb-bootstrap config show)
func Display() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return display(cfg, viper.ConfigFileUsed()), nil
}

func display(cfg *Config, configFile string) string {
	if configFile == "" {
		configFile = "(not found)"
	}

	return fmt.Sprintf(`Principal:
  db-user-name:          %s
  db-user-password:      %s
  db-name:               %s

Connection:
  db-uri:                %s
  db-admin-user:         %s
  db-session-database:   %s
  db-timeout:            %s

Logging:
  log-console-level:     %s
  log-file-level:        %s
  log-file:              %s/%s
  log-file-max-bytes:    %d
  log-file-backup-count: %d

Sources:
  Config file:           %s
  Environment:           MOV_DB_*, LOG_*
  Flags:                 (per command)
`,
		cfg.Principal.UserName,
		mask(cfg.Principal.Password),
		cfg.Principal.Database,
		redactURI(cfg.Mongo.URI),
		cfg.Mongo.AdminUser,
		cfg.SessionDatabase(),
		cfg.Mongo.Timeout,
		cfg.Log.ConsoleLevel,
		cfg.Log.FileLevel,
		cfg.Log.Dir, cfg.Log.FileName,
		cfg.Log.FileMaxBytes,
		cfg.Log.FileBackupCount,
		configFile,
	)
}

func mask(secret string) string {
	if secret == "" {
		return "(empty)"
	}
	return "********"
}

func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
