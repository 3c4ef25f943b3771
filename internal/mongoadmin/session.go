// Package mongoadmin implements the administrative session on top of the MongoDB Go driver.
//
// A Session runs createUser and usersInfo commands against one database, the database the
// new user is defined in. Connection pooling, server selection and retryable reads are left
// to the driver; this package issues each command once.
package mongoadmin

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

// DefaultDatabase is the session database when Options.Database is empty.
const DefaultDatabase = "test"

// Options describes how to reach the server.
type Options struct {
	URI           string
	AdminUser     string
	AdminPassword string
	Database      string
	Timeout       time.Duration
}

// Session is an open administrative connection bound to one database.
type Session struct {
	client *mongo.Client
	db     *mongo.Database
}

// UserInfo is the subset of a usersInfo entry reported by status.
type UserInfo struct {
	User  string           `bson:"user"`
	DB    string           `bson:"db"`
	Roles []provision.Role `bson:"roles"`
}

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, o Options) (*Session, error) {
	opts := options.Client().ApplyURI(o.URI)
	if o.Timeout > 0 {
		opts.SetConnectTimeout(o.Timeout).SetServerSelectionTimeout(o.Timeout)
	}
	if o.AdminUser != "" {
		opts.SetAuth(options.Credential{
			Username: o.AdminUser,
			Password: o.AdminPassword,
		})
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}

	return &Session{client: client, db: client.Database(o.sessionDatabase())}, nil
}

func (o Options) sessionDatabase() string {
	if o.Database == "" {
		return DefaultDatabase
	}
	return o.Database
}

// Database returns the name of the database users are created in.
func (s *Session) Database() string {
	return s.db.Name()
}

// CreateUser runs createUser once. A duplicate user is reported by the server, not checked here.
func (s *Session) CreateUser(ctx context.Context, req provision.Request) error {
	if err := s.db.RunCommand(ctx, createUserCommand(req)).Err(); err != nil {
		return &Error{Op: "createUser", Err: err}
	}
	return nil
}

// UserInfo looks the user up with usersInfo. It returns nil, nil when the user does not exist.
func (s *Session) UserInfo(ctx context.Context, name string) (*UserInfo, error) {
	var out struct {
		Users []UserInfo `bson:"users"`
	}
	if err := s.db.RunCommand(ctx, usersInfoCommand(name, s.db.Name())).Decode(&out); err != nil {
		return nil, &Error{Op: "usersInfo", Err: err}
	}
	if len(out.Users) == 0 {
		return nil, nil
	}
	return &out.Users[0], nil
}

// Close disconnects the client.
func (s *Session) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// createUserCommand keeps the command name as the first field, as the server requires.
func createUserCommand(req provision.Request) bson.D {
	roles := make(bson.A, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, bson.D{
			{Key: "role", Value: r.Role},
			{Key: "db", Value: r.DB},
		})
	}
	return bson.D{
		{Key: "createUser", Value: req.User},
		{Key: "pwd", Value: req.Pwd},
		{Key: "roles", Value: roles},
	}
}

func usersInfoCommand(name, db string) bson.D {
	return bson.D{
		{Key: "usersInfo", Value: bson.D{
			{Key: "user", Value: name},
			{Key: "db", Value: db},
		}},
	}
}
