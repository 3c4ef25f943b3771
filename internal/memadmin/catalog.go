// Package memadmin is an in-memory administrative session.
//
// It keeps a user catalog keyed by (database, user) and rejects a second create of the same
// user the way a MongoDB server does. The CLI uses it for dry runs.
package memadmin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

// DuplicateUserError is returned when the user already exists in the session database.
type DuplicateUserError struct {
	User     string
	Database string
}

func (e *DuplicateUserError) Error() string {
	return fmt.Sprintf("User \"%s@%s\" already exists", e.User, e.Database)
}

// Reason classifies the error as a duplicate.
func (e *DuplicateUserError) Reason() provision.Reason { return provision.ReasonDuplicate }

// User is a catalog entry.
type User struct {
	Database string
	Name     string
	Password string
	Roles    []provision.Role
}

type key struct {
	db   string
	user string
}

// Catalog is a concurrency-safe in-memory user catalog.
type Catalog struct {
	mu       sync.Mutex
	database string
	users    map[key]User
	calls    int
}

// New returns an empty catalog whose users are defined in database.
func New(database string) *Catalog {
	return &Catalog{
		database: database,
		users:    make(map[key]User),
	}
}

// CreateUser stores the user or rejects it if it already exists.
func (c *Catalog) CreateUser(ctx context.Context, req provision.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	k := key{db: c.database, user: req.User}
	if _, ok := c.users[k]; ok {
		return &DuplicateUserError{User: req.User, Database: c.database}
	}

	roles := make([]provision.Role, len(req.Roles))
	copy(roles, req.Roles)
	c.users[k] = User{
		Database: c.database,
		Name:     req.User,
		Password: req.Pwd,
		Roles:    roles,
	}
	return nil
}

// Lookup returns the named user, if present.
func (c *Catalog) Lookup(name string) (User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[key{db: c.database, user: name}]
	return u, ok
}

// Users returns all users sorted by name.
func (c *Catalog) Users() []User {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]User, 0, len(c.users))
	for _, u := range c.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Calls returns how many CreateUser requests were submitted, accepted or not.
func (c *Catalog) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
