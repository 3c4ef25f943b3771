package provision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/movdb-bootstrap/internal/memadmin"
	"github.com/blackwell-systems/movdb-bootstrap/internal/provision"
)

// recordingAdmin captures every request and returns a scripted error.
type recordingAdmin struct {
	requests []provision.Request
	err      error
}

func (a *recordingAdmin) CreateUser(_ context.Context, req provision.Request) error {
	a.requests = append(a.requests, req)
	return a.err
}

type classified struct{ reason provision.Reason }

func (c classified) Error() string { return "classified" }
func (c classified) Reason() provision.Reason { return c.reason }

func TestRunSubmitsExactlyOneRequest(t *testing.T) {
	admin := &recordingAdmin{}
	d := provision.NewDirective(admin)

	err := d.Run(context.Background(), provision.Principal{
		UserName: "movieapp",
		Password: "s3cret",
		Database: "movies",
	})

	require.NoError(t, err)
	require.Len(t, admin.requests, 1)
	assert.Equal(t, provision.Request{
		User:  "movieapp",
		Pwd:   "s3cret",
		Roles: []provision.Role{{Role: "readWrite", DB: "movies"}},
	}, admin.requests[0])
}

func TestRunWithUnsetInputsStillSubmits(t *testing.T) {
	admin := &recordingAdmin{}

	err := provision.NewDirective(admin).Run(context.Background(), provision.Principal{})

	require.NoError(t, err)
	require.Len(t, admin.requests, 1)
	assert.Equal(t, "", admin.requests[0].User)
	assert.Equal(t, "", admin.requests[0].Pwd)
	assert.Equal(t, []provision.Role{{Role: "readWrite", DB: ""}}, admin.requests[0].Roles)
}

func TestRunWrapsRejection(t *testing.T) {
	cause := classified{reason: provision.ReasonUnauthorized}
	admin := &recordingAdmin{err: cause}

	err := provision.NewDirective(admin).Run(context.Background(), provision.Principal{
		UserName: "movieapp",
		Database: "movies",
	})

	require.Error(t, err)
	assert.Len(t, admin.requests, 1, "no retry on failure")
	assert.ErrorIs(t, err, provision.ErrRejected)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, provision.ReasonUnauthorized, provision.ReasonOf(err))

	var rejected *provision.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "movieapp", rejected.User)
	assert.Equal(t, "movies", rejected.Database)
	assert.Contains(t, err.Error(), `"movieapp"`)
}

func TestRunUnclassifiedCause(t *testing.T) {
	admin := &recordingAdmin{err: errors.New("connection reset")}

	err := provision.NewDirective(admin).Run(context.Background(), provision.Principal{UserName: "u"})

	assert.ErrorIs(t, err, provision.ErrRejected)
	assert.Equal(t, provision.ReasonUnknown, provision.ReasonOf(err))
}

func TestRunIsNotIdempotent(t *testing.T) {
	catalog := memadmin.New("movies")
	d := provision.NewDirective(catalog)
	p := provision.Principal{UserName: "movieapp", Password: "s3cret", Database: "movies"}

	require.NoError(t, d.Run(context.Background(), p))

	err := d.Run(context.Background(), p)
	require.Error(t, err, "second run with identical inputs must fail")
	assert.ErrorIs(t, err, provision.ErrRejected)
	assert.Equal(t, provision.ReasonDuplicate, provision.ReasonOf(err))
	assert.Contains(t, err.Error(), "already exists")

	assert.Equal(t, 2, catalog.Calls(), "both runs reach the session")
	assert.Len(t, catalog.Users(), 1)
}

func TestRunCreatesSingleGrant(t *testing.T) {
	catalog := memadmin.New("movies")

	require.NoError(t, provision.NewDirective(catalog).Run(context.Background(), provision.Principal{
		UserName: "movieapp",
		Password: "s3cret",
		Database: "movies",
	}))

	u, ok := catalog.Lookup("movieapp")
	require.True(t, ok)
	assert.Equal(t, "s3cret", u.Password)
	assert.Equal(t, []provision.Role{{Role: provision.RoleReadWrite, DB: "movies"}}, u.Roles)
}

func TestReasonOfPlainError(t *testing.T) {
	assert.Equal(t, provision.ReasonUnknown, provision.ReasonOf(nil))
	assert.Equal(t, provision.ReasonUnknown, provision.ReasonOf(errors.New("x")))
	assert.Equal(t, provision.ReasonInvalid, provision.ReasonOf(classified{reason: provision.ReasonInvalid}))
}
