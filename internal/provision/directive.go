package provision

import "context"

// Admin is an authenticated administrative session able to create users.
type Admin interface {
	CreateUser(ctx context.Context, req Request) error
}

// Directive submits one createUser request per Run.
type Directive struct {
	admin Admin
}

// NewDirective returns a Directive bound to the given session.
func NewDirective(admin Admin) *Directive {
	return &Directive{admin: admin}
}

// Run builds the request for p and submits it exactly once.
// There is no existence check and no retry; any session error comes back as a *RejectedError.
func (d *Directive) Run(ctx context.Context, p Principal) error {
	req := BuildRequest(p)
	if err := d.admin.CreateUser(ctx, req); err != nil {
		return &RejectedError{User: req.User, Database: req.Database(), Cause: err}
	}
	return nil
}
