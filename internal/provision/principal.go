// Package provision implements the bootstrap directive that creates the MOV database user.
//
// The directive reads three values (user name, password, target database), turns them into a
// single createUser request carrying exactly one readWrite grant, and submits that request once
// to an administrative session. Building the request is a pure function so it can be inspected
// and rendered without a server. Submitting it is delegated to an Admin implementation.
//
// The directive does not validate its inputs, does not check whether the user already exists
// and does not retry. Running it twice with the same inputs against the same session fails the
// second time with whatever rejection the session reports.
package provision

// RoleReadWrite is the only capability the directive grants.
const RoleReadWrite = "readWrite"

// Principal holds the three inputs of the directive, copied verbatim from configuration.
type Principal struct {
	UserName string
	Password string
	Database string
}

// Role is a single grant: a capability scoped to one database.
type Role struct {
	Role string `json:"role" yaml:"role" bson:"role"`
	DB   string `json:"db" yaml:"db" bson:"db"`
}

// Request is the createUser request submitted to the administrative session.
type Request struct {
	User  string `json:"user" yaml:"user" bson:"user"`
	Pwd   string `json:"pwd" yaml:"pwd" bson:"pwd"`
	Roles []Role `json:"roles" yaml:"roles" bson:"roles"`
}

const redactedPassword = "********"

// BuildRequest maps the principal onto a createUser request with a single readWrite grant.
// Empty fields are passed through as-is.
func BuildRequest(p Principal) Request {
	return Request{
		User: p.UserName,
		Pwd:  p.Password,
		Roles: []Role{
			{Role: RoleReadWrite, DB: p.Database},
		},
	}
}

// Database returns the database of the request's grant, or "" if there is none.
func (r Request) Database() string {
	if len(r.Roles) == 0 {
		return ""
	}
	return r.Roles[0].DB
}

// Redacted returns a copy of the request with the password masked.
func (r Request) Redacted() Request {
	out := Request{
		User:  r.User,
		Pwd:   redactedPassword,
		Roles: make([]Role, len(r.Roles)),
	}
	copy(out.Roles, r.Roles)
	return out
}
