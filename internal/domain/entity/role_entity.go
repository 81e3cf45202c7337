package entity

// Role is the closed set of authorization roles. The role string is
// validated once at the API boundary and carried typed from there on.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a raw string onto a Role, reporting whether it is one of
// the recognized values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string { return string(r) }
