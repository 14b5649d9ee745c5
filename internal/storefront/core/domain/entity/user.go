package entity

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the roles the API knows about.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RoleSet is the set of roles allowed to perform an operation.
type RoleSet map[Role]struct{}

func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

type User struct {
	ID       int64
	Email    string
	Password string
	Role     Role
}

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	SubjectID int64
	Role      Role
}
