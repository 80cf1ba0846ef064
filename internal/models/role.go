package models

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Role is a project membership role. Roles form a total order: viewer < member < admin < owner.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Rank returns the position of r in the role order. It panics on a role outside the
// enumeration: such a value can only come from a bug, never from validated input.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		panic(fmt.Sprintf("models: unknown role %q", string(r)))
	}
	return rank
}

// Satisfies reports whether r is at least required.
func (r Role) Satisfies(required Role) bool {
	return r.Rank() >= required.Rank()
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// ParseRole converts caller input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errors.Errorf("unknown role %q", s)
	}
	return r, nil
}
