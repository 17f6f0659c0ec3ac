package domain

import "time"

const RoleAdmin = "admin"

// Identity is the subject carried by a bearer credential.
type Identity struct {
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Credential struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}
