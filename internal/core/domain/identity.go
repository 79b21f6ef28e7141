package domain

import "time"

// Identity is the verified content of an access token. It is never stored.
type Identity struct {
	Subject   int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}
