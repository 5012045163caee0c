/*
Package user contains the core data structures for user identity and authorization.

It defines the User view returned to clients and the closed Role enumeration
used for authorization decisions throughout the server.
*/
package user

import "fmt"

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	// RoleAdmin may manage channels and assign roles.
	RoleAdmin Role = "admin"

	// RoleMember is the default role assigned at signup.
	RoleMember Role = "member"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CanAdminister is the single authorization predicate for admin-only
// operations: channel create/delete and role assignment.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// User is the client-facing representation of an account. The password hash
// never leaves the persistence layer through this struct.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Username is the unique display and login name.
	Username string `json:"username"`

	// Role is the user's authorization role.
	Role Role `json:"role"`

	// AvatarURL is a presigned download URL for the user's avatar, if any.
	AvatarURL string `json:"avatarUrl,omitempty"`
}
