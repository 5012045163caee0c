package jwt

import (
	"github.com/golang-jwt/jwt"

	"murmur/internal/app/user"
)

// Payload defines the JWT claims carried by Murmur bearer tokens.
// It combines the standard claims required for validity checks with the
// custom identity claims used for authorization.
type Payload struct {
	// StandardClaims embeds the standard JWT fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer).
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the user's unique identifier.
	ID string `json:"id"`

	// Username is the unique login name, used as the sender identity on
	// messages and direct-message room keys.
	Username string `json:"username"`

	// Role is the user's authorization role.
	Role user.Role `json:"role"`
}
