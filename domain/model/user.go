package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// UserClaims are the session token claims issued by the identity provider.
// Subject carries the user id.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}

// InvitedUser is the identity provider's record for an invited account.
type InvitedUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	InvitedAt *time.Time `json:"invited_at,omitempty"`
}
