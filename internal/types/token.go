package types

import "github.com/google/uuid"

// TokenClaims holds the identity carried by a JWT.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
