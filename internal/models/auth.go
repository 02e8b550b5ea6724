package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload issued by the external identity
// provider. This service only validates tokens; it never mints them.
type JWTClaims struct {
	UserID         string   `json:"user_id"`
	Role           UserRole `json:"role"`
	FullName       string   `json:"full_name"`
	MunicipalityID string   `json:"municipality_id,omitempty"`
	jwt.RegisteredClaims
}
