package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

// AuthService validates access tokens issued by the municipal identity
// provider. Tokens are minted elsewhere; this side only verifies signature
// and registered claims.
type AuthService struct {
	cfg config.JWTConfig
}

// NewAuthService constructs the validator.
func NewAuthService(cfg config.JWTConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// ValidateToken parses and verifies one bearer token.
func (s *AuthService) ValidateToken(token string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	for _, aud := range s.cfg.Audience {
		opts = append(opts, jwt.WithAudience(aud))
	}

	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no subject")
	}
	return claims, nil
}
