// Package auth issues and verifies session tokens. A token embeds an
// advisory copy of the principal; the persistent store remains the
// source of truth and callers re-fetch it after verification.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

// Claims is the token payload: registered claims plus the cached
// principal fields. The subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	UserKey string `json:"user_key"`
	IsAdmin bool   `json:"is_admin"`
}

// Service signs and verifies session tokens with a process-wide HS256
// key. The key is validated at startup (config.Validate); the service
// never falls back to a built-in default.
type Service struct {
	secretKey []byte
	validity  time.Duration
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		secretKey: []byte(cfg.TokenSecretKey),
		validity:  cfg.TokenValidityDuration,
	}
}

// Issue signs a token for the user with a server-assigned expiry.
// Tokens are not renewable; a new one is issued by re-authenticating.
func (s *Service) Issue(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.validity)),
		},
		Email:   user.Email,
		Name:    user.Name,
		UserKey: user.UserKey,
		IsAdmin: user.IsAdmin,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry and returns the advisory
// principal from the claims. Every failure mode (malformed token, bad
// signature, elapsed expiry) returns common.ErrInvalidToken so callers
// cannot distinguish them.
func (s *Service) Verify(tokenString string) (*models.User, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &models.User{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		UserKey: claims.UserKey,
		IsAdmin: claims.IsAdmin,
	}, nil
}
