package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail verification
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by an access token. The JWT ID doubles as the id of the
// server-side session row, so deleting that row revokes the token.
type Claims struct {
	ProfileID int64  `json:"pid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 access tokens
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a token signer with the given secret
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// NewSessionID creates a new UUID for session identification
func NewSessionID() string {
	return uuid.New().String()
}

// Sign issues a token for a profile, tied to a session id
func (s *TokenSigner) Sign(sessionID string, profileID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ProfileID: profileID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a token and returns its claims
func (s *TokenSigner) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
