package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Session is the verified state carried by a session token: the provider
// access token and the stable identity derived from it. The identity, not the
// raw token, keys all cache entries.
type Session struct {
	Identity    string
	AccessToken string
}

// Manager signs and verifies session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager with a 30-day token lifetime
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), ttl: 30 * 24 * time.Hour}
}

// Identity derives the cache identity for an access token
func Identity(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(sum[:8])
}

// Issue wraps a provider access token in a signed session token
func (m *Manager) Issue(accessToken string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": Identity(accessToken),
		"tok": accessToken,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks a session token and returns its session state
func (m *Manager) Verify(raw string) (*Session, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session claims")
	}

	token, _ := claims["tok"].(string)
	identity, _ := claims["sub"].(string)
	if token == "" || identity == "" {
		return nil, fmt.Errorf("session token missing claims")
	}

	return &Session{Identity: identity, AccessToken: token}, nil
}
