package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal attached to HTTP requests and
// websocket sessions.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity may use the admin surface.
func (i Identity) IsAdmin() bool { return i.Role == "admin" }

type ctxKey int

const identityKey ctxKey = 1

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// From extracts the identity from the context; zero value if unauthenticated
func From(ctx context.Context) Identity {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}
	}
	return v.(Identity)
}

// JWT wraps a signing secret for issuing/verifying tokens
type JWT struct{ secret []byte }

// New creates a new JWT signer/verifier.
func New(secret string) *JWT { return &JWT{secret: []byte(secret)} }

// Sign creates a token for the identity with the given TTL
func (j *JWT) Sign(id Identity, ttl time.Duration) (string, error) {
	if id.Username == "" {
		return "", errors.New("empty username")
	}
	claims := jwt.MapClaims{
		"sub":  id.Username,
		"role": id.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(j.secret)
}

// Verify checks a token and returns the identity it carries
func (j *JWT) Verify(tok string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, err
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return Identity{}, errors.New("no sub")
	}
	role, _ := claims["role"].(string)
	return Identity{Username: username, Role: role}, nil
}
