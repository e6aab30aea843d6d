package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := New("test-secret")

	tok, err := j.Sign(Identity{Username: "alice", Role: "student"}, time.Hour)
	require.NoError(t, err)

	got, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "student", got.Role)
	assert.False(t, got.IsAdmin())
}

func TestJWT_AdminRole(t *testing.T) {
	j := New("test-secret")

	tok, err := j.Sign(Identity{Username: "root", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	got, err := j.Verify(tok)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestJWT_Rejects(t *testing.T) {
	j := New("test-secret")
	expired, err := j.Sign(Identity{Username: "alice"}, -time.Hour)
	require.NoError(t, err)
	foreign, err := New("other-secret").Sign(Identity{Username: "alice"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired},
		{"wrong secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.tok)
			assert.Error(t, err)
		})
	}
}

func TestJWT_SignRequiresUsername(t *testing.T) {
	j := New("test-secret")
	_, err := j.Sign(Identity{}, time.Hour)
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Identity{}, From(ctx))

	ctx = WithIdentity(ctx, Identity{Username: "alice", Role: "admin"})
	assert.Equal(t, Identity{Username: "alice", Role: "admin"}, From(ctx))
}
