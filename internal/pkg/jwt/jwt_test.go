package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, "guest@hotel.at", "GUEST")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "guest@hotel.at", claims.Email)
	assert.Equal(t, "GUEST", claims.Role)
}

func TestService_RejectsForeignSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(1, "a@b.at", "ADMIN")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsExpired(t *testing.T) {
	svc := New("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateToken(1, "a@b.at", "GUEST")
	require.NoError(t, err)

	_, err = New("secret", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
