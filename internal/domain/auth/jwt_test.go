package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/core/session"
)

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, err := svc.IssueToken(&session.Session{
		UserID:      "u-1",
		UserName:    "somchai",
		CompanyCode: "C01",
		Permissions: []string{"po:write"},
	}, time.Minute)
	require.NoError(t, err)

	sess, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "somchai", sess.UserName)
	assert.Equal(t, "C01", sess.CompanyCode)
	assert.Equal(t, []string{"po:write"}, sess.Permissions)
	assert.Equal(t, token, sess.AccessToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	validator := NewJWTService(DefaultJWTConfig("secret-b"))

	token, err := issuer.IssueToken(&session.Session{UserID: "u-1"}, time.Minute)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, err := svc.IssueToken(&session.Session{UserID: "u-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
