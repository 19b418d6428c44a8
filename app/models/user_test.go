package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordAndCheck(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("hunter2-plus"))

	assert.NotEqual(t, "hunter2-plus", u.Password, "password must be stored hashed")
	assert.True(t, u.CheckPassword("hunter2-plus"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestIssueAPIKey(t *testing.T) {
	u := &User{}
	raw, err := u.IssueAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, "mp_"))
	assert.Equal(t, HashAPIKey(raw), u.APIKeyHash)
	assert.NotContains(t, u.APIKeyHash, raw, "raw key is never persisted")
	assert.Nil(t, u.APIKeyLastUsedAt)

	// Reissuing invalidates the previous key.
	second, err := u.IssueAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, raw, second)
	assert.Equal(t, HashAPIKey(second), u.APIKeyHash)
	assert.NotEqual(t, HashAPIKey(raw), u.APIKeyHash)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("mp_abc"), HashAPIKey("  mp_abc \n"))
}

func TestUserValidate(t *testing.T) {
	u := &User{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret-pass",
		Role:     RoleStaff,
	}
	require.NoError(t, u.Validate())

	u.Role = "superuser"
	assert.Error(t, u.Validate())

	u.Role = RoleOwner
	u.Email = "not-an-email"
	assert.Error(t, u.Validate())
}
