package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork/taskboard/dao/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokenManager("test-secret", 1, 24)

	msg := &JWTMessage{UserID: 12, Username: "alice", Role: model.RoleManager}
	access, refresh, err := tm.CreateTokens(msg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	got, err := tm.CheckToken(access)
	require.NoError(t, err)
	assert.Equal(t, *msg, got)

	got, err = tm.CheckToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, *msg, got)
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	tm := newTokenManager("test-secret", 1, 24)
	other := newTokenManager("other-secret", 1, 24)

	msg := &JWTMessage{UserID: 12, Username: "alice", Role: model.RoleDeveloper}
	access, _, err := tm.CreateTokens(msg)
	require.NoError(t, err)

	_, err = other.CheckToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsExpired(t *testing.T) {
	tm := newTokenManager("test-secret", -1, -1)

	msg := &JWTMessage{UserID: 12, Username: "alice", Role: model.RoleDeveloper}
	access, _, err := tm.CreateTokens(msg)
	require.NoError(t, err)

	_, err = tm.CheckToken(access)
	assert.Error(t, err)
}
