package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		AccessSecret:    "access",
		RefreshSecret:   "refresh",
		ActionSecret:    "action",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestSessionRoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	pair, err := tm.IssueSession("user-1", "ana@example.com")
	require.NoError(t, err)

	claims, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	claims, err = tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, claims.Kind)
}

func TestTokenFamiliesAreNotInterchangeable(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.IssueSession("user-1", "ana@example.com")
	require.NoError(t, err)

	_, err = tm.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	oneTime, _, err := tm.IssueOneTime(domain.TokenPurposeVerify, "ana@example.com", time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseAccess(oneTime)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOneTimeToken(t *testing.T) {
	tm := newTestTokenManager()

	signed, tokenID, err := tm.IssueOneTime(domain.TokenPurposeReset, "ana@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := tm.ParseOneTime(domain.TokenPurposeReset, signed)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, err = tm.ParseOneTime(domain.TokenPurposeVerify, signed)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestOneTimeTokenExpires(t *testing.T) {
	tm := newTestTokenManager()
	issued := time.Now()
	tm.now = func() time.Time { return issued }

	signed, _, err := tm.IssueOneTime(domain.TokenPurposeReset, "ana@example.com", time.Hour)
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tm.ParseOneTime(domain.TokenPurposeReset, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	tm := newTestTokenManager()
	_, err := tm.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
