package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Session token kinds.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

// TokenManager issues and validates session and one-time JWTs. Access,
// refresh and one-time tokens each use their own secret.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	actionSecret  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		actionSecret:  []byte(cfg.ActionSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Claims is the session token payload.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// ActionClaims is the payload of a one-time token. TokenID is the key of the
// persisted record.
type ActionClaims struct {
	Email   string              `json:"email"`
	TokenID string              `json:"token_id"`
	Purpose domain.TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionTokens is the pair returned on login.
type SessionTokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// IssueSession signs an access and a refresh token for the user.
func (tm *TokenManager) IssueSession(userID, email string) (SessionTokens, error) {
	access, accessExp, err := tm.IssueAccess(userID, email)
	if err != nil {
		return SessionTokens{}, err
	}
	refresh, refreshExp, err := tm.IssueRefresh(userID, email)
	if err != nil {
		return SessionTokens{}, err
	}
	return SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// IssueAccess signs a short-lived access token.
func (tm *TokenManager) IssueAccess(userID, email string) (string, time.Time, error) {
	return tm.issueSession(KindAccess, userID, email, tm.accessTTL, tm.accessSecret)
}

// IssueRefresh signs a refresh token.
func (tm *TokenManager) IssueRefresh(userID, email string) (string, time.Time, error) {
	return tm.issueSession(KindRefresh, userID, email, tm.refreshTTL, tm.refreshSecret)
}

// ParseAccess validates an access token.
func (tm *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	return tm.parseSession(tokenStr, KindAccess, tm.accessSecret)
}

// ParseRefresh validates a refresh token.
func (tm *TokenManager) ParseRefresh(tokenStr string) (*Claims, error) {
	return tm.parseSession(tokenStr, KindRefresh, tm.refreshSecret)
}

// IssueOneTime signs a token bound to purpose and email, returning the
// signed string and the generated token id.
func (tm *TokenManager) IssueOneTime(purpose domain.TokenPurpose, email string, ttl time.Duration) (string, string, error) {
	now := tm.now()
	tokenID := uuid.NewString()
	claims := &ActionClaims{
		Email:   email,
		TokenID: tokenID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.actionSecret)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

// ParseOneTime validates signature, expiry and purpose of a one-time token.
func (tm *TokenManager) ParseOneTime(purpose domain.TokenPurpose, tokenStr string) (*ActionClaims, error) {
	claims := &ActionClaims{}
	if err := tm.parse(tokenStr, claims, tm.actionSecret); err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if claims.TokenID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) issueSession(kind, userID, email string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (tm *TokenManager) parseSession(tokenStr, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	if err := tm.parse(tokenStr, claims, secret); err != nil {
		return nil, err
	}
	if claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
