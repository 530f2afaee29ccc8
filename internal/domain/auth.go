package domain

import "time"

// TokenPurpose scopes a one-time token to a single action.
type TokenPurpose string

const (
	TokenPurposeVerify TokenPurpose = "verify"
	TokenPurposeReset  TokenPurpose = "reset"
)

// ActionToken is a persisted one-time token. TokenID is the unique claim
// embedded in the signed token so the record can be found and consumed.
type ActionToken struct {
	ID        string
	Token     string
	Email     string
	TokenID   string
	Purpose   TokenPurpose
	IsUsed    bool
	CreatedAt time.Time
}
