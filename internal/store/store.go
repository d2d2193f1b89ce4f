package store

import (
	"errors"
	"time"
)

// ErrTokenNotFound is returned when no usable cached token exists.
var ErrTokenNotFound = errors.New("token not found")

// Store is the persistence interface for graphdesk.
type Store interface {
	// Graph access tokens
	PutToken(t *TokenRecord) error
	GetToken(key string) (*TokenRecord, error)

	// Maintenance
	Cleanup() error
	Close() error
}

// TokenRecord is a cached Microsoft Graph access token. Key identifies
// the tenant/client/scope combination the token was issued for.
type TokenRecord struct {
	Key         string
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
