package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/kolapsis/graphdesk/internal/store"
)

// refreshMargin is subtracted from token expiry so a token is never
// used in the final stretch of its lifetime.
const refreshMargin = 2 * time.Minute

// TokenCache persists acquired tokens across restarts.
// Defined consumer-side; satisfied by store.SQLiteStore.
type TokenCache interface {
	PutToken(t *store.TokenRecord) error
	GetToken(key string) (*store.TokenRecord, error)
}

// CredentialTokenSource acquires Graph access tokens with the OAuth2
// client-credentials flow and caches them in memory and, optionally,
// in a persistent TokenCache.
type CredentialTokenSource struct {
	cred     azcore.TokenCredential
	scopes   []string
	cacheKey string
	cache    TokenCache

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewCredentialTokenSource builds a token source for the given Azure AD
// application. cache may be nil to disable persistent caching.
func NewCredentialTokenSource(tenantID, clientID, clientSecret string, scopes []string, cache TokenCache) (*CredentialTokenSource, error) {
	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("building client credential: %w", err)
	}

	return &CredentialTokenSource{
		cred:     cred,
		scopes:   scopes,
		cacheKey: tenantID + "/" + clientID + "/" + strings.Join(scopes, " "),
		cache:    cache,
	}, nil
}

// Token returns a valid access token, acquiring a fresh one only when
// neither the in-memory copy nor the persistent cache has one.
func (ts *CredentialTokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	if ts.token != "" && now.Before(ts.expires.Add(-refreshMargin)) {
		return ts.token, nil
	}

	if ts.cache != nil {
		rec, err := ts.cache.GetToken(ts.cacheKey)
		if err == nil && now.Before(rec.ExpiresAt.Add(-refreshMargin)) {
			ts.token = rec.AccessToken
			ts.expires = rec.ExpiresAt
			return ts.token, nil
		}
		if err != nil && !errors.Is(err, store.ErrTokenNotFound) {
			slog.Warn("token cache read failed", "error", err)
		}
	}

	at, err := ts.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: ts.scopes})
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}

	ts.token = at.Token
	ts.expires = at.ExpiresOn

	if ts.cache != nil {
		err := ts.cache.PutToken(&store.TokenRecord{
			Key:         ts.cacheKey,
			AccessToken: at.Token,
			ExpiresAt:   at.ExpiresOn,
		})
		if err != nil {
			slog.Warn("token cache write failed", "error", err)
		}
	}

	slog.Debug("acquired graph access token", "expires", at.ExpiresOn)
	return ts.token, nil
}

// StaticTokenSource returns the same token for every request. Useful in
// tests and for delegated tokens supplied by the environment.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}
