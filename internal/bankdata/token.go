package bankdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/models"
)

// TokenLifetime is how long an access token is used before it is refreshed.
const TokenLifetime = 24 * time.Hour

type tokenState struct {
	access  string
	refresh string
	expiry  time.Time
}

// TokenManager holds the access token for the API and renews it when it
// has expired.
//
// It is safe for concurrent use. Concurrent renewals are not coordinated,
// the last one to finish replaces the cached token.
type TokenManager struct {
	secretID  string
	secretKey string
	api       *api
	state     atomic.Pointer[tokenState]

	Now func() time.Time
}

func NewTokenManager(secretID, secretKey string, baseURL string, client *http.Client) *TokenManager {
	return &TokenManager{
		secretID:  secretID,
		secretKey: secretKey,
		api:       &api{baseURL: baseURL, client: client},
		Now:       time.Now,
	}
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessToken returns a valid access token.
//
// While the cached token has not expired it is returned without a request.
// After it has expired, the refresh token is exchanged for a new access
// token. If there is no refresh token or the refresh is rejected, a new
// token pair is requested with the secrets.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if m.secretID == "" || m.secretKey == "" {
		return "", fmt.Errorf("%w: GOCARDLESS_SECRET_ID and GOCARDLESS_SECRET_KEY must be set", models.ErrConfiguration)
	}

	now := m.Now()
	state := m.state.Load()
	if state != nil && state.access != "" && now.Before(state.expiry) {
		return state.access, nil
	}

	if state != nil && state.refresh != "" {
		var pair tokenPair
		err := m.api.do(ctx, http.MethodPost, "/token/refresh/", "", map[string]string{"refresh": state.refresh}, &pair)
		if err == nil {
			m.state.Store(&tokenState{access: pair.Access, refresh: state.refresh, expiry: now.Add(TokenLifetime)})
			return pair.Access, nil
		}

		if !errors.Is(err, errRejected) {
			return "", err
		}
		log.Warn().Str("component", "bankdata").Err(err).Msg("Refresh token rejected, requesting a new token pair")
	}

	var pair tokenPair
	err := m.api.do(ctx, http.MethodPost, "/token/new/", "", map[string]string{"secret_id": m.secretID, "secret_key": m.secretKey}, &pair)
	if err != nil {
		return "", err
	}

	m.state.Store(&tokenState{access: pair.Access, refresh: pair.Refresh, expiry: now.Add(TokenLifetime)})
	return pair.Access, nil
}
