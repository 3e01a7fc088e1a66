package trakt

import (
	"context"
	"fmt"
	"time"

	"premiere/internal/apperr"
	"premiere/internal/store"
	"premiere/internal/util"

	"github.com/spf13/afero"
)

type TokenState int

const (
	StateValid TokenState = iota
	StateExpired
	StateRefreshed
	StateRefreshFailed
)

func (s TokenState) String() string {
	switch s {
	case StateValid:
		return "VALID"
	case StateExpired:
		return "EXPIRED"
	case StateRefreshed:
		return "REFRESHED"
	case StateRefreshFailed:
		return "REFRESH_FAILED"
	default:
		return fmt.Sprintf("TokenState(%d)", int(s))
	}
}

// Refresher owns the token file. It reads it once per Authorize call and
// writes it only after a successful refresh.
type Refresher struct {
	client *Client
	fs     afero.Fs
	path   string
	now    func() time.Time
}

func NewRefresher(client *Client, fs afero.Fs, tokenPath string) *Refresher {
	return &Refresher{client: client, fs: fs, path: tokenPath, now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Authorize returns the Trakt header bundle, refreshing the token first when
// it has expired. The returned state is terminal: VALID, REFRESHED or
// REFRESH_FAILED.
func (r *Refresher) Authorize(ctx context.Context) (map[string]string, TokenState, error) {
	logger := r.client.GetLogger()

	tok, err := store.LoadToken(r.fs, r.path)
	if err != nil {
		return nil, StateRefreshFailed, err
	}

	now := r.now().Unix()
	if !tok.Expired(now) {
		logger.Printf("  %s Using existing access token.", util.Cyan("[TRAKT]"))
		return r.client.Headers(tok.AccessToken), StateValid, nil
	}

	logger.Printf("  %s Access token expired. Refreshing...", util.Yellow("[TRAKT]"))
	if tok.RefreshToken == "" {
		return nil, StateRefreshFailed, fmt.Errorf("%w: token has no refresh_token", apperr.ErrToken)
	}

	payload, err := r.client.RefreshToken(ctx, tok.RefreshToken)
	if err != nil {
		return nil, StateRefreshFailed, err
	}
	expiresIn, err := store.Int64Field(payload, "expires_in")
	if err != nil {
		return nil, StateRefreshFailed, fmt.Errorf("%w: %w", apperr.ErrToken, err)
	}

	tok.Merge(payload, now+expiresIn)
	if err := tok.Save(r.fs, r.path); err != nil {
		return nil, StateRefreshFailed, err
	}
	logger.Printf("  %s Access token refreshed successfully. Saved.", util.Green("[TRAKT]"))
	return r.client.Headers(tok.AccessToken), StateRefreshed, nil
}
