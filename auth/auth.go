package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	ErrNoToken        = errors.New("token not provided")
	ErrSessionExpired = errors.New("session expired, sign in again")
)

// sessionTokenSource serves the platform session token as a bearer token.
// The token is issued and verified by the server; the client only reads its
// exp claim so expired sessions fail before a request is sent.
type sessionTokenSource struct {
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenSource wraps a session JWT. Tokens without an exp claim never expire
// client-side.
func NewTokenSource(token string) (oauth2.TokenSource, error) {
	return newTokenSource(token, time.Now)
}

func newTokenSource(token string, now func() time.Time) (*sessionTokenSource, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	expiry, err := readExpiry(token)
	if err != nil {
		return nil, err
	}

	return &sessionTokenSource{token: token, expiry: expiry, now: now}, nil
}

func readExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse session token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session token: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	if !s.expiry.IsZero() && !s.now().Before(s.expiry) {
		return nil, ErrSessionExpired
	}
	return &oauth2.Token{
		AccessToken: s.token,
		TokenType:   "Bearer",
		Expiry:      s.expiry,
	}, nil
}

// NewHTTPClient returns an *http.Client that attaches the session token to
// every request.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) (*http.Client, error) {
	ts, err := NewTokenSource(token)
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, ts))
	client.Timeout = timeout
	return client, nil
}
