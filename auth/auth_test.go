package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/reviewclient/auth"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestNewTokenSource(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{"sub": "user1", "exp": exp.Unix()})

	ts, err := auth.NewTokenSource(token)
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, token, tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.Equal(exp))
}

func TestNewTokenSource_NoExpiry(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user1"})

	ts, err := auth.NewTokenSource(token)
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.True(t, tok.Expiry.IsZero())
}

func TestNewTokenSource_Expired(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user1", "exp": time.Now().Add(-time.Minute).Unix()})

	ts, err := auth.NewTokenSource(token)
	require.NoError(t, err)

	_, err = ts.Token()
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
}

func TestNewTokenSource_Invalid(t *testing.T) {
	_, err := auth.NewTokenSource("")
	assert.ErrorIs(t, err, auth.ErrNoToken)

	_, err = auth.NewTokenSource("not-a-jwt")
	assert.Error(t, err)
}

func TestNewHTTPClient_AttachesBearer(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user1", "exp": time.Now().Add(time.Hour).Unix()})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := auth.NewHTTPClient(context.Background(), token, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
