package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.GenerateToken("CUST-001", "customer")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	other := NewIssuer("other", time.Hour)

	token, err := other.GenerateToken("ADMIN-001", "admin")
	require.NoError(t, err)
	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := NewIssuer("secret", time.Minute)
	past.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err = past.GenerateToken("CUST-001", "customer")
	require.NoError(t, err)
	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOptionalIdentity(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.GenerateToken("CUST-007", "customer")
	require.NoError(t, err)

	var seen string
	h := issuer.OptionalIdentity(func(w http.ResponseWriter, r *http.Request) {
		seen = ""
		if claims, ok := FromContext(r.Context()); ok {
			seen = claims.UserID
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h(httptest.NewRecorder(), req)
	assert.Equal(t, "CUST-007", seen)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h(httptest.NewRecorder(), req)
	assert.Empty(t, seen)

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Empty(t, seen)
}
