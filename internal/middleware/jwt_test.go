package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
)

const testSecret = "middleware-test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func runProtected(t *testing.T, authorization string) (*httptest.ResponseRecorder, auth.Claims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen auth.Claims
	next := func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		seen = claims
		return c.NoContent(http.StatusOK)
	}
	handler := BearerAuth(auth.NewTokenService(testSecret))(next)
	require.NoError(t, handler(c))
	return rec, seen
}

func TestBearerAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":         "alice",
		"id":          42,
		"is_customer": true,
		"exp":         time.Now().UTC().Add(time.Hour).Unix(),
	})

	rec, claims := runProtected(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.IsCustomer)
}

func TestBearerAuth_Failures(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "no header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Authentication required",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc123",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Authentication required",
		},
		{
			name: "expired token",
			header: "Bearer " + signedToken(t, jwt.MapClaims{
				"sub": "alice", "id": 42,
				"exp": time.Now().UTC().Add(-time.Minute).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Token expired!",
		},
		{
			name: "malformed expiry",
			header: "Bearer " + signedToken(t, jwt.MapClaims{
				"sub": "alice", "id": 42, "exp": "soon",
			}),
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid token format",
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Could not validate user",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runProtected(t, tt.header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
		})
	}
}
