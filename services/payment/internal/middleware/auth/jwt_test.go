package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func createJWT(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       "550e8400-e29b-41d4-a716-446655440000",
		"email":     "student@example.com",
		"role":      "student",
		"branch_id": "branch-1",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
}

func runMiddleware(t *testing.T, cfg JWTConfig, path, authHeader string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware(cfg)(handler)(c)
	require.NoError(t, err)
	return rec
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret, Logger: zap.NewNop()}
	token := createJWT(t, validClaims(), testSecret)

	rec := runMiddleware(t, cfg, "/api/v1/admissions", "Bearer "+token, func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		assert.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", user.UserID)
		assert.Equal(t, "student@example.com", user.Email)
		assert.Equal(t, "student", user.Role)
		assert.Equal(t, "branch-1", user.BranchID)
		assert.Equal(t, user.UserID, c.Get("user_id"))
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret, Logger: zap.NewNop()}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	noSubject := validClaims()
	delete(noSubject, "sub")

	tests := []struct {
		name         string
		header       string
		expectedCode string
	}{
		{"missing header", "", "MISSING_AUTH_HEADER"},
		{"not bearer", "Basic abc", "INVALID_AUTH_FORMAT"},
		{"wrong secret", "Bearer " + createJWT(t, validClaims(), "other-secret"), "INVALID_TOKEN"},
		{"expired", "Bearer " + createJWT(t, expired, testSecret), "INVALID_TOKEN"},
		{"garbage", "Bearer not.a.jwt", "INVALID_TOKEN"},
		{"no subject", "Bearer " + createJWT(t, noSubject, testSecret), "INVALID_CLAIMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			rec := runMiddleware(t, cfg, "/api/v1/admissions", tt.header, func(c echo.Context) error {
				called = true
				return nil
			})

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret, Logger: zap.NewNop(), SkipPaths: []string{"/health"}}

	rec := runMiddleware(t, cfg, "/health", "", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		user     *AuthUser
		expected int
	}{
		{"allowed role", &AuthUser{UserID: "u1", Role: "admin"}, http.StatusOK},
		{"other role", &AuthUser{UserID: "u1", Role: "student"}, http.StatusForbidden},
		{"no user", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.user != nil {
				WithUser(c, tt.user)
			}

			err := RequireRoles("admin", "accountant")(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
