package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arenarium/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": 5,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func protected(roles ...models.StaffRole) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-User", strconv.Itoa(id))
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(testSecret)(RequireRole(roles...)(final))
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	h := protected(models.RoleAdmin, models.RoleEditor)

	cases := []struct {
		name  string
		token string
		code  int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("admin")), http.StatusUnauthorized},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("admin")), http.StatusUnauthorized},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"user_id": 5, "role": "admin", "exp": time.Now().Add(-time.Minute).Unix(),
		}), http.StatusUnauthorized},
		{"admin", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("admin")), http.StatusOK},
		{"editor", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("editor")), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tc.token))
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "5", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	adminOnly := protected(models.RoleAdmin)

	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, request(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("editor"))))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// неизвестная роль в токене: это не пользователь системы
	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, request(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("player"))))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDFromContextWithoutClaims(t *testing.T) {
	_, err := GetUserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.Error(t, err)

	_, err = GetUserRoleFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.Error(t, err)
}
