package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	token, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTRejectsOtherSecretAndExpiry(t *testing.T) {
	token, err := NewJWTManager("secret", time.Minute).GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Minute).ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken("user-1")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Minute).ParseAndValidate(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTRequiresSubject(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	token, err := m.GenerateAccessToken("")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenNoSubject)
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Minute)

	r := gin.New()
	r.GET("/whoami", AuthRequired(m), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	token, err := m.GenerateAccessToken("user-42")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "user-42", w.Body.String())
			}
		})
	}
}
