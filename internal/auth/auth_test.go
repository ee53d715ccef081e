package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeplog/internal"
)

func TestLocalAuthProvider_PlainToken(t *testing.T) {
	p := NewLocalAuthProvider("MOCK-TOKEN", "", internal.NopLogger())
	ctx := context.Background()
	assert.NoError(t, p.ValidateToken(ctx, "MOCK-TOKEN"))
	assert.ErrorIs(t, p.ValidateToken(ctx, "nope"), ErrInvalidToken)
	assert.ErrorIs(t, p.ValidateToken(ctx, ""), ErrInvalidToken)
}

func TestLocalAuthProvider_Hash(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)
	p := NewLocalAuthProvider("ignored", hash, internal.NopLogger())
	ctx := context.Background()
	assert.NoError(t, p.ValidateToken(ctx, "s3cret"))
	assert.ErrorIs(t, p.ValidateToken(ctx, "ignored"), ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(NewLocalAuthProvider("MOCK-TOKEN", "", internal.NopLogger())))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	cases := map[string]int{
		"":                  http.StatusUnauthorized,
		"MOCK-TOKEN":        http.StatusUnauthorized,
		"Bearer wrong":      http.StatusUnauthorized,
		"Bearer MOCK-TOKEN": http.StatusOK,
	}
	for header, want := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "header %q", header)
	}
}
