package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func newTestRouter(v *Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", v.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, TenantID(c))
	})
	return router
}

func TestMiddleware_Disabled(t *testing.T) {
	router := newTestRouter(&Validator{tenantClaim: "tenant_id", log: zerolog.Nop()})

	tests := []struct {
		name       string
		tenant     string
		wantStatus int
		wantBody   string
	}{
		{name: "tenant header", tenant: "shop-1", wantStatus: http.StatusOK, wantBody: "shop-1"},
		{name: "missing header", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.tenant != "" {
				req.Header.Set(TenantHeader, tt.tenant)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMiddleware_Enabled(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	v := &Validator{
		enabled:     true,
		issuer:      "https://auth.example.com",
		audience:    "commerce-api",
		tenantClaim: "tenant_id",
		keyfunc:     func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		log:         zerolog.Nop(),
	}
	router := newTestRouter(v)

	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}
		return token
	}
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss":       "https://auth.example.com",
			"aud":       []string{"commerce-api"},
			"exp":       time.Now().Add(time.Hour).Unix(),
			"tenant_id": "shop-1",
		}
	}

	tests := []struct {
		name       string
		header     string
		mutate     func(jwt.MapClaims)
		wantStatus int
	}{
		{name: "valid token", wantStatus: http.StatusOK},
		{name: "missing token", header: "-", wantStatus: http.StatusUnauthorized},
		{name: "wrong issuer", mutate: func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" }, wantStatus: http.StatusUnauthorized},
		{name: "wrong audience", mutate: func(c jwt.MapClaims) { c["aud"] = "other" }, wantStatus: http.StatusUnauthorized},
		{name: "expired", mutate: func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }, wantStatus: http.StatusUnauthorized},
		{name: "no tenant claim", mutate: func(c jwt.MapClaims) { delete(c, "tenant_id") }, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := base()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "-" {
				req.Header.Set("Authorization", "Bearer "+sign(claims))
			}
			req.Header.Set(TenantHeader, "ignored")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != "shop-1" {
				t.Errorf("tenant = %q, want shop-1", w.Body.String())
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearerabc":    "",
	}
	for header, want := range tests {
		if got := bearerToken(header); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
