package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, platformerrors.RequestIDFromContext(c.Request.Context()))
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Body.String() != "req-42" {
			t.Errorf("context request id = %q, want req-42", w.Body.String())
		}
		if got := w.Header().Get(RequestIDHeader); got != "req-42" {
			t.Errorf("response header = %q, want req-42", got)
		}
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Body.String() == "" || w.Body.String() != w.Header().Get(RequestIDHeader) {
			t.Errorf("generated id mismatch: body %q header %q", w.Body.String(), w.Header().Get(RequestIDHeader))
		}
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery(zerolog.Nop()), Metrics(), RequestLogger(zerolog.Nop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body platformerrors.HTTPErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == nil || body.Error.RequestID != "req-7" {
		t.Errorf("error body = %+v, want request id req-7", body.Error)
	}
}
