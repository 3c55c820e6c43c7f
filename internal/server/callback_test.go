package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/charmbracelet/log"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("captures the authorization code", func(t *testing.T) {
		handler := NewCallbackHandler("state-1")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=auth-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Code != "auth-code" {
			t.Errorf("expected code 'auth-code', got %q", result.Code)
		}
	})

	t.Run("rejects a mismatched state", func(t *testing.T) {
		handler := NewCallbackHandler("state-1")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=auth-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error for forged state")
		}
	})

	t.Run("reports provider-denied authorization", func(t *testing.T) {
		handler := NewCallbackHandler("state-1")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-1&error=access_denied&error_description=denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error when the provider denies authorization")
		}
	})

	t.Run("second hit is rejected", func(t *testing.T) {
		handler := NewCallbackHandler("state-1")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=auth-code", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=other-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Code != "auth-code" {
			t.Errorf("expected first code to win, got %q", result.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("enforces method on Handle", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in order", func(t *testing.T) {
		var order []string

		router := NewBasicRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "first")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "second")
				next.ServeHTTP(w, r)
			})
		})

		router.Handler(NewCallbackHandler("state"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state&code=c", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("request logger records the handled request", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := shared.NewLogger(buf)
		logger.SetLevel(log.DebugLevel)

		router := NewBasicRouter()
		router.Use(RequestLogger(logger))
		router.Handler(NewCallbackHandler("state"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state&code=c", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "/callback") {
			t.Errorf("expected request path in log output, got %q", buf.String())
		}
	})
}
