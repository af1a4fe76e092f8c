package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const shopOrigin = "https://tienda.example"

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/v1/cart", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCORS_AllowOrigin(t *testing.T) {
	prod := CORSConfig{
		AllowedOrigins: []string{shopOrigin, "https://admin.tienda.example"},
		Environment:    "production",
	}

	tests := []struct {
		name      string
		cfg       CORSConfig
		origin    string
		wantAllow string
		wantVary  string
	}{
		{"development allows any origin", DefaultCORSConfig(), "https://other.example", "*", ""},
		{"development without origin", DefaultCORSConfig(), "", "*", ""},
		{"production listed origin", prod, shopOrigin, shopOrigin, "Origin"},
		{"production second listed origin", prod, "https://admin.tienda.example", "https://admin.tienda.example", "Origin"},
		{"production unknown origin", prod, "https://evil.example", "", ""},
		{"production without origin", prod, "", "", ""},
		{
			"production wildcard entry",
			CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"},
			"https://other.example", "*", "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveCORS(tt.cfg, http.MethodGet, tt.origin)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, rr.Header().Get("Vary"))
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	rr := serveCORS(DefaultCORSConfig(), http.MethodOptions, shopOrigin)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_DefaultsFillEmptyConfig(t *testing.T) {
	rr := serveCORS(CORSConfig{AllowedOrigins: []string{shopOrigin}}, http.MethodGet, shopOrigin)

	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID, X-Session-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_CustomHeadersAndCredentials(t *testing.T) {
	rr := serveCORS(CORSConfig{
		AllowedOrigins:   []string{shopOrigin},
		AllowedHeaders:   []string{"Accept", SessionIDHeader, "X-Custom"},
		ExposedHeaders:   []string{SessionIDHeader},
		MaxAge:           7200,
		AllowCredentials: true,
	}, http.MethodGet, shopOrigin)

	assert.Equal(t, "Accept, X-Session-ID, X-Custom", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Session-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "7200", rr.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDefaultCORSConfig_ExposesSessionHeader(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 3600, cfg.MaxAge)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{CorrelationIDHeader, SessionIDHeader}, cfg.ExposedHeaders)
	assert.Contains(t, cfg.AllowedHeaders, SessionIDHeader)
}
