package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/auth"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	expired := auth.NewJWTManager("test-secret", -time.Minute)

	valid, err := jwtManager.Generate(domain.Identity{ID: "alice@example.com", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stale, err := expired.Generate(domain.Identity{ID: "alice@example.com", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantReason string
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantReason: "missing"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantReason: "malformed"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantReason: "invalid"},
		{name: "expired token", header: "Bearer " + stale, wantStatus: http.StatusUnauthorized, wantReason: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			mw := NewAuthMiddleware(jwtManager, m)

			var got domain.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = IdentityFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/accounts/100000000000", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			mw.Wrap(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}

			if tt.wantStatus == http.StatusOK {
				if got.Email != "alice@example.com" {
					t.Fatalf("expected identity in context, got %+v", got)
				}
				return
			}

			var body dto.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.ErrorCode != "UN_AUTHORIZED" {
				t.Fatalf("expected UN_AUTHORIZED, got %q", body.ErrorCode)
			}
			if v := testutil.ToFloat64(m.AuthFailures.WithLabelValues(tt.wantReason)); v != 1 {
				t.Fatalf("expected one %s failure, got %v", tt.wantReason, v)
			}
		})
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Fatalf("expected no identity on a bare request")
	}
}
