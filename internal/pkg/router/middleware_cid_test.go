package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
)

type fixedCID string

func (f fixedCID) Generate() string { return string(f) }

func TestInboundCID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "none"},
		{name: "correlation id", headers: map[string]string{HeaderCorrelationID: " abc "}, want: "abc"},
		{name: "request id fallback", headers: map[string]string{HeaderRequestID: "req-1"}, want: "req-1"},
		{
			name:    "control chars skipped",
			headers: map[string]string{HeaderCorrelationID: "a\x00b", HeaderRequestID: "req-2"},
			want:    "req-2",
		},
		{name: "capped", headers: map[string]string{HeaderCorrelationID: strings.Repeat("x", 200)}, want: strings.Repeat("x", maxCIDLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, inboundCID(h))
		})
	}
}

func TestMiddlewareCorrelationID(t *testing.T) {
	var seen string
	h := middlewareCorrelationID(fixedCID("gen-1"))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = instrument.GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "gen-1", seen)
	assert.Equal(t, "gen-1", rec.Header().Get(HeaderCorrelationID))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "from-proxy")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "from-proxy", seen)
}
