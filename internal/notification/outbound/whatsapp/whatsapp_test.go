package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/hash"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, url string, timeout time.Duration) *Gateway {
	t.Helper()
	g, err := NewGateway(Config{URL: url, Token: "tkn", Secret: "shh", Timeout: timeout},
		clock.NewFake(time.Unix(1_700_000_000, 0)), instrument.NewNoop())
	require.NoError(t, err)
	return g
}

func TestGateway_Send_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, "1700000000", r.Header.Get(headerTimestamp))
		ts, _ := strconv.ParseInt(r.Header.Get(headerTimestamp), 10, 64)
		assert.True(t, hash.NewHMACSHA256("shh").VerifyTimestamped(r.Header.Get(headerSignature), time.Unix(ts, 0), body))

		var req sendRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "+919876543210", req.To)

		_, _ = w.Write([]byte(`{"message_id":"wamid.1"}`))
	}))
	defer srv.Close()

	res := newTestGateway(t, srv.URL, time.Second).Send(context.Background(), "+919876543210", "hello")

	assert.Equal(t, entity.SendResult{Status: entity.SendSuccess, ProviderMessageID: "wamid.1"}, res)
}

func TestGateway_Send_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   entity.SendStatus
		detail string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, entity.SendTransient, "gateway status 429: slow down"},
		{"unavailable", http.StatusServiceUnavailable, "maintenance", entity.SendTransient, "gateway status 503: maintenance"},
		{"invalid number", http.StatusUnprocessableEntity, `{"error":"number not on whatsapp"}`, entity.SendPermanent, "gateway status 422: number not on whatsapp"},
		{"unauthorized", http.StatusUnauthorized, "", entity.SendPermanent, "gateway status 401: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := newTestGateway(t, srv.URL, time.Second).Send(context.Background(), "+919876543210", "hello")

			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.detail, res.Detail)
		})
	}
}

func TestGateway_Send_TimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	res := newTestGateway(t, srv.URL, 50*time.Millisecond).Send(context.Background(), "+919876543210", "hello")

	assert.Equal(t, entity.SendTransient, res.Status)
	assert.Contains(t, res.Detail, "gateway unreachable")
}

func TestNewGateway_URLRequired(t *testing.T) {
	_, err := NewGateway(Config{}, clock.New(), instrument.NewNoop())
	assert.Error(t, err)
}

func TestDryRun_Send(t *testing.T) {
	res := NewDryRun().Send(context.Background(), "+919876543210", "hello")
	assert.Equal(t, entity.SendSuccess, res.Status)
}
