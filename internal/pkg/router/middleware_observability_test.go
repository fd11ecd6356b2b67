package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, responseLevel(http.StatusOK))
	assert.Equal(t, slog.LevelWarn, responseLevel(http.StatusConflict))
	assert.Equal(t, slog.LevelError, responseLevel(http.StatusServiceUnavailable))
}

func TestMiddlewareObservability_KeepsBody(t *testing.T) {
	body := `{"customer_phone":"+919876543210","event_type":"BOOKING_CONFIRMED"}`

	var got string
	h := middlewareObservability(nil, instrument.NewNoop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got = string(raw)
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notification/triggers", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, body, got)
}

func TestLoggableBody(t *testing.T) {
	assert.Nil(t, loggableBody(nil, false, nil))
	assert.Equal(t, "plain", loggableBody([]byte("plain"), false, nil))
	assert.Equal(t, "<binary body omitted>", loggableBody([]byte{0xff, 0xfe}, false, nil))
	assert.Equal(t, map[string]any{"body": "abc", "truncated": true}, loggableBody([]byte("abc"), true, nil))
}
