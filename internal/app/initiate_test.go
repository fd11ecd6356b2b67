package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnforcer(t *testing.T) {
	e, err := newEnforcer([]string{
		"admin:notification.logs:*",
		"RECEPTION:notification.logs:view",
		" SERVICE:notification.triggers:trigger ",
	})
	require.NoError(t, err)

	tests := []struct {
		role, obj, act string
		want           bool
	}{
		{"ADMIN", "notification.logs", "retry", true},
		{"ADMIN", "notification.logs", "export", true},
		{"ADMIN", "notification.triggers", "trigger", false},
		{"RECEPTION", "notification.logs", "view", true},
		{"RECEPTION", "notification.logs", "retry", false},
		{"SERVICE", "notification.triggers", "trigger", true},
		{"SERVICE", "notification.logs", "view", false},
		{"GUEST", "notification.logs", "view", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.act, func(t *testing.T) {
			ok, err := e.Enforce(tt.role, tt.obj, tt.act)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestNewEnforcer_InvalidPolicy(t *testing.T) {
	for _, raw := range []string{"ADMIN:notification.logs", "ADMIN::view", "a:b:c:d"} {
		_, err := newEnforcer([]string{raw})
		require.ErrorIs(t, err, errInvalidPolicy, raw)
	}
}

func TestServeSwagger(t *testing.T) {
	rec := httptest.NewRecorder()

	serveSwagger(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Gonotif API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/v1/notification/logs/{id}/retry")
}
