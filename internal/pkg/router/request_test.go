package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_GetParamInt64(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/logs/"+tt.raw, nil)
			ctx := context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params{{Key: "id", Value: tt.raw}})
			r := &Request{Request: req.WithContext(ctx)}

			got, err := r.GetParamInt64("id")
			if tt.wantErr {
				assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_Queries(t *testing.T) {
	r := &Request{Request: httptest.NewRequest(http.MethodGet,
		"/logs?page=2&page_size=x&status=+sent+&date_from=2026-03-01&date_to=01-03-2026", nil)}

	page, err := r.GetQueryInt32("page")
	require.NoError(t, err)
	assert.Equal(t, int32(2), page)

	missing, err := r.GetQueryInt32("limit")
	require.NoError(t, err)
	assert.Zero(t, missing)

	_, err = r.GetQueryInt32("page_size")
	assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat))

	assert.Equal(t, "sent", r.GetQuery("status"))

	from, err := r.GetQueryDate("date_from", time.DateOnly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)

	_, err = r.GetQueryDate("date_to", time.DateOnly)
	assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat))
}

func TestRequest_DecodeBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"asha"}`},
		{name: "empty", body: "", wantErr: true},
		{name: "unknown field", body: `{"name":"asha","age":3}`, wantErr: true},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}

			var got payload
			err := r.DecodeBody(&got)
			if tt.wantErr {
				assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "asha", got.Name)
		})
	}
}
