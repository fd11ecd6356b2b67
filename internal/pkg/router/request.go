package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

// MaxBodyBytes caps JSON request bodies. Trigger payloads are a few
// template variables, so anything larger is a client bug.
const MaxBodyBytes = 64 << 10

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// GetParam returns the httprouter path parameter key.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 reads a positive integer path parameter such as a log id.
func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil || value <= 0 {
		return 0, goerror.NewInvalidFormat("param " + key + " must be a positive integer")
	}
	return value, nil
}

// GetQuery returns the trimmed query value, "" when absent.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt32 returns 0 for an absent value so callers can apply their
// own default.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, goerror.NewInvalidFormat("query " + key + " must be an integer")
	}
	return int32(value), nil
}

// GetQueryDate parses key with layout. The zero time means absent.
func (r *Request) GetQueryDate(key, layout string) (time.Time, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return time.Time{}, nil
	}

	value, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, goerror.NewInvalidFormat("query " + key + " must match " + layout)
	}
	return value, nil
}

// DecodeBody decodes exactly one JSON object into dst. Unknown fields,
// trailing data and bodies over MaxBodyBytes are rejected.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat("request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && r.ContentLength > MaxBodyBytes {
			return goerror.NewInvalidFormat("request body is too large")
		}
		return goerror.NewInvalidFormat("request body is not valid json")
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat("request body must hold a single json object")
	}

	return nil
}
