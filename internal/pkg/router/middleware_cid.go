package router

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when a proxy sets it instead.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

var cidHeaders = [...]string{HeaderCorrelationID, HeaderRequestID}

// inboundCID returns the first usable caller supplied id. Values with
// control characters are ignored so they cannot split log lines.
func inboundCID(h http.Header) string {
	for _, name := range cidHeaders {
		v := strings.TrimSpace(h.Get(name))
		if v == "" || strings.IndexFunc(v, unicode.IsControl) >= 0 {
			continue
		}
		return v[:min(len(v), maxCIDLen)]
	}
	return ""
}

// middlewareCorrelationID echoes the id back and puts it on the context,
// where slog handlers and published events pick it up.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCID(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
