package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/gonotif/internal/pkg/jwt"
)

func middlewareAuthentication(verifier jwt.JWT, public map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if paths, ok := public[r.Method]; ok {
				if _, skip := paths[matchedRoutePath(r)]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				msg := "Invalid or expired token"
				if errors.Is(err, jwt.ErrMissingRole) {
					msg = "Token has no role"
				}
				slog.WarnContext(r.Context(), "rejected bearer token", "error", err)
				writeJSON(w, errorResponse{Message: msg}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
