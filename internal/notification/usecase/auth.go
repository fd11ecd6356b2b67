package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/jwt"
)

// Authorization objects and actions checked against the role policies.
const (
	permObjLogs     = "notification.logs"
	permObjTriggers = "notification.triggers"

	permActView    = "view"
	permActRetry   = "retry"
	permActExport  = "export"
	permActTrigger = "trigger"
)

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "role", clm.Role, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}
