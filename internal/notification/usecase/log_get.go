package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

type GetLogInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) GetLog(ctx context.Context, in GetLogInput) (*entity.MessageLog, error) {
	ctx, span := s.startSpan(ctx, "GetLog")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActView); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ml, err := s.repoDB.GetMessageLog(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("message log not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get message log", "log_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return ml, nil
}
