package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
)

type (
	LogsByReferenceInput struct {
		ReferenceType string `validate:"required,oneof=enquiry complaint stock_movement"`
		ReferenceID   int64  `validate:"required,gt=0"`
	}

	// LogsByReferenceOutput lists what was sent for one business record.
	// FlaggedEvents includes events whose flag is consumed even when no
	// message went out, e.g. after a render failure.
	LogsByReferenceOutput struct {
		Items         []entity.MessageLog
		FlaggedEvents []entity.EventType
	}
)

func (s *Usecase) LogsByReference(ctx context.Context, in LogsByReferenceInput) (*LogsByReferenceOutput, error) {
	ctx, span := s.startSpan(ctx, "LogsByReference")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActView); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	refType := entity.ReferenceType(in.ReferenceType)

	items, err := s.repoDB.ListMessageLogsByReference(ctx, refType, in.ReferenceID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list message logs by reference", "reference_type", refType, "reference_id", in.ReferenceID, "error", err)
		return nil, goerror.NewServer(err)
	}

	flagged, err := s.repoDB.ListFlaggedEvents(ctx, refType, in.ReferenceID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list flagged events", "reference_type", refType, "reference_id", in.ReferenceID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LogsByReferenceOutput{Items: items, FlaggedEvents: flagged}, nil
}
