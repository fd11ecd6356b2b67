package inbound

import (
	"context"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeEnquiryCreated(ctx context.Context, in usecase.ConsumeEnquiryCreatedInput) error
	ConsumeServiceCreated(ctx context.Context, in usecase.ConsumeServiceCreatedInput) error
	ConsumeEngineerAssigned(ctx context.Context, in usecase.ConsumeEngineerAssignedInput) error
	ConsumeServiceCompleted(ctx context.Context, in usecase.ConsumeServiceCompletedInput) error
	ConsumeDeliveryFailed(ctx context.Context, in usecase.ConsumeDeliveryFailedInput) error
	ConsumeDeliveryReattempt(ctx context.Context, in usecase.ConsumeDeliveryReattemptInput) error
}

type uc interface {
	ucConsumer

	Trigger(ctx context.Context, in usecase.TriggerInput) (*entity.DispatchOutcome, error)
	ListLogs(ctx context.Context, in usecase.ListLogsInput) (*usecase.ListLogsOutput, error)
	GetLog(ctx context.Context, in usecase.GetLogInput) (*entity.MessageLog, error)
	RetryLog(ctx context.Context, in usecase.RetryLogInput) (*entity.MessageLog, error)
	Summary(ctx context.Context) (*entity.MessageLogSummary, error)
	EventTypes(ctx context.Context) ([]usecase.EventTypeOption, error)
	LogsByReference(ctx context.Context, in usecase.LogsByReferenceInput) (*usecase.LogsByReferenceOutput, error)
	ExportLogs(ctx context.Context, in usecase.ExportLogsInput) (*usecase.ExportLogsOutput, error)
}
