package inbound

import (
	"context"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
	"github.com/stretchr/testify/mock"
)

type mockUC struct {
	mock.Mock
}

func (m *mockUC) ConsumeEnquiryCreated(ctx context.Context, in usecase.ConsumeEnquiryCreatedInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) ConsumeServiceCreated(ctx context.Context, in usecase.ConsumeServiceCreatedInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) ConsumeEngineerAssigned(ctx context.Context, in usecase.ConsumeEngineerAssignedInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) ConsumeServiceCompleted(ctx context.Context, in usecase.ConsumeServiceCompletedInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) ConsumeDeliveryFailed(ctx context.Context, in usecase.ConsumeDeliveryFailedInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) ConsumeDeliveryReattempt(ctx context.Context, in usecase.ConsumeDeliveryReattemptInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUC) Trigger(ctx context.Context, in usecase.TriggerInput) (*entity.DispatchOutcome, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.DispatchOutcome)
	return out, args.Error(1)
}

func (m *mockUC) ListLogs(ctx context.Context, in usecase.ListLogsInput) (*usecase.ListLogsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.ListLogsOutput)
	return out, args.Error(1)
}

func (m *mockUC) GetLog(ctx context.Context, in usecase.GetLogInput) (*entity.MessageLog, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.MessageLog)
	return out, args.Error(1)
}

func (m *mockUC) RetryLog(ctx context.Context, in usecase.RetryLogInput) (*entity.MessageLog, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*entity.MessageLog)
	return out, args.Error(1)
}

func (m *mockUC) Summary(ctx context.Context) (*entity.MessageLogSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*entity.MessageLogSummary)
	return out, args.Error(1)
}

func (m *mockUC) EventTypes(ctx context.Context) ([]usecase.EventTypeOption, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]usecase.EventTypeOption)
	return out, args.Error(1)
}

func (m *mockUC) LogsByReference(ctx context.Context, in usecase.LogsByReferenceInput) (*usecase.LogsByReferenceOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.LogsByReferenceOutput)
	return out, args.Error(1)
}

func (m *mockUC) ExportLogs(ctx context.Context, in usecase.ExportLogsInput) (*usecase.ExportLogsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.ExportLogsOutput)
	return out, args.Error(1)
}
