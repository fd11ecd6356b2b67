package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLogs(env *testEnv) {
	statuses := []entity.Status{
		entity.StatusSent, entity.StatusFailed, entity.StatusFailed,
		entity.StatusPending, entity.StatusRetrying,
	}
	for i, st := range statuses {
		ml := failedLog(int64(101+i), st, "Hello")
		ml.ReferenceID = int64(500 + i%2)
		env.repo.seed(ml)
	}
}

func TestUsecase_ListLogs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env := newTestEnv(t, inlinePool{})
		seedLogs(env)

		out, err := env.uc.ListLogs(asRole("RECEPTION"), ListLogsInput{})

		require.NoError(t, err)
		assert.Equal(t, int32(1), out.Page)
		assert.Equal(t, int32(20), out.PageSize)
		assert.Equal(t, int64(5), out.Total)
		require.Len(t, out.Items, 5)
		assert.Equal(t, int64(105), out.Items[0].ID)
	})

	t.Run("status is case insensitive", func(t *testing.T) {
		env := newTestEnv(t, inlinePool{})
		seedLogs(env)

		out, err := env.uc.ListLogs(asRole("ADMIN"), ListLogsInput{Status: "failed", PageSize: 1, Page: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(2), out.Total)
		require.Len(t, out.Items, 1)
		assert.Equal(t, int64(102), out.Items[0].ID)
	})

	t.Run("page past the end", func(t *testing.T) {
		env := newTestEnv(t, inlinePool{})
		seedLogs(env)

		out, err := env.uc.ListLogs(asRole("ADMIN"), ListLogsInput{Page: 9})

		require.NoError(t, err)
		assert.Equal(t, int64(5), out.Total)
		assert.Empty(t, out.Items)
	})

	tests := []struct {
		name string
		ctx  context.Context
		in   ListLogsInput
		code goerror.Code
	}{
		{name: "anonymous", ctx: context.Background(), code: goerror.CodeUnauthorized},
		{name: "service role", ctx: asRole("SERVICE"), code: goerror.CodeForbidden},
		{name: "page size too large", ctx: asRole("ADMIN"), in: ListLogsInput{PageSize: 101}, code: goerror.CodeInvalidInput},
		{name: "unknown status", ctx: asRole("ADMIN"), in: ListLogsInput{Status: "queued"}, code: goerror.CodeInvalidInput},
		{name: "unknown event", ctx: asRole("ADMIN"), in: ListLogsInput{EventType: "invoice_paid"}, code: goerror.CodeInvalidInput},
		{
			name: "date range reversed",
			ctx:  asRole("ADMIN"),
			in:   ListLogsInput{DateFrom: testNow, DateTo: testNow.AddDate(0, 0, -1)},
			code: goerror.CodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, inlinePool{})

			out, err := env.uc.ListLogs(tt.ctx, tt.in)

			assert.Nil(t, out)
			assert.Equal(t, tt.code, goerror.CodeOf(err))
		})
	}
}

func TestUsecase_LogFilter_DatesAreWholeDays(t *testing.T) {
	env := newTestEnv(t, inlinePool{})

	f, err := env.uc.logFilter(ListLogsInput{
		Page:     1,
		PageSize: 1,
		DateFrom: time.Date(2026, 3, 1, 17, 45, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *f.DateTo)
}

func TestUsecase_GetLog(t *testing.T) {
	env := newTestEnv(t, inlinePool{})
	seedLogs(env)

	ml, err := env.uc.GetLog(asRole("RECEPTION"), GetLogInput{ID: 102})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, ml.Status)

	_, err = env.uc.GetLog(asRole("RECEPTION"), GetLogInput{ID: 999})
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))
}

func TestUsecase_Summary(t *testing.T) {
	env := newTestEnv(t, inlinePool{})
	seedLogs(env)

	sum, err := env.uc.Summary(asRole("RECEPTION"))

	require.NoError(t, err)
	assert.Equal(t, int64(5), sum.Total)
	assert.Equal(t, int64(1), sum.Sent)
	assert.Equal(t, int64(2), sum.Failed)
	assert.Equal(t, int64(1), sum.Pending)
	assert.Equal(t, int64(1), sum.Retrying)
	assert.Equal(t, []time.Time{
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
	}, env.repo.sumArgs)
}

func TestUsecase_EventTypes(t *testing.T) {
	env := newTestEnv(t, inlinePool{})

	opts, err := env.uc.EventTypes(asRole("RECEPTION"))

	require.NoError(t, err)
	require.Len(t, opts, len(entity.EventTypes()))
	assert.Equal(t, EventTypeOption{Value: "enquiry_created", Label: "Enquiry Created"}, opts[0])
}

func TestUsecase_LogsByReference(t *testing.T) {
	// Arrange
	env := newTestEnv(t, inlinePool{})
	_, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))
	require.NoError(t, err)
	assigned := serviceCreated(42, "9876543210")
	assigned.EventType = entity.EventEngineerAssigned.String()
	_, err = env.uc.Trigger(asRole("SERVICE"), assigned)
	require.NoError(t, err)

	// Act
	out, err := env.uc.LogsByReference(asRole("RECEPTION"), LogsByReferenceInput{
		ReferenceType: "complaint",
		ReferenceID:   42,
	})

	// Assert
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, []entity.EventType{entity.EventEngineerAssigned, entity.EventServiceCreated}, out.FlaggedEvents)

	_, err = env.uc.LogsByReference(asRole("RECEPTION"), LogsByReferenceInput{ReferenceType: "invoice", ReferenceID: 42})
	assert.Equal(t, goerror.CodeInvalidInput, goerror.CodeOf(err))
}
