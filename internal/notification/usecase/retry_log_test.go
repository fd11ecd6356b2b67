package usecase

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedLog(id int64, status entity.Status, content string) entity.MessageLog {
	return entity.MessageLog{
		ID:             id,
		EventType:      entity.EventServiceCreated,
		CustomerPhone:  "+919876543210",
		CustomerName:   "Ravi Kumar",
		MessageContent: content,
		Status:         status,
		ReferenceType:  entity.ReferenceComplaint,
		ReferenceID:    42,
		ErrorMessage:   "gateway status 503: busy",
		RetryCount:     3,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestUsecase_RetryLog_ResendsFailedEntry(t *testing.T) {
	// Arrange
	env := newTestEnv(t, inlinePool{})
	env.repo.seed(failedLog(100, entity.StatusFailed, "Hello Ravi Kumar"))

	// Act
	ml, err := env.uc.RetryLog(asRole("ADMIN"), RetryLogInput{ID: 100})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRetrying, ml.Status)
	assert.Equal(t, int32(4), ml.RetryCount)

	stored := env.repo.log(t, 100)
	assert.Equal(t, entity.StatusSent, stored.Status)
	assert.Equal(t, int32(4), stored.RetryCount)
	assert.Equal(t, 1, env.sender.callCount())
	assert.Equal(t, []string{"Hello Ravi Kumar"}, env.sender.bodies)
	assert.Equal(t, []string{"delivery:100:4"}, env.guard.keys)
}

func TestUsecase_RetryLog_ResendThatFailsAgainGetsFullRun(t *testing.T) {
	env := newTestEnv(t, inlinePool{}, transient("timeout"))
	env.repo.seed(failedLog(100, entity.StatusFailed, "Hello Ravi Kumar"))

	_, err := env.uc.RetryLog(asRole("ADMIN"), RetryLogInput{ID: 100})

	require.NoError(t, err)
	stored := env.repo.log(t, 100)
	assert.Equal(t, entity.StatusFailed, stored.Status)
	assert.Equal(t, int32(7), stored.RetryCount)
	assert.Equal(t, 3, env.sender.callCount())
}

func TestUsecase_RetryLog_Errors(t *testing.T) {
	tests := []struct {
		name string
		role string
		seed *entity.MessageLog
		id   int64
		code goerror.Code
	}{
		{name: "reception cannot retry", role: "RECEPTION", id: 100, code: goerror.CodeForbidden},
		{name: "invalid id", role: "ADMIN", id: 0, code: goerror.CodeInvalidInput},
		{name: "unknown entry", role: "ADMIN", id: 404, code: goerror.CodeNotFound},
		{
			name: "already sent",
			role: "ADMIN",
			seed: lo.ToPtr(failedLog(100, entity.StatusSent, "Hello")),
			id:   100,
			code: goerror.CodeInvalidFormat,
		},
		{
			name: "still pending",
			role: "ADMIN",
			seed: lo.ToPtr(failedLog(100, entity.StatusPending, "Hello")),
			id:   100,
			code: goerror.CodeConflict,
		},
		{
			name: "still retrying",
			role: "ADMIN",
			seed: lo.ToPtr(failedLog(100, entity.StatusRetrying, "Hello")),
			id:   100,
			code: goerror.CodeConflict,
		},
		{
			name: "never rendered",
			role: "ADMIN",
			seed: lo.ToPtr(failedLog(100, entity.StatusFailed, "")),
			id:   100,
			code: goerror.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, inlinePool{})
			if tt.seed != nil {
				env.repo.seed(*tt.seed)
			}

			ml, err := env.uc.RetryLog(asRole(tt.role), RetryLogInput{ID: tt.id})

			assert.Nil(t, ml)
			require.Error(t, err)
			assert.Equal(t, tt.code, goerror.CodeOf(err))
			assert.Zero(t, env.sender.callCount())
		})
	}
}
