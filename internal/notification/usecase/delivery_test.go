package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transient(detail string) entity.SendResult {
	return entity.SendResult{Status: entity.SendTransient, Detail: detail}
}

func TestUsecase_Delivery_TransientExhaustsToFailed(t *testing.T) {
	// Arrange
	env := newTestEnv(t, inlinePool{}, transient("timeout 1"), transient("timeout 2"), transient("gateway status 503: busy"))

	// Act
	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchAccepted, out.Result)

	ml := env.repo.log(t, out.LogID)
	assert.Equal(t, entity.StatusFailed, ml.Status)
	assert.Equal(t, int32(3), ml.RetryCount)
	assert.Equal(t, "gateway status 503: busy", ml.ErrorMessage)
	assert.Nil(t, ml.SentAt)

	assert.Equal(t, 3, env.sender.callCount())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, env.delays)
	assert.Equal(t, []string{"delivery:1:0", "delivery:1:1", "delivery:1:2"}, env.guard.keys)

	require.Len(t, env.mq.outcomes, 1)
	assert.Equal(t, entity.StatusFailed, env.mq.outcomes[0].Status)
	assert.Equal(t, int32(3), env.mq.outcomes[0].RetryCount)
}

func TestUsecase_Delivery_TransientThenSuccess(t *testing.T) {
	env := newTestEnv(t, inlinePool{}, transient("timeout"), entity.SendResult{Status: entity.SendSuccess})

	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))

	require.NoError(t, err)
	ml := env.repo.log(t, out.LogID)
	assert.Equal(t, entity.StatusSent, ml.Status)
	assert.Equal(t, int32(1), ml.RetryCount)
	require.NotNil(t, ml.SentAt)
	assert.Equal(t, testNow.Add(time.Second), *ml.SentAt)
	assert.Equal(t, 2, env.sender.callCount())
}

func TestUsecase_Delivery_PermanentFailsWithoutRetry(t *testing.T) {
	env := newTestEnv(t, inlinePool{}, entity.SendResult{Status: entity.SendPermanent, Detail: "gateway status 400: not on whatsapp"})

	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))

	require.NoError(t, err)
	ml := env.repo.log(t, out.LogID)
	assert.Equal(t, entity.StatusFailed, ml.Status)
	assert.Equal(t, int32(0), ml.RetryCount)
	assert.Equal(t, "gateway status 400: not on whatsapp", ml.ErrorMessage)
	assert.Equal(t, 1, env.sender.callCount())
	assert.Empty(t, env.delays)
}

func TestUsecase_Delivery_ElapsedCapStopsRetries(t *testing.T) {
	// Arrange
	env := newTestEnv(t, inlinePool{}, transient("slow"))
	env.uc.policy.maxElapsed = 1500 * time.Millisecond

	// Act
	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))

	// Assert: the second wait of 2s would pass the 1.5s cap
	require.NoError(t, err)
	ml := env.repo.log(t, out.LogID)
	assert.Equal(t, entity.StatusFailed, ml.Status)
	assert.Equal(t, int32(2), ml.RetryCount)
	assert.Equal(t, 2, env.sender.callCount())
}

func TestUsecase_Deliver_SkipsSettledAndDuplicate(t *testing.T) {
	// Arrange
	env := newTestEnv(t, inlinePool{})
	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))
	require.NoError(t, err)
	require.Equal(t, 1, env.sender.callCount())

	// Act: a stray job for a SENT entry
	err = env.uc.deliver(context.Background(), entity.DeliveryJob{LogID: out.LogID, Attempt: 1, StartedAt: testNow})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, env.sender.callCount())

	// Act: another instance owns the attempt
	env.repo.logs[out.LogID].Status = entity.StatusPending
	env.guard.err = idempotency.ErrAlreadyInProgress
	err = env.uc.deliver(context.Background(), entity.DeliveryJob{LogID: out.LogID, Attempt: 1, StartedAt: testNow})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, env.sender.callCount())

	// Act: unknown entry
	assert.NoError(t, env.uc.deliver(context.Background(), entity.DeliveryJob{LogID: 999, Attempt: 1}))
}

func TestUsecase_Delivery_UpdateErrorSurfaces(t *testing.T) {
	env := newTestEnv(t, fullPool{})
	out, err := env.uc.Trigger(asRole("SERVICE"), serviceCreated(42, "9876543210"))
	require.NoError(t, err)
	env.repo.updateErr = errors.New("db down")

	err = env.uc.deliver(context.Background(), entity.DeliveryJob{LogID: out.LogID, Attempt: 1, StartedAt: testNow})

	assert.EqualError(t, err, "db down")
	assert.Empty(t, env.mq.outcomes)
}
