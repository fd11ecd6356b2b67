package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []Status{StatusPending, StatusSent, StatusFailed, StatusRetrying}
	allowed := map[Status][]Status{
		StatusPending:  {StatusSent, StatusFailed, StatusRetrying},
		StatusRetrying: {StatusSent, StatusFailed, StatusRetrying},
		StatusFailed:   {StatusRetrying},
		StatusSent:     nil,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus(" failed ")
	assert.True(t, ok)
	assert.Equal(t, StatusFailed, s)

	_, ok = ParseStatus("DELETED")
	assert.False(t, ok)
}

func TestEventTypes(t *testing.T) {
	for _, e := range EventTypes() {
		assert.True(t, e.Valid(), e)
		assert.NotEqual(t, string(e), e.Label(), e)
	}
	assert.False(t, EventType("order_shipped").Valid())
	assert.Equal(t, "Delivery Re-attempt", EventDeliveryReattempt.Label())
}

func TestFlagKey_String(t *testing.T) {
	k := FlagKey{ReferenceType: ReferenceComplaint, ReferenceID: 42, EventType: EventServiceCreated}
	assert.Equal(t, "complaint:42:service_created", k.String())
}
