package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	for _, cfg := range []*Config{nil, {ServiceName: "gonotif", LogLevel: "debug"}} {
		ins, err := New(context.Background(), cfg)
		require.NoError(t, err)

		_, span := ins.Tracer("notification").Start(context.Background(), "trigger")
		assert.False(t, span.SpanContext().IsValid())
		span.End()

		_, err = ins.Meter("notification").Int64Counter("sent")
		assert.NoError(t, err)
		assert.NoError(t, ins.Shutdown(context.Background()))
	}
}
