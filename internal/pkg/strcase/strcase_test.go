package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"EventType":     "event_type",
		"CustomerPhone": "customer_phone",
		"ReferenceID":   "reference_id",
		"HTTPStatus":    "http_status",
		"PageSize":      "page_size",
		"Variables2Map": "variables2_map",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
