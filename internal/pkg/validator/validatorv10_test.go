package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triggerInput struct {
	EventType     string `validate:"required,oneof=enquiry_created service_created"`
	CustomerPhone string `validate:"required,max=16"`
	CustomerName  string `validate:"omitempty,notblank"`
	ReferenceID   int64  `validate:"gt=0"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   triggerInput
		wantErr map[string]string
	}{
		{
			name:  "valid",
			input: triggerInput{EventType: "enquiry_created", CustomerPhone: "+91 98765-43210", ReferenceID: 1},
		},
		{
			name:  "all invalid",
			input: triggerInput{EventType: "nope", CustomerPhone: "+91 98765-43210 ext 12", CustomerName: "   "},
			wantErr: map[string]string{
				"event_type":     "EventType must be one of [enquiry_created service_created]",
				"customer_phone": "CustomerPhone must be a maximum of 16 characters in length",
				"customer_name":  "CustomerName must not be blank",
				"reference_id":   "ReferenceID must be greater than 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantErr, verr.Values())
		})
	}
}
