package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Guests   int     `json:"guests" validate:"gt=0"`
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gtfield=Min"`
	Channel  string  `json:"channel" validate:"oneof=email sms"`
	Internal string  `json:"-"`
}

func validBooking() bookingRequest {
	return bookingRequest{Email: "host@example.com", Guests: 10, Min: 0, Max: 100, Channel: "email"}
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(validBooking()))
}

func TestValidateStruct_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*bookingRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing email",
			mutate:    func(b *bookingRequest) { b.Email = "" },
			wantField: "email",
			wantTag:   "required",
			wantMsg:   "email is required",
		},
		{
			name:      "malformed email",
			mutate:    func(b *bookingRequest) { b.Email = "not-an-email" },
			wantField: "email",
			wantTag:   "email",
			wantMsg:   "email must be a valid email address",
		},
		{
			name:      "zero guests",
			mutate:    func(b *bookingRequest) { b.Guests = 0 },
			wantField: "guests",
			wantTag:   "gt",
			wantMsg:   "guests must be greater than 0",
		},
		{
			name:      "negative min",
			mutate:    func(b *bookingRequest) { b.Min = -1; b.Max = 10 },
			wantField: "min",
			wantTag:   "gte",
			wantMsg:   "min must be greater than or equal to 0",
		},
		{
			name:      "max not above min",
			mutate:    func(b *bookingRequest) { b.Min = 50; b.Max = 50 },
			wantField: "max",
			wantTag:   "gtfield",
			wantMsg:   "max must be greater than Min",
		},
		{
			name:      "unknown channel",
			mutate:    func(b *bookingRequest) { b.Channel = "fax" },
			wantField: "channel",
			wantTag:   "oneof",
			wantMsg:   "channel must be one of: email sms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(&b)

			err := ValidateStruct(b)
			require.Error(t, err)

			var structErr *StructError
			require.True(t, errors.As(err, &structErr))
			require.Len(t, structErr.Fields, 1)
			assert.Equal(t, tt.wantField, structErr.Fields[0].Field)
			assert.Equal(t, tt.wantTag, structErr.Fields[0].Tag)
			assert.Equal(t, tt.wantMsg, structErr.Fields[0].Message)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateStruct_JoinsMessages(t *testing.T) {
	b := validBooking()
	b.Email = ""
	b.Guests = -1

	err := ValidateStruct(b)
	require.Error(t, err)
	assert.Equal(t, "email is required; guests must be greater than 0", err.Error())
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
