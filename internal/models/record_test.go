package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		create  RecordCreate
		wantErr error
	}{
		{
			name:    "positive amount",
			create:  RecordCreate{Label: "some label", Amount: 1},
			wantErr: nil,
		},
		{
			name:    "negative amount",
			create:  RecordCreate{Label: "refund", Amount: -12.5},
			wantErr: nil,
		},
		{
			name:    "tiny amount",
			create:  RecordCreate{Label: "dust", Amount: math.SmallestNonzeroFloat64},
			wantErr: nil,
		},
		{
			name:    "empty label is accepted",
			create:  RecordCreate{Label: "", Amount: 3},
			wantErr: nil,
		},
		{
			name:    "zero amount",
			create:  RecordCreate{Label: "some label", Amount: 0},
			wantErr: ErrZeroAmount,
		},
		{
			name:    "negative zero amount",
			create:  RecordCreate{Label: "some label", Amount: math.Copysign(0, -1)},
			wantErr: ErrZeroAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := (&RecordCreate{Label: "some label", Amount: 0}).Validate()
	require.Error(t, err)

	assert.EqualError(t, err, "This amount is not acceptable. Choose another one that is not 0.")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "amount", ve.Field)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrZeroAmount))
	assert.True(t, IsValidationError(fmt.Errorf("create: %w", ErrZeroAmount)))
	assert.False(t, IsValidationError(ErrRecordNotFound))
	assert.False(t, IsValidationError(nil))
}

func TestRecord_JSON(t *testing.T) {
	t.Run("id omitted when empty", func(t *testing.T) {
		data, err := json.Marshal(Record{Label: "some label", Amount: 1})
		require.NoError(t, err)
		assert.JSONEq(t, `{"label":"some label","amount":1}`, string(data))
	})

	t.Run("id included when set", func(t *testing.T) {
		data, err := json.Marshal(Record{ID: "abc", Label: "some label", Amount: 1})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"abc","label":"some label","amount":1}`, string(data))
	})
}
