// Package models contains domain models and entities.
package models

import "errors"

// ZeroAmountMessage is the message carried by ErrZeroAmount.
const ZeroAmountMessage = "This amount is not acceptable. Choose another one that is not 0."

// Record is the validated data unit. ID is assigned by the system.
type Record struct {
	ID     string  `json:"id,omitempty"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// RecordCreate represents the caller-supplied data for a new Record.
type RecordCreate struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ValidationError reports input that can never be turned into a Record.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the human-readable message.
func (e *ValidationError) Error() string {
	return e.Message
}

// Validation errors
var (
	ErrZeroAmount = &ValidationError{Field: "amount", Message: ZeroAmountMessage}
)

// Repository errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateID    = errors.New("record id already exists")
)

// Validate validates the RecordCreate data.
func (c *RecordCreate) Validate() error {
	if c.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
