// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedRecord marks a record that failed structural validation.
// Malformed records are excluded from feature building, training,
// aggregation, and scoring, and are reported individually; they never
// abort the batch.
var ErrMalformedRecord = errors.New("malformed record")

// RecordError ties a validation or processing failure to the record
// that caused it.
type RecordError struct {
	RestaurantID string `json:"restaurant_id"`
	Reason       string `json:"reason"`
	err          error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s: %s", e.RestaurantID, e.Reason)
}

func (e *RecordError) Unwrap() error { return e.err }

// NewRecordError wraps err with the offending restaurant identifier.
func NewRecordError(id string, err error) *RecordError {
	return &RecordError{RestaurantID: id, Reason: err.Error(), err: err}
}

// Validator checks Restaurant records against their structural
// invariants. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator backed by go-playground rules.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil for a well-formed record, or a RecordError
// wrapping ErrMalformedRecord describing the first problem found.
func (va *Validator) Validate(rec *Restaurant) error {
	if rec == nil {
		return NewRecordError("", fmt.Errorf("%w: nil record", ErrMalformedRecord))
	}
	if err := va.v.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return NewRecordError(rec.ID,
				fmt.Errorf("%w: field %s fails %q", ErrMalformedRecord, f.Field(), f.Tag()))
		}
		return NewRecordError(rec.ID, fmt.Errorf("%w: %v", ErrMalformedRecord, err))
	}
	// Hours strings are validated beyond tag reach: every entry must
	// carry parseable clock values.
	for _, dh := range rec.Hours {
		if _, err := ParseClock(dh.Open); err != nil {
			return NewRecordError(rec.ID, fmt.Errorf("%w: %v", ErrMalformedRecord, err))
		}
		if _, err := ParseClock(dh.Close); err != nil {
			return NewRecordError(rec.ID, fmt.Errorf("%w: %v", ErrMalformedRecord, err))
		}
	}
	return nil
}
