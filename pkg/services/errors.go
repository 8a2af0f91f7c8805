package services

import (
	"fmt"

	"kinfash-api/api/pkg/models"

	"github.com/pkg/errors"
)

// ErrStoreUnavailable means no usable store connection is configured, or the
// store could not be reached for a read.
var ErrStoreUnavailable = errors.New("document store unavailable")

// StoreWriteError is an I/O failure while inserting into a collection.
type StoreWriteError struct {
	Collection string
	Err        error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("write to %s failed: %v", e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// ReadInconsistency is a stored record that no longer satisfies its schema.
// It is reported and skipped, never returned to callers.
type ReadInconsistency struct {
	Collection string
	DocumentID string
	Err        *models.ValidationError
}

func (e *ReadInconsistency) Error() string {
	return fmt.Sprintf("stored %s document %s fails validation: %v", e.Collection, e.DocumentID, e.Err)
}
