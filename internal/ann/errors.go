package ann

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers should use errors.Is against these, not
// string-match the returned error.
var (
	// ErrDuplicateID is returned by Insert when the id already exists.
	ErrDuplicateID = errors.New("ann: duplicate id")

	// ErrNotFound is returned by Remove when the id does not exist.
	ErrNotFound = errors.New("ann: id not found")

	// ErrBatchDuplicateID is returned by InsertParallel when the batch
	// contains a repeated id, or an id already present in the index.
	ErrBatchDuplicateID = errors.New("ann: batch contains a duplicate id")
)

func duplicateIDError(id string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateID, id)
}

func notFoundError(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

func batchDuplicateIDError(id string) error {
	return fmt.Errorf("%w: %q", ErrBatchDuplicateID, id)
}
