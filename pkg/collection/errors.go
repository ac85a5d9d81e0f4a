package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrTransactionInProgress is returned when a transaction is requested while another one is
	// still open on the same collection.
	ErrTransactionInProgress = errors.New("transaction already in progress")

	// ErrIndexOutOfRange is returned by index-addressed list operations on a bad index.
	ErrIndexOutOfRange = errors.New("index out of range")
)

type ErrIndex = error

func NewIndexError(op string, index, count int) ErrIndex {
	return fmt.Errorf("%s: index %d with count %d: %w", op, index, count, ErrIndexOutOfRange)
}
