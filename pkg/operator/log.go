package operator

import (
	"errors"

	"github.com/go-logr/logr"
)

var (
	log = logr.Discard()

	// ErrUnknownItem is logged when a source stream refers to an item the operator does not track.
	ErrUnknownItem = errors.New("unknown item")
)

// SetLogger sets the logger used by operators created afterwards.
func SetLogger(l logr.Logger) {
	log = l
}
