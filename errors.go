// Package mimescan implements an event-driven structural reader for MIME
// messages and mbox archives. It walks the byte stream once, without
// building an entity tree, and reports exact byte offsets, line numbers and
// sizes for every structural element it encounters.
package mimescan

import (
	"context"
	"errors"
)

var (
	// ErrNilSource is returned by New when the source reader is nil.
	ErrNilSource = errors.New("mimescan: source reader is nil")

	// ErrNilHandler is returned by New when WithHandler is given nil.
	ErrNilHandler = errors.New("mimescan: handler is nil")

	// ErrNilOption is returned by New when an option value is nil.
	ErrNilOption = errors.New("mimescan: option is nil")

	// ErrStreamClosed is reported when a scan outlives its event stream.
	ErrStreamClosed = errors.New("mimescan: event stream is closed")
)

// IsCancelled returns true if the error is due to a cancelled or expired
// context observed at a read or hook boundary.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
