package mimescan

import (
	"context"
	"io"

	"github.com/axunonb/mimescan/async"
	"github.com/axunonb/mimescan/internal/parser"
	"github.com/axunonb/mimescan/internal/scan"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Format selects how the top level of the stream is interpreted.
type Format int

const (
	// FormatMessage treats the stream as a single message starting at
	// offset zero.
	FormatMessage Format = iota

	// FormatMbox treats the stream as an mbox archive of messages, each
	// introduced by a "From " separator line.
	FormatMbox
)

// Reader scans a byte stream for MIME structure and reports it through a
// Handler or an event channel. A Reader is single-pass and must not be
// driven from two goroutines at once.
type Reader struct {
	parser *parser.Parser
	format Format

	handler              Handler
	panicHandler         async.PanicHandler
	respectContentLength bool

	log *logrus.Entry
}

// New creates a reader scanning the given source with the given format and
// options.
func New(src io.Reader, format Format, withOpt ...Option) (*Reader, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	reader := &Reader{
		format:       format,
		handler:      NoopHandler{},
		panicHandler: async.NoopPanicHandler{},
		log:          logrus.WithField("reader", uuid.NewString()),
	}

	for _, opt := range withOpt {
		if opt == nil {
			return nil, ErrNilOption
		}

		opt.config(reader)
	}

	if reader.handler == nil {
		return nil, ErrNilHandler
	}

	reader.parser = parser.New(scan.New(src), format == FormatMbox, reader.respectContentLength, reader.log)

	return reader, nil
}

// ReadMessage scans exactly one top-level message starting at the current
// position, invoking the handler's hooks as structure is recognized. In mbox
// format each call consumes one marker-delimited message; call it repeatedly
// until IsEndOfStream reports true. It returns io.EOF when no further
// message can be started.
func (r *Reader) ReadMessage() error {
	return r.ReadMessageContext(context.Background())
}

// ReadMessageContext is ReadMessage under a context: cancellation is
// observed at every read and hook boundary, in which case the scan aborts
// without emitting an end event for the in-flight frame.
func (r *Reader) ReadMessageContext(ctx context.Context) error {
	return r.parser.ReadMessage(ctx, handlerSink{handler: r.handler})
}

// ReadEntity scans one MIME entity whose headers start at the current
// position, without requiring an mbox marker or outer message wrapper.
func (r *Reader) ReadEntity() error {
	return r.ReadEntityContext(context.Background())
}

// ReadEntityContext is ReadEntity under a context.
func (r *Reader) ReadEntityContext(ctx context.Context) error {
	return r.parser.ReadEntity(ctx, handlerSink{handler: r.handler})
}

// IsEndOfStream reports whether the source is exhausted and no further
// top-level entity can be started.
func (r *Reader) IsEndOfStream() bool {
	return r.parser.IsEndOfStream()
}

// Position returns the byte offset and line number of the next byte to be
// scanned.
func (r *Reader) Position() (int64, int) {
	return r.parser.Position()
}
