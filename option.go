package mimescan

import (
	"github.com/axunonb/mimescan/async"
)

// Option represents a type that can be used to configure the reader.
type Option interface {
	config(reader *Reader)
}

// WithHandler instructs the reader to deliver structural events to the given
// handler instead of the default no-op one.
func WithHandler(handler Handler) Option {
	return &withHandler{
		handler: handler,
	}
}

type withHandler struct {
	handler Handler
}

func (opt withHandler) config(reader *Reader) {
	reader.handler = opt.handler
}

// WithRespectContentLength instructs the reader to treat a parsed,
// non-negative Content-Length header as authoritative for a body's end
// offset instead of boundary/marker scanning.
func WithRespectContentLength() Option {
	return &withRespectContentLength{}
}

type withRespectContentLength struct{}

func (opt withRespectContentLength) config(reader *Reader) {
	reader.respectContentLength = true
}

// WithPanicHandler instructs the reader to forward panics recovered on the
// streaming goroutine to the given handler.
func WithPanicHandler(panicHandler async.PanicHandler) Option {
	return &withPanicHandler{
		panicHandler: panicHandler,
	}
}

type withPanicHandler struct {
	panicHandler async.PanicHandler
}

func (opt withPanicHandler) config(reader *Reader) {
	reader.panicHandler = opt.panicHandler
}
