package mimescan

import (
	"context"

	"github.com/axunonb/mimescan/events"
)

// Handler receives structural notifications while scanning. Begin hooks fire
// when a frame's content type has been resolved; end hooks fire once all
// offsets and counts for the frame are final. A non-nil error aborts the
// scan and is returned to the caller.
//
// The context passed to each hook is the one driving the scan, so handlers
// performing their own blocking work can honour cancellation.
type Handler interface {
	OnMboxMarker(ctx context.Context, event events.MboxMarker) error

	OnMessageBegin(ctx context.Context, event events.MessageBegin) error
	OnMessageEnd(ctx context.Context, event events.MessageEnd) error

	OnMessagePartBegin(ctx context.Context, event events.MessagePartBegin) error
	OnMessagePartEnd(ctx context.Context, event events.MessagePartEnd) error

	OnMultipartBegin(ctx context.Context, event events.MultipartBegin) error
	OnMultipartEnd(ctx context.Context, event events.MultipartEnd) error

	OnMimePartBegin(ctx context.Context, event events.MimePartBegin) error
	OnMimePartEnd(ctx context.Context, event events.MimePartEnd) error
}

// NoopHandler implements Handler with no-ops. Embed it to override only the
// hooks you care about.
type NoopHandler struct{}

func (NoopHandler) OnMboxMarker(context.Context, events.MboxMarker) error { return nil }

func (NoopHandler) OnMessageBegin(context.Context, events.MessageBegin) error { return nil }
func (NoopHandler) OnMessageEnd(context.Context, events.MessageEnd) error     { return nil }

func (NoopHandler) OnMessagePartBegin(context.Context, events.MessagePartBegin) error { return nil }
func (NoopHandler) OnMessagePartEnd(context.Context, events.MessagePartEnd) error     { return nil }

func (NoopHandler) OnMultipartBegin(context.Context, events.MultipartBegin) error { return nil }
func (NoopHandler) OnMultipartEnd(context.Context, events.MultipartEnd) error     { return nil }

func (NoopHandler) OnMimePartBegin(context.Context, events.MimePartBegin) error { return nil }
func (NoopHandler) OnMimePartEnd(context.Context, events.MimePartEnd) error     { return nil }

// handlerSink adapts a Handler to the state machine's event sink.
// Cancellation is observed before every hook invocation.
type handlerSink struct {
	handler Handler
}

func (s handlerSink) Emit(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch event := event.(type) {
	case events.MboxMarker:
		return s.handler.OnMboxMarker(ctx, event)

	case events.MessageBegin:
		return s.handler.OnMessageBegin(ctx, event)

	case events.MessageEnd:
		return s.handler.OnMessageEnd(ctx, event)

	case events.MessagePartBegin:
		return s.handler.OnMessagePartBegin(ctx, event)

	case events.MessagePartEnd:
		return s.handler.OnMessagePartEnd(ctx, event)

	case events.MultipartBegin:
		return s.handler.OnMultipartBegin(ctx, event)

	case events.MultipartEnd:
		return s.handler.OnMultipartEnd(ctx, event)

	case events.MimePartBegin:
		return s.handler.OnMimePartBegin(ctx, event)

	case events.MimePartEnd:
		return s.handler.OnMimePartEnd(ctx, event)

	default:
		return nil
	}
}
