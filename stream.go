package mimescan

import (
	"context"
	"errors"
	"io"

	"github.com/axunonb/mimescan/async"
	"github.com/axunonb/mimescan/events"
	"github.com/axunonb/mimescan/internal/queue"
	"github.com/axunonb/mimescan/logging"
)

// Stream scans the remaining input on a background goroutine and delivers
// every structural event, in scan order, on the returned channel. The
// sequence of events is identical to what the Handler surface reports for
// the same input. The channel is closed after a terminal events.StreamDone
// carrying the scan outcome.
//
// The reader must not be used through any other method while the stream is
// being consumed.
func (r *Reader) Stream(ctx context.Context) <-chan events.Event {
	eventQueue := queue.NewQueuedChannel[events.Event](1, 16)

	logging.GoAnnotate(ctx, func(ctx context.Context) {
		defer async.HandlePanic(r.panicHandler)
		defer eventQueue.Close()

		eventQueue.Enqueue(events.StreamDone{Err: r.stream(ctx, queueSink{queue: eventQueue})})
	}, map[string]any{"role": "stream"})

	return eventQueue.GetChannel()
}

func (r *Reader) stream(ctx context.Context, sink queueSink) error {
	for {
		if err := r.parser.ReadMessage(ctx, sink); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			r.log.WithError(err).Error("Stream scan aborted")

			return err
		}

		if r.format == FormatMessage || r.IsEndOfStream() {
			return nil
		}
	}
}

// queueSink delivers parser events into the stream's queued channel.
// Cancellation is observed before every delivery.
type queueSink struct {
	queue *queue.QueuedChannel[events.Event]
}

func (s queueSink) Emit(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.queue.Enqueue(event) {
		return ErrStreamClosed
	}

	return nil
}
