package mimescan_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/axunonb/mimescan"
	"github.com/axunonb/mimescan/events"
	"github.com/bradenaw/juniper/iterator"
	"github.com/bradenaw/juniper/xslices"
	"github.com/emersion/go-mbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// collectStream drains the stream, returning the structural events and the
// terminal outcome separately.
func collectStream(t *testing.T, ch <-chan events.Event) ([]events.Event, events.StreamDone) {
	t.Helper()

	all := iterator.Collect(iterator.Chan(ch))
	require.NotEmpty(t, all)

	done, ok := all[len(all)-1].(events.StreamDone)
	require.True(t, ok, "stream must end with StreamDone")

	return all[:len(all)-1], done
}

func TestStreamMatchesHandlerSurface(t *testing.T) {
	defer goleak.VerifyNone(t)

	const literal = `From alice@example.com Thu Jan  1 00:00:00 1970
Content-Type: multipart/mixed; boundary=b1

--b1
Content-Type: text/plain

hello
--b1
Content-Type: message/rfc822

Subject: inner

inner body
--b1--
From bob@example.com Thu Jan  1 00:00:00 1970
Subject: plain one

bye
`

	handler := new(recordingHandler)

	blocking, err := mimescan.New(strings.NewReader(literal), mimescan.FormatMbox, mimescan.WithHandler(handler))
	require.NoError(t, err)

	for !blocking.IsEndOfStream() {
		require.NoError(t, blocking.ReadMessage())
	}

	streaming, err := mimescan.New(strings.NewReader(literal), mimescan.FormatMbox)
	require.NoError(t, err)

	streamed, done := collectStream(t, streaming.Stream(context.Background()))
	require.NoError(t, done.Err)

	// Blocking and streaming scans of the same bytes must report identical
	// event sequences.
	assert.Equal(t, handler.events, streamed)
}

func TestStreamSingleMessageStopsAfterOne(t *testing.T) {
	defer goleak.VerifyNone(t)

	const literal = "Subject: only\n\nbody\n"

	reader, err := mimescan.New(strings.NewReader(literal), mimescan.FormatMessage)
	require.NoError(t, err)

	streamed, done := collectStream(t, reader.Stream(context.Background()))
	require.NoError(t, done.Err)

	var begins, ends int

	for _, event := range streamed {
		switch event.(type) {
		case events.MessageBegin:
			begins++
		case events.MessageEnd:
			ends++
		}
	}

	assert.Equal(t, 1, begins)
	assert.Equal(t, 1, ends)
}

func TestStreamCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	reader, err := mimescan.New(strings.NewReader("Subject: hi\n\nbody\n"), mimescan.FormatMessage)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, done := collectStream(t, reader.Stream(ctx))
	require.Error(t, done.Err)
	assert.True(t, mimescan.IsCancelled(done.Err))
}

func TestStreamAgainstMboxReader(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer

	writer := mbox.NewWriter(&buf)

	for i := 0; i < 5; i++ {
		mw, err := writer.CreateMessage(fmt.Sprintf("sender%d@example.com", i), time.Unix(0, 0))
		require.NoError(t, err)

		_, err = fmt.Fprintf(mw, "Subject: message %d\r\nContent-Type: text/plain\r\n\r\nbody %d\r\n", i, i)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	literal := buf.String()

	reader, err := mimescan.New(strings.NewReader(literal), mimescan.FormatMbox)
	require.NoError(t, err)

	streamed, done := collectStream(t, reader.Stream(context.Background()))
	require.NoError(t, done.Err)

	markers := xslices.Filter(streamed, func(event events.Event) bool {
		_, ok := event.(events.MboxMarker)
		return ok
	})

	for _, event := range markers {
		marker := event.(events.MboxMarker)
		assert.True(t, strings.HasPrefix(literal[marker.Offset:], "From "))
	}

	// The independent mbox reader must agree on the message count.
	var oracle int

	mr := mbox.NewReader(bytes.NewReader(buf.Bytes()))

	for {
		r, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		_, err = io.Copy(io.Discard, r)
		require.NoError(t, err)

		oracle++
	}

	assert.Equal(t, oracle, len(markers))
}
