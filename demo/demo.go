package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/axunonb/mimescan"
	"github.com/axunonb/mimescan/events"
	"github.com/axunonb/mimescan/logging"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

// printHandler renders the recognized structure as an indented tree.
type printHandler struct {
	mimescan.NoopHandler

	depth int
}

func (h *printHandler) enter(format string, args ...any) {
	fmt.Printf("%s%s\n", strings.Repeat("  ", h.depth), fmt.Sprintf(format, args...))
	h.depth++
}

func (h *printHandler) leave(format string, args ...any) {
	h.depth--
	fmt.Printf("%s%s\n", strings.Repeat("  ", h.depth), fmt.Sprintf(format, args...))
}

func (h *printHandler) OnMboxMarker(_ context.Context, event events.MboxMarker) error {
	fmt.Printf("%s* %s (offset %d, line %d)\n", strings.Repeat("  ", h.depth), strings.TrimRight(string(event.Raw), "\r\n"), event.Offset, event.Line)
	return nil
}

func (h *printHandler) OnMessageBegin(_ context.Context, event events.MessageBegin) error {
	h.enter("message @%d", event.Offset)
	return nil
}

func (h *printHandler) OnMessageEnd(_ context.Context, event events.MessageEnd) error {
	h.leave("message end @%d (%d octets)", event.End, event.Octets())
	return nil
}

func (h *printHandler) OnMessagePartBegin(_ context.Context, event events.MessagePartBegin) error {
	h.enter("message-part %s @%d", event.ContentType, event.Offset)
	return nil
}

func (h *printHandler) OnMessagePartEnd(_ context.Context, event events.MessagePartEnd) error {
	h.leave("message-part end @%d", event.End)
	return nil
}

func (h *printHandler) OnMultipartBegin(_ context.Context, event events.MultipartBegin) error {
	h.enter("multipart %s @%d", event.ContentType, event.Offset)
	return nil
}

func (h *printHandler) OnMultipartEnd(_ context.Context, event events.MultipartEnd) error {
	h.leave("multipart end @%d (%d children)", event.End, event.Children)
	return nil
}

func (h *printHandler) OnMimePartBegin(_ context.Context, event events.MimePartBegin) error {
	h.enter("%s @%d", event.ContentType, event.Offset)
	return nil
}

func (h *printHandler) OnMimePartEnd(_ context.Context, event events.MimePartEnd) error {
	h.leave("%s end @%d (%d octets, %d lines)", event.ContentType, event.End, event.Octets(), event.Lines)
	return nil
}

func main() {
	if level, err := logrus.ParseLevel(os.Getenv("MIMESCAN_LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	prof := flag.Bool("profile", false, "write a CPU profile of the scan")
	respectCL := flag.Bool("content-length", false, "trust Content-Length headers for body bounds")
	format := flag.String("format", "mbox", "input format: mbox or message")

	flag.Parse()

	if flag.NArg() != 1 {
		logrus.Fatalf("Usage: %s [-profile] [-content-length] [-format mbox|message] <file>", os.Args[0])
	}

	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open input")
	}

	defer f.Close()

	mode := mimescan.FormatMbox
	if *format == "message" {
		mode = mimescan.FormatMessage
	}

	withOpt := []mimescan.Option{mimescan.WithHandler(&printHandler{})}
	if *respectCL {
		withOpt = append(withOpt, mimescan.WithRespectContentLength())
	}

	reader, err := mimescan.New(f, mode, withOpt...)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create reader")
	}

	logging.DoAnnotate(context.Background(), func(ctx context.Context) {
		if mode == mimescan.FormatMessage {
			if err := reader.ReadMessageContext(ctx); err != nil {
				logrus.WithError(err).Fatal("Failed to read message")
			}

			return
		}

		for !reader.IsEndOfStream() {
			if err := reader.ReadMessageContext(ctx); err != nil {
				logrus.WithError(err).Fatal("Failed to read message")
			}
		}
	}, map[string]any{"input": flag.Arg(0)})
}
