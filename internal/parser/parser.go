// Package parser implements the structural state machine that walks a MIME
// or mbox byte stream and emits begin/end notifications with exact offsets.
// Nesting is tracked on an explicit frame stack rather than through language
// recursion, so arbitrarily deep (or malformed) structure cannot exhaust the
// call stack.
package parser

import (
	"context"
	"errors"
	"io"

	"github.com/axunonb/mimescan/events"
	"github.com/axunonb/mimescan/internal/scan"
	"github.com/axunonb/mimescan/rfc822"
	"github.com/sirupsen/logrus"
)

// mboxMarker is the separator prefix at column 0 of a logical line.
var mboxMarker = []byte("From ")

// Sink receives structural events in scan order. A non-nil error aborts the
// scan and is propagated to the caller.
type Sink interface {
	Emit(ctx context.Context, event events.Event) error
}

type Parser struct {
	scanner *scan.Scanner

	mbox                 bool
	respectContentLength bool

	stack []*frame

	// pending holds a line that was read while scanning but belongs to the
	// next structural decision (an mbox marker terminating the current
	// message, or a boundary line found inside a truncated header block).
	pending *scan.Line

	log *logrus.Entry
}

func New(scanner *scan.Scanner, mbox, respectContentLength bool, log *logrus.Entry) *Parser {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Parser{
		scanner:              scanner,
		mbox:                 mbox,
		respectContentLength: respectContentLength,
		log:                  log,
	}
}

// ReadMessage scans exactly one top-level message starting at the current
// position. In mbox mode the message is introduced by its "From " marker
// line; content before the marker is skipped. It returns io.EOF when no
// further message can be started.
func (p *Parser) ReadMessage(ctx context.Context, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.mbox {
		if err := p.seekMarker(ctx, sink); err != nil {
			return err
		}
	} else {
		if p.IsEndOfStream() {
			return io.EOF
		}

		offset, line := p.position()

		p.push(&frame{kind: KindMessage, offset: offset, line: line})

		if err := sink.Emit(ctx, events.MessageBegin{Offset: offset, Line: line}); err != nil {
			return err
		}
	}

	return p.run(ctx, sink)
}

// ReadEntity scans one MIME entity whose headers start at the current
// position, without requiring an mbox marker or message wrapper.
func (p *Parser) ReadEntity(ctx context.Context, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.IsEndOfStream() {
		return io.EOF
	}

	if err := p.beginEntity(ctx, sink, nil); err != nil {
		return err
	}

	return p.run(ctx, sink)
}

// IsEndOfStream reports whether the source is exhausted and no further
// top-level entity can be started.
func (p *Parser) IsEndOfStream() bool {
	return p.pending == nil && p.scanner.IsExhausted()
}

// Position returns the byte offset and line number of the next unconsumed
// byte.
func (p *Parser) position() (int64, int) {
	if p.pending != nil {
		return p.pending.Offset, p.pending.Number
	}

	return p.scanner.Offset(), p.scanner.Line()
}

// Position is the exported form of position.
func (p *Parser) Position() (int64, int) {
	return p.position()
}

func (p *Parser) readLine(ctx context.Context) (scan.Line, error) {
	if p.pending != nil {
		line := *p.pending
		p.pending = nil

		return line, nil
	}

	return p.scanner.ReadLine(ctx)
}

// seekMarker advances to the next "From " separator, emits the marker event
// and pushes the message frame. The message begin offset is the marker
// line's own offset; blank lines (or stray content) between messages belong
// to no message.
func (p *Parser) seekMarker(ctx context.Context, sink Sink) error {
	for {
		line, err := p.readLine(ctx)
		if err != nil {
			return err
		}

		if !line.HasPrefix(mboxMarker) {
			continue
		}

		marker := events.MboxMarker{Raw: line.Raw, Offset: line.Offset, Line: line.Number}

		if err := sink.Emit(ctx, marker); err != nil {
			return err
		}

		p.push(&frame{kind: KindMessage, offset: line.Offset, line: line.Number})

		return sink.Emit(ctx, events.MessageBegin{Offset: line.Offset, Line: line.Number})
	}
}

// run drives the frame stack until every frame begun by the current call has
// been closed.
func (p *Parser) run(ctx context.Context, sink Sink) error {
	for len(p.stack) > 0 {
		top := p.top()

		switch {
		case top.kind == KindMessage && !top.headersDone:
			if err := p.beginMessageBody(ctx, sink, top); err != nil {
				return err
			}

		case top.kind == KindMessagePart && !top.spawned:
			if err := p.spawnMessage(ctx, sink, top); err != nil {
				return err
			}

		case top.kind == KindMimePart && p.respectContentLength && top.hasContentLength:
			if err := p.consumeDeclaredLength(ctx, sink, top); err != nil {
				return err
			}

		default:
			if err := p.scanLine(ctx, sink); err != nil {
				return err
			}
		}
	}

	return nil
}

// beginMessageBody reads the message's header block and pushes the body
// entity. The body entity shares the message's header block: it begins at
// the first header line and its headers end where the message's do.
func (p *Parser) beginMessageBody(ctx context.Context, sink Sink, msg *frame) error {
	offset, line := p.position()

	hp, headersEnd, err := p.readHeaders(ctx)
	if err != nil {
		return err
	}

	msg.headersDone = true
	msg.headersEnd = headersEnd

	return p.pushEntity(ctx, sink, hp, rfc822.TextPlain, offset, line, headersEnd)
}

// beginEntity reads a fresh header block at the current position and pushes
// the entity it describes. parent is the owning multipart, or nil at top
// level; children of a multipart/digest default to message/rfc822.
func (p *Parser) beginEntity(ctx context.Context, sink Sink, parent *frame) error {
	offset, line := p.position()

	hp, headersEnd, err := p.readHeaders(ctx)
	if err != nil {
		return err
	}

	fallback := rfc822.TextPlain
	if parent != nil && parent.contentType == rfc822.MultipartDigest {
		fallback = rfc822.MessageRFC822
	}

	if parent != nil {
		parent.children++
	}

	return p.pushEntity(ctx, sink, hp, fallback, offset, line, headersEnd)
}

// pushEntity creates the frame for an entity whose header block has already
// been consumed, and emits its begin event with the resolved content type.
func (p *Parser) pushEntity(ctx context.Context, sink Sink, hp *rfc822.HeaderParser, fallback rfc822.MIMEType, offset int64, line int, headersEnd int64) error {
	contentType, params := hp.ContentType(fallback)

	f := &frame{
		offset:      offset,
		line:        line,
		headersEnd:  headersEnd,
		contentType: contentType,
	}

	f.contentLength, f.hasContentLength = hp.ContentLength()

	switch {
	case contentType.IsMessage():
		f.kind = KindMessagePart

	case contentType.IsMultipart() && params["boundary"] != "":
		f.kind = KindMultipart
		f.boundary = rfc822.NewBoundary(params["boundary"])

	default:
		// A multipart without a boundary parameter cannot delimit children
		// and is scanned as an opaque leaf.
		f.kind = KindMimePart
	}

	p.push(f)

	return sink.Emit(ctx, beginEvent(f))
}

// spawnMessage pushes the embedded message of a message/rfc822 part. The
// part itself owns no boundary; it ends wherever its nested message ends.
func (p *Parser) spawnMessage(ctx context.Context, sink Sink, part *frame) error {
	part.spawned = true

	offset, line := p.position()

	p.push(&frame{kind: KindMessage, offset: offset, line: line})

	return sink.Emit(ctx, events.MessageBegin{Offset: offset, Line: line})
}

// readHeaders consumes lines up to and including the header/body blank line
// and returns the position just after it. A truncated header block is ended
// early by end-of-stream, by an mbox marker or by an open boundary line; the
// offending line is left pending for the structural scan to deal with.
func (p *Parser) readHeaders(ctx context.Context) (*rfc822.HeaderParser, int64, error) {
	hp := new(rfc822.HeaderParser)

	for {
		line, err := p.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return hp, p.scanner.Offset(), nil
			}

			return nil, 0, err
		}

		if line.IsBlank() {
			return hp, line.End(), nil
		}

		if p.mbox && line.HasPrefix(mboxMarker) {
			p.pending = &line
			return hp, line.Offset, nil
		}

		if p.matchesOpenBoundary(line.Raw) {
			p.pending = &line
			return hp, line.Offset, nil
		}

		hp.Feed(line.Raw)
	}
}

func (p *Parser) matchesOpenBoundary(raw []byte) bool {
	for i := len(p.stack) - 1; i >= 0; i-- {
		f := p.stack[i]

		if f.kind != KindMultipart || f.epilogue {
			continue
		}

		if f.boundary.Classify(raw) != rfc822.BoundaryNone {
			return true
		}
	}

	return false
}

// scanLine processes one line of a leaf body or multipart interior. Boundary
// matching starts at the innermost open multipart and walks outward, so a
// child missing its closing boundary is implicitly closed by an ancestor's.
// In mbox mode a "From " marker line terminates the whole message; boundary
// matches take precedence over marker recognition.
func (p *Parser) scanLine(ctx context.Context, sink Sink) error {
	line, err := p.readLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return p.closeFrames(ctx, sink, 0, p.scanner.Offset())
		}

		return err
	}

	if p.respectContentLength {
		for i := len(p.stack) - 1; i >= 0; i-- {
			f := p.stack[i]

			if f.kind != KindMultipart || !f.hasContentLength {
				continue
			}

			if limit := f.headersEnd + f.contentLength; line.Offset >= limit {
				p.pending = &line
				return p.closeFrames(ctx, sink, i, limit)
			}
		}
	}

	for i := len(p.stack) - 1; i >= 0; i-- {
		f := p.stack[i]

		if f.kind != KindMultipart || f.epilogue {
			continue
		}

		switch f.boundary.Classify(line.Raw) {
		case rfc822.BoundaryOpen:
			if err := p.closeFrames(ctx, sink, i+1, line.Offset); err != nil {
				return err
			}

			return p.beginEntity(ctx, sink, f)

		case rfc822.BoundaryClose:
			if err := p.closeFrames(ctx, sink, i+1, line.Offset); err != nil {
				return err
			}

			f.epilogue = true

			return nil
		}
	}

	if p.mbox && line.HasPrefix(mboxMarker) {
		p.pending = &line
		return p.closeFrames(ctx, sink, 0, line.Offset)
	}

	if top := p.top(); top.kind == KindMimePart {
		top.lines++
	}

	return nil
}

// consumeDeclaredLength bounds a leaf body by its Content-Length header,
// overriding boundary and marker scanning. A declared length overrunning the
// stream is clamped to end-of-stream.
func (p *Parser) consumeDeclaredLength(ctx context.Context, sink Sink, leaf *frame) error {
	// A pending marker or boundary line already terminated the header
	// block; it starts the next structural element, so the truncated
	// entity owns no body octets.
	if p.pending != nil {
		return p.closeFrames(ctx, sink, len(p.stack)-1, leaf.headersEnd)
	}

	consumed, lines, err := p.scanner.Discard(ctx, leaf.contentLength)
	if err != nil {
		return err
	}

	leaf.lines = lines

	return p.closeFrames(ctx, sink, len(p.stack)-1, leaf.headersEnd+consumed)
}

// closeFrames closes stack[from:] innermost-first at the given end offset,
// then cascades: a message or message-part whose body just closed ends at
// the same offset. The cascade stops at a multipart, which resumes scanning
// for its next boundary. A declared-length limit can fall inside a nested
// frame's already-consumed header block; the close offset never precedes a
// frame's own headersEnd.
func (p *Parser) closeFrames(ctx context.Context, sink Sink, from int, end int64) error {
	if from >= len(p.stack) {
		return nil
	}

	for len(p.stack) > from {
		if err := p.closeFrame(ctx, sink, end); err != nil {
			return err
		}
	}

	for len(p.stack) > 0 {
		top := p.top()

		if (top.kind != KindMessage || !top.headersDone) && (top.kind != KindMessagePart || !top.spawned) {
			break
		}

		if err := p.closeFrame(ctx, sink, end); err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) closeFrame(ctx context.Context, sink Sink, end int64) error {
	f := p.pop()

	if end < f.headersEnd {
		end = f.headersEnd
	}

	return sink.Emit(ctx, endEvent(f, end))
}

func beginEvent(f *frame) events.Event {
	switch f.kind {
	case KindMessagePart:
		return events.MessagePartBegin{Offset: f.offset, Line: f.line, ContentType: f.contentType}

	case KindMultipart:
		return events.MultipartBegin{Offset: f.offset, Line: f.line, ContentType: f.contentType}

	default:
		return events.MimePartBegin{Offset: f.offset, Line: f.line, ContentType: f.contentType}
	}
}

func endEvent(f *frame, end int64) events.Event {
	switch f.kind {
	case KindMessage:
		return events.MessageEnd{Offset: f.offset, Line: f.line, HeadersEnd: f.headersEnd, End: end, Lines: f.lines}

	case KindMessagePart:
		return events.MessagePartEnd{Offset: f.offset, Line: f.line, HeadersEnd: f.headersEnd, End: end, Lines: f.lines, ContentType: f.contentType}

	case KindMultipart:
		return events.MultipartEnd{Offset: f.offset, Line: f.line, HeadersEnd: f.headersEnd, End: end, Lines: f.lines, Children: f.children, ContentType: f.contentType}

	default:
		return events.MimePartEnd{Offset: f.offset, Line: f.line, HeadersEnd: f.headersEnd, End: end, Lines: f.lines, ContentType: f.contentType}
	}
}

func logFields(f *frame) logrus.Fields {
	return logrus.Fields{
		"kind":   f.kind.String(),
		"offset": f.offset,
		"line":   f.line,
	}
}
