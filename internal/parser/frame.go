package parser

import (
	"github.com/axunonb/mimescan/rfc822"
)

// Kind identifies one of the structural frame types tracked on the scan
// stack.
type Kind int

const (
	KindMessage Kind = iota
	KindMessagePart
	KindMultipart
	KindMimePart
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"

	case KindMessagePart:
		return "message-part"

	case KindMultipart:
		return "multipart"

	case KindMimePart:
		return "mime-part"

	default:
		return "unknown"
	}
}

// frame is one open structural element. Frames are owned exclusively by the
// parser's stack and are never referenced after they are popped.
type frame struct {
	kind Kind

	offset     int64
	line       int
	headersEnd int64

	contentType rfc822.MIMEType

	contentLength    int64
	hasContentLength bool

	// boundary and children are used by multipart frames only.
	boundary rfc822.Boundary
	children int

	// epilogue is set once a multipart has seen its closing boundary.
	epilogue bool

	// lines counts leaf body lines; multipart and message frames recurse
	// instead of counting.
	lines int

	// headersDone marks a message frame whose header block has been read.
	headersDone bool

	// spawned marks a message-part frame that has pushed its nested message.
	spawned bool
}

func (p *Parser) top() *frame {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(f *frame) {
	p.stack = append(p.stack, f)

	p.log.WithFields(logFields(f)).Trace("Frame pushed")
}

func (p *Parser) pop() *frame {
	f := p.top()

	p.stack[len(p.stack)-1] = nil
	p.stack = p.stack[:len(p.stack)-1]

	p.log.WithFields(logFields(f)).Trace("Frame popped")

	return f
}
