// Package events defines the structural notifications emitted while
// scanning a MIME or mbox byte stream. Every payload carries exact offsets
// into the original stream so consumers can later re-read any byte range.
package events

import "github.com/axunonb/mimescan/rfc822"

type Event interface {
	_isEvent()
}

type eventBase struct{}

func (eventBase) _isEvent() {}

// MboxMarker reports a recognized "From " separator line. It always
// immediately precedes the MessageBegin event for the message it introduces.
type MboxMarker struct {
	eventBase

	// Raw holds the marker line bytes, terminator included.
	Raw []byte

	Offset int64
	Line   int
}

type MessageBegin struct {
	eventBase

	Offset int64
	Line   int
}

type MessageEnd struct {
	eventBase

	Offset     int64
	Line       int
	HeadersEnd int64
	End        int64
	Lines      int
}

type MessagePartBegin struct {
	eventBase

	Offset      int64
	Line        int
	ContentType rfc822.MIMEType
}

type MessagePartEnd struct {
	eventBase

	Offset      int64
	Line        int
	HeadersEnd  int64
	End         int64
	Lines       int
	ContentType rfc822.MIMEType
}

type MultipartBegin struct {
	eventBase

	Offset      int64
	Line        int
	ContentType rfc822.MIMEType
}

type MultipartEnd struct {
	eventBase

	Offset      int64
	Line        int
	HeadersEnd  int64
	End         int64
	Lines       int
	Children    int
	ContentType rfc822.MIMEType
}

type MimePartBegin struct {
	eventBase

	Offset      int64
	Line        int
	ContentType rfc822.MIMEType
}

type MimePartEnd struct {
	eventBase

	Offset      int64
	Line        int
	HeadersEnd  int64
	End         int64
	Lines       int
	ContentType rfc822.MIMEType
}

// StreamDone terminates a streamed scan. Err is nil when the scan consumed
// its input cleanly.
type StreamDone struct {
	eventBase

	Err error
}

func (e MessageEnd) Octets() int64     { return e.End - e.HeadersEnd }
func (e MessagePartEnd) Octets() int64 { return e.End - e.HeadersEnd }
func (e MultipartEnd) Octets() int64   { return e.End - e.HeadersEnd }
func (e MimePartEnd) Octets() int64    { return e.End - e.HeadersEnd }
