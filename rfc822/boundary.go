package rfc822

import "bytes"

type BoundaryMatch int

const (
	// BoundaryNone means the line is ordinary content.
	BoundaryNone BoundaryMatch = iota

	// BoundaryOpen means the line introduces a new child part.
	BoundaryOpen

	// BoundaryClose means the line terminates the multipart's children.
	BoundaryClose
)

// Boundary matches lines against a multipart's declared boundary token.
type Boundary struct {
	token []byte
}

func NewBoundary(token string) Boundary {
	return Boundary{token: []byte(token)}
}

func (b Boundary) IsZero() bool {
	return len(b.token) == 0
}

// Classify reports whether the given raw line (terminator included) is an
// encapsulation boundary, a closing boundary, or neither. Trailing
// whitespace after the boundary is tolerated.
func (b Boundary) Classify(line []byte) BoundaryMatch {
	if b.IsZero() {
		return BoundaryNone
	}

	line = bytes.TrimRight(line, " \t\r\n")

	if !bytes.HasPrefix(line, []byte("--")) {
		return BoundaryNone
	}

	rest := line[2:]

	if !bytes.HasPrefix(rest, b.token) {
		return BoundaryNone
	}

	switch rest = rest[len(b.token):]; {
	case len(rest) == 0:
		return BoundaryOpen

	case bytes.Equal(rest, []byte("--")):
		return BoundaryClose

	default:
		return BoundaryNone
	}
}
