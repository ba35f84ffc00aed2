// Package scan provides a single-pass, line-oriented byte scanner that keeps
// exact offsets and line numbers for the original stream bytes.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
)

// Line is one scanned line. Raw includes the terminator when present; the
// stream-final line may be unterminated. Offsets and numbers refer to the
// original stream, with no line-ending normalization applied.
type Line struct {
	Raw    []byte
	Offset int64
	Number int
}

// End returns the offset of the first byte after the line.
func (l Line) End() int64 {
	return l.Offset + int64(len(l.Raw))
}

// IsBlank reports whether the logical line is empty, i.e. contains nothing
// but its terminator.
func (l Line) IsBlank() bool {
	return len(bytes.TrimRight(l.Raw, "\r\n")) == 0
}

// HasPrefix reports whether the logical line starts with the given bytes at
// column 0.
func (l Line) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(l.Raw, prefix)
}

// Scanner reads lines from an underlying source while tracking the current
// byte offset and zero-based line number. It is strictly forward-only; bytes
// handed out are never re-read.
type Scanner struct {
	br     *bufio.Reader
	offset int64
	line   int
}

func New(r io.Reader) *Scanner {
	return &Scanner{br: bufio.NewReader(r)}
}

// ReadLine returns the next line together with its starting offset and line
// number. It returns io.EOF once the source is exhausted. Both CRLF and bare
// LF terminated lines are returned as-is; the caller owns the returned bytes.
func (s *Scanner) ReadLine(ctx context.Context) (Line, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, err
	}

	raw, err := s.br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Line{}, err
	}

	if len(raw) == 0 {
		return Line{}, io.EOF
	}

	line := Line{Raw: raw, Offset: s.offset, Number: s.line}

	s.offset += int64(len(raw))
	s.line++

	return line, nil
}

// Discard consumes up to n octets, returning how many were consumed and how
// many newlines they contained. Fewer than n octets are consumed only when
// the source ends first.
func (s *Scanner) Discard(ctx context.Context, n int64) (int64, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	var (
		consumed int64
		lines    int
		buf      [4096]byte
	)

	for consumed < n {
		chunk := int64(len(buf))
		if rem := n - consumed; rem < chunk {
			chunk = rem
		}

		read, err := s.br.Read(buf[:chunk])

		consumed += int64(read)
		lines += bytes.Count(buf[:read], []byte("\n"))

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			s.advance(consumed, lines)

			return consumed, lines, err
		}
	}

	s.advance(consumed, lines)

	return consumed, lines, nil
}

// IsExhausted reports whether the source has no more bytes to offer.
func (s *Scanner) IsExhausted() bool {
	_, err := s.br.Peek(1)
	return errors.Is(err, io.EOF)
}

// Offset returns the offset of the next byte to be read.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Line returns the zero-based number of the next line to be read.
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) advance(octets int64, lines int) {
	s.offset += octets
	s.line += lines
}
