package rfc822

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// HeaderParser collects raw header lines one at a time and extracts the two
// values structural scanning depends on: the content type (with parameters)
// and an optional content length. Lines that do not look like header fields
// are skipped; real archives contain plenty of them.
type HeaderParser struct {
	fields []headerField
}

type headerField struct {
	key   []byte
	value []byte
}

// Feed adds one raw header line. The line may include its CRLF or LF
// terminator. Folded continuation lines are merged into the previous field.
func (hp *HeaderParser) Feed(line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}

	if line[0] == ' ' || line[0] == '\t' {
		if len(hp.fields) == 0 {
			return
		}

		last := &hp.fields[len(hp.fields)-1]
		last.value = append(last.value, ' ')
		last.value = append(last.value, bytes.TrimLeft(line, " \t")...)

		return
	}

	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return
	}

	key := line[:colon]

	for _, v := range key {
		if v < 33 || v > 126 {
			return
		}
	}

	hp.fields = append(hp.fields, headerField{
		key:   key,
		value: bytes.TrimLeft(line[colon+1:], " \t"),
	})
}

// Get returns the value of the first field with the given key, or the empty
// string if the key is absent.
func (hp *HeaderParser) Get(key string) string {
	idx := slices.IndexFunc(hp.fields, func(field headerField) bool {
		return strings.EqualFold(string(field.key), key)
	})

	if idx < 0 {
		return ""
	}

	return string(hp.fields[idx].value)
}

// ContentType resolves the parsed Content-Type value, falling back to the
// given default when the header is absent or malformed.
func (hp *HeaderParser) ContentType(fallback MIMEType) (MIMEType, map[string]string) {
	val := hp.Get("Content-Type")
	if val == "" {
		val = string(fallback)
	}

	mimeType, params, err := ParseContentType(val)
	if err != nil {
		return fallback, nil
	}

	return mimeType, params
}

// ContentLength returns the parsed Content-Length value. The second return
// is false when the header is absent, malformed or negative.
func (hp *HeaderParser) ContentLength() (int64, bool) {
	val := hp.Get("Content-Length")
	if val == "" {
		return 0, false
	}

	length, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || length < 0 {
		return 0, false
	}

	return length, true
}
