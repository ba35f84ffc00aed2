// Package rfc822 provides the small amount of header understanding the
// structural scanner needs: content-type resolution, content-length
// extraction and multipart boundary classification. It deliberately does not
// build a header object model.
package rfc822

import (
	"mime"
	"strings"
)

type MIMEType string

const (
	TextPlain        MIMEType = "text/plain"
	TextHTML         MIMEType = "text/html"
	MultipartMixed   MIMEType = "multipart/mixed"
	MultipartDigest  MIMEType = "multipart/digest"
	MultipartRelated MIMEType = "multipart/related"
	MessageRFC822    MIMEType = "message/rfc822"
)

func (t MIMEType) IsMultipart() bool {
	return strings.HasPrefix(string(t), "multipart/")
}

func (t MIMEType) IsMessage() bool {
	return t == MessageRFC822 || t == "message/global"
}

func (t MIMEType) Type() string {
	if split := strings.SplitN(string(t), "/", 2); len(split) == 2 {
		return split[0]
	}

	return string(t)
}

func (t MIMEType) SubType() string {
	if split := strings.SplitN(string(t), "/", 2); len(split) == 2 {
		return split[1]
	}

	return ""
}

// ParseContentType parses a Content-Type header value, falling back to
// text/plain when the value is absent, as RFC 2045 requires.
func ParseContentType(val string) (MIMEType, map[string]string, error) {
	if val == "" {
		val = string(TextPlain)
	}

	mimeType, params, err := mime.ParseMediaType(val)
	if err != nil {
		return "", nil, err
	}

	return MIMEType(strings.ToLower(mimeType)), params, nil
}
