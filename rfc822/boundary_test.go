package rfc822

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundaryClassify(t *testing.T) {
	boundary := NewBoundary("simple boundary")

	assert.Equal(t, BoundaryOpen, boundary.Classify([]byte("--simple boundary\r\n")))
	assert.Equal(t, BoundaryOpen, boundary.Classify([]byte("--simple boundary \n")))
	assert.Equal(t, BoundaryClose, boundary.Classify([]byte("--simple boundary--\n")))
	assert.Equal(t, BoundaryClose, boundary.Classify([]byte("--simple boundary-- \t\r\n")))

	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("simple boundary\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--simple boundar\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--simple boundary extra\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--other boundary\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("body text --simple boundary\n")))
}

func TestBoundaryClassifyPrefixToken(t *testing.T) {
	// A token that is a prefix of another must not match the longer line.
	boundary := NewBoundary("abc")

	assert.Equal(t, BoundaryOpen, boundary.Classify([]byte("--abc\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--abcdef\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--abc-def\n")))
	assert.Equal(t, BoundaryClose, boundary.Classify([]byte("--abc--\n")))
}

func TestBoundaryZero(t *testing.T) {
	var boundary Boundary

	assert.True(t, boundary.IsZero())
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("--\n")))
	assert.Equal(t, BoundaryNone, boundary.Classify([]byte("----\n")))
}
