package async

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	recovered any
}

func (h *recordingHandler) HandlePanic(r any) {
	h.recovered = r
}

func TestPanicHandler(t *testing.T) {
	handler := new(recordingHandler)

	require.NotPanics(t, func() {
		defer HandlePanic(handler)
		panic("there")
	})
	require.Equal(t, "there", handler.recovered)

	require.NotPanics(t, func() {
		defer HandlePanic(NoopPanicHandler{})
		panic("where")
	})

	require.NotPanics(t, func() {
		defer HandlePanic(nil)
		panic("everywhere")
	})

	require.NotPanics(t, func() {
		defer HandlePanic(handler)
	})
}
