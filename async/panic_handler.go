package async

// PanicHandler receives the value recovered from a panicking scan goroutine.
type PanicHandler interface {
	HandlePanic(r any)
}

// NoopPanicHandler swallows the recovered value.
type NoopPanicHandler struct{}

func (NoopPanicHandler) HandlePanic(any) {}

// HandlePanic recovers a panic on the calling goroutine and forwards the
// recovered value to the handler. It must be deferred directly.
func HandlePanic(panicHandler PanicHandler) {
	r := recover()
	if r == nil {
		return
	}

	if panicHandler != nil {
		panicHandler.HandlePanic(r)
	}
}
