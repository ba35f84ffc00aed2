// Package logging spawns goroutines annotated with pprof labels so that
// background scans remain attributable in profiles.
package logging

import (
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strconv"
)

// GoAnnotate runs fn on a new goroutine annotated with the caller's location
// and the given labels.
func GoAnnotate(ctx context.Context, fn func(context.Context), labelMap ...map[string]any) {
	go pprof.Do(ctx, getLabels(labelMap...), fn)
}

// DoAnnotate runs fn on the calling goroutine with the same annotations.
func DoAnnotate(ctx context.Context, fn func(context.Context), labelMap ...map[string]any) {
	pprof.Do(ctx, getLabels(labelMap...), fn)
}

func getLabels(labelMap ...map[string]any) pprof.LabelSet {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		panic("failed to get caller's stack frame")
	}

	labels := []string{"fn", runtime.FuncForPC(pc).Name(), "file", file, "line", strconv.Itoa(line)}

	for _, labelMap := range labelMap {
		for key, val := range labelMap {
			labels = append(labels, key, fmt.Sprintf("%v", val))
		}
	}

	return pprof.Labels(labels...)
}
