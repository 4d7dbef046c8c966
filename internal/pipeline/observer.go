package pipeline

import (
	"fmt"
	"io"
	"time"
)

// Observer receives progress while a run executes.
type Observer interface {
	Progress(stage, message string)
	StageComplete(result StageResult)
}

type nopObserver struct{}

func (nopObserver) Progress(string, string)   {}
func (nopObserver) StageComplete(StageResult) {}

// WriterObserver prints progress lines to an io.Writer.
type WriterObserver struct {
	W io.Writer
	// Verbose also prints per-stage progress messages.
	Verbose bool
}

func (o WriterObserver) Progress(stage, message string) {
	if o.W == nil || !o.Verbose {
		return
	}
	fmt.Fprintf(o.W, "  [%s] %s\n", stage, message)
}

func (o WriterObserver) StageComplete(result StageResult) {
	if o.W == nil {
		return
	}
	status := "ok"
	switch {
	case result.Skipped:
		status = "skipped"
	case !result.OK:
		status = "failed"
	}
	line := fmt.Sprintf("%-12s %-8s %s", result.Stage, status, result.Duration.Round(time.Millisecond))
	if result.Message != "" {
		line += "  " + result.Message
	}
	fmt.Fprintln(o.W, line)
}
