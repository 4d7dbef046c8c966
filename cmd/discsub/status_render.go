package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"discsub/internal/pipeline"
	"discsub/internal/preflight"
	"discsub/internal/store"
)

// statusKind classifies a preflight check, pipeline stage or finished run.
type statusKind int

const (
	statusOK statusKind = iota
	statusSkipped
	statusWarn
	statusFailed
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusOK:      {"OK", ansiGreen},
	statusSkipped: {"SKIP", ansiBlue},
	statusWarn:    {"WARN", ansiYellow},
	statusFailed:  {"FAIL", ansiRed},
}

const statusLabelWidth = 20

// statusPrinter writes aligned "label: [KIND] detail" lines, coloured only
// when writing to a terminal.
type statusPrinter struct {
	w        io.Writer
	colorize bool
}

func newStatusPrinter(w io.Writer) statusPrinter {
	return statusPrinter{w: w, colorize: isTerminal(w)}
}

func (p statusPrinter) paint(kind statusKind, text string) string {
	if !p.colorize {
		return text
	}
	return statusStyles[kind].color + text + ansiReset
}

func (p statusPrinter) header(title string) {
	line := "== " + strings.TrimSpace(title) + " =="
	fmt.Fprintln(p.w, p.paint(statusSkipped, line))
	fmt.Fprintln(p.w, p.paint(statusSkipped, strings.Repeat("-", len(line))))
}

func (p statusPrinter) check(label string, kind statusKind, detail string) {
	text := "[" + statusStyles[kind].label + "]"
	if detail != "" {
		text += " " + detail
	}
	fmt.Fprintln(p.w, p.paint(kind, fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", text)))
}

// Optional checks that fail only warn: the feature they gate is disabled.
func preflightStatus(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	}
	return statusFailed
}

func stageStatus(r pipeline.StageResult) statusKind {
	switch {
	case r.Skipped:
		return statusSkipped
	case r.OK:
		return statusOK
	}
	return statusFailed
}

// An unmatched run still produced a report, so it warns rather than fails.
func runStatus(s store.Status) statusKind {
	switch s {
	case store.StatusMatched:
		return statusOK
	case store.StatusUnmatched:
		return statusWarn
	}
	return statusFailed
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
