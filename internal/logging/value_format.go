package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// consoleValue renders v for the console handler. Header values (component,
// stage, run) are written bare; body values are quoted when a raw rendering
// would break the "key: value" line.
func consoleValue(v slog.Value, header bool) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String(), header)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return quoteIfNeeded(x.Error(), header)
		case []string:
			if len(x) == 0 {
				return "(none)"
			}
			return strings.Join(x, ", ")
		case fmt.Stringer:
			return quoteIfNeeded(x.String(), header)
		}
		return fmt.Sprint(v.Any())
	}
	return v.String()
}

// LibCrypt sector lists and catalog errors span lines; quoting keeps each
// log entry on one body line.
func quoteIfNeeded(s string, header bool) string {
	if header {
		return s
	}
	if s == "" || strings.ContainsAny(s, "\t\n\r\"") {
		return strconv.Quote(s)
	}
	return s
}
