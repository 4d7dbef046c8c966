package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// jsonKeys shortens the built-in record keys.
var jsonKeys = map[string]string{
	slog.TimeKey:    "ts",
	slog.LevelKey:   "level",
	slog.MessageKey: "msg",
	slog.SourceKey:  "caller",
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	})
}

// replaceJSONAttr writes times in UTC, levels in lower case, callers as
// file:line and durations as integer milliseconds under a "_ms" key, so
// stage timings can be summed by log tooling.
func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 {
		if key, ok := jsonKeys[attr.Key]; ok {
			attr.Key = key
		}
	}
	v := attr.Value
	switch v.Kind() {
	case slog.KindTime:
		attr.Value = slog.StringValue(v.Time().UTC().Format(time.RFC3339))
	case slog.KindDuration:
		attr.Key += "_ms"
		attr.Value = slog.Int64Value(v.Duration().Milliseconds())
	case slog.KindAny:
		switch x := v.Any().(type) {
		case slog.Level:
			attr.Value = slog.StringValue(strings.ToLower(x.String()))
		case *slog.Source:
			if x != nil {
				attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(x.File), x.Line))
			}
		}
	}
	return attr
}
