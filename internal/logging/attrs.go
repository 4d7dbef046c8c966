package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

const (
	// FieldBaseName is the output base name a run writes under.
	FieldBaseName = "base_name"
	// FieldSystem is the disc's system.
	FieldSystem = "system"
	// FieldMedia is the disc's media type.
	FieldMedia = "media"
	// FieldCatalogID is a catalog entry identifier.
	FieldCatalogID = "catalog_id"
	// FieldRule names a derivation rule.
	FieldRule = "rule"
)

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Strings(key string, values []string) Attr { return slog.Any(key, values) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func BaseName(name string) Attr { return slog.String(FieldBaseName, name) }

func System(system string) Attr { return slog.String(FieldSystem, system) }

func Media(media string) Attr { return slog.String(FieldMedia, media) }

func CatalogID(id int) Attr { return slog.Int(FieldCatalogID, id) }

func Rule(name string) Attr { return slog.String(FieldRule, name) }

// NewComponentLogger tags logger with a component name. A nil logger
// discards output.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// Defaults for warnings whose caller did not say what to do next or what
// the warning costs the submission.
const (
	defaultErrorHint = "set logging.level = \"debug\" and rerun for details"
	defaultImpact    = "submission written with the affected fields left unchanged"
)

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact fields.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	required := []Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultErrorHint),
		String(FieldImpact, defaultImpact),
	}
	for _, attr := range required {
		if !hasAttr(attrs, attr.Key) {
			attrs = append(attrs, attr)
		}
	}
	logger.Warn(msg, args(attrs)...)
}

func hasAttr(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

func args(attrs []Attr) []any {
	out := make([]any, len(attrs))
	for i, attr := range attrs {
		out[i] = attr
	}
	return out
}
