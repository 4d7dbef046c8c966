package derive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"discsub/internal/logging"
	"discsub/internal/services"
	"discsub/internal/submission"
)

const stageName = "derive"

// Options tune a derivation.
type Options struct {
	// AddPlaceholders fills scaffolded fields with placeholder tokens
	// instead of leaving them empty.
	AddPlaceholders bool
}

// Failure is a collaborator check that could not complete. The field it
// would have set keeps its previous value.
type Failure struct {
	Rule string
	Err  error
}

// Report lists what a derivation did.
type Report struct {
	Applied  []string
	Failures []Failure
}

// Err joins the collaborator failures, or returns nil.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, services.Wrap(services.ErrExternalTool, stageName, f.Rule, "check failed", f.Err))
	}
	return errors.Join(errs...)
}

// Deriver fills defaults and placeholders into a record based on its media
// type and system.
type Deriver struct {
	antiModchip AntiModchipDetector
	libCrypt    LibCryptDetector
	scanner     ProtectionScanner
	logger      *slog.Logger
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithAntiModchipDetector enables anti-modchip detection for PlayStation discs.
func WithAntiModchipDetector(d AntiModchipDetector) Option {
	return func(dv *Deriver) { dv.antiModchip = d }
}

// WithLibCryptDetector enables LibCrypt detection for PlayStation discs.
func WithLibCryptDetector(d LibCryptDetector) Option {
	return func(dv *Deriver) { dv.libCrypt = d }
}

// WithProtectionScanner enables copy-protection scans for systems that
// support them.
func WithProtectionScanner(s ProtectionScanner) Option {
	return func(dv *Deriver) { dv.scanner = s }
}

// New constructs a Deriver. Checks whose collaborator is not configured are
// skipped.
func New(logger *slog.Logger, opts ...Option) *Deriver {
	d := &Deriver{logger: logging.NewComponentLogger(logger, "derive")}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type run struct {
	ctx          context.Context
	d            *Deriver
	rec          *submission.Record
	placeholders bool
	logger       *slog.Logger
	report       *Report
}

func (r *run) fill(dst *string, token string) {
	if *dst == "" {
		*dst = submission.Placeholder(r.placeholders, token)
	}
}

func (r *run) fail(rule string, err error) {
	r.report.Failures = append(r.report.Failures, Failure{Rule: rule, Err: err})
	logging.WarnWithContext(r.logger, "derivation check failed", "derive_check_failed",
		logging.Rule(rule),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "verify the collaborator tool and disc root"),
		logging.String(logging.FieldImpact, "field left at its placeholder"))
}

// Derive applies the media rules, then the system rules, then the
// finalization rules to rec. Collaborator failures are reported, never
// fatal.
func (d *Deriver) Derive(ctx context.Context, rec *submission.Record, opts Options) Report {
	report := Report{}
	if rec == nil {
		return report
	}
	info := rec.CommonDiscInfo
	r := &run{
		ctx:          ctx,
		d:            d,
		rec:          rec,
		placeholders: opts.AddPlaceholders,
		logger:       logging.WithContext(ctx, d.logger),
		report:       &report,
	}
	for _, set := range [][]Rule{mediaRules[info.Media], systemRules[info.System], finalRules} {
		for _, rule := range set {
			rule.Apply(r)
			report.Applied = append(report.Applied, rule.Name)
		}
	}
	r.logger.Debug("derivation complete",
		logging.System(string(info.System)),
		logging.Media(string(info.Media)),
		logging.Strings("rules", report.Applied),
		logging.Int("failures", len(report.Failures)))
	return report
}

// Relayout reapplies the layer scaffolding and media subtype rules to a
// record whose sizes or layerbreaks changed after Derive, as a seed overlay
// does. Existing mastering values are kept.
func (d *Deriver) Relayout(ctx context.Context, rec *submission.Record, opts Options) {
	if rec == nil {
		return
	}
	r := &run{
		ctx:          ctx,
		d:            d,
		rec:          rec,
		placeholders: opts.AddPlaceholders,
		logger:       logging.WithContext(ctx, d.logger),
		report:       &Report{},
	}
	if submission.LayerGroupCount(rec.CommonDiscInfo.Media, rec.SizeAndChecksums) > 0 {
		layersRule.Apply(r)
	}
	mediaSubtypeRule.Apply(r)
	r.logger.Debug("layout refreshed",
		logging.Int("layers", len(rec.CommonDiscInfo.Layers)),
		logging.String("subtype", rec.CommonDiscInfo.MediaSubtype))
}

// Summary renders a one-line description of the report.
func (r Report) Summary() string {
	if len(r.Failures) == 0 {
		return fmt.Sprintf("applied %d rules", len(r.Applied))
	}
	return fmt.Sprintf("applied %d rules, %d checks failed", len(r.Applied), len(r.Failures))
}
