package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"discsub/internal/config"
	"discsub/internal/consolidate"
	"discsub/internal/derive"
	"discsub/internal/formatter"
	"discsub/internal/logging"
	"discsub/internal/matcher"
	"discsub/internal/services"
	"discsub/internal/store"
	"discsub/internal/submission"
	"discsub/internal/textutil"
)

// Stage names in execution order.
const (
	StageDerive      = "derive"
	StageMatch       = "match"
	StageSeed        = "seed"
	StageConsolidate = "consolidate"
	StageFormat      = "format"
	StageWrite       = "write"
	StageHistory     = "history"
)

// Stages lists the stage names in the order Run executes them.
func Stages() []string {
	return []string{StageDerive, StageMatch, StageSeed, StageConsolidate, StageFormat, StageWrite, StageHistory}
}

// Input is everything a run needs.
type Input struct {
	// BaseName names the output files. Derived from SourcePath when empty.
	BaseName string
	// SourcePath is the file the record was loaded from, if any.
	SourcePath string
	Record     *submission.Record
	Seed       *submission.Record
	// DAT overrides the manifest stored in the record.
	DAT string
	// Cuesheet overrides the cuesheet stored in the record.
	Cuesheet string
}

// StageResult is the outcome of one stage.
type StageResult struct {
	Stage    string
	OK       bool
	Skipped  bool
	Message  string
	Err      error
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	BaseName string
	Record   *submission.Record
	Lines    []string
	Stages   []StageResult
	Match    matcher.Result
	Artifacts
}

// Failed reports whether any stage failed.
func (r *Result) Failed() bool {
	for _, s := range r.Stages {
		if !s.OK && !s.Skipped {
			return true
		}
	}
	return false
}

// Stage returns the result recorded for name.
func (r *Result) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// Status classifies the run for the history store.
func (r *Result) Status() store.Status {
	switch {
	case r.Failed():
		return store.StatusFailed
	case r.Record != nil && r.Record.FullyMatchedID != nil:
		return store.StatusMatched
	default:
		return store.StatusUnmatched
	}
}

// Runner executes the stage sequence for one record at a time.
type Runner struct {
	cfg      *config.Config
	deriver  *derive.Deriver
	matcher  *matcher.Matcher
	history  *store.Store
	writer   *Writer
	observer Observer
	logger   *slog.Logger
	newID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDeriver replaces the default Deriver, typically to attach collaborators.
func WithDeriver(d *derive.Deriver) Option {
	return func(r *Runner) { r.deriver = d }
}

// WithMatcher enables catalog matching.
func WithMatcher(m *matcher.Matcher) Option {
	return func(r *Runner) { r.matcher = m }
}

// WithHistory records every run in st.
func WithHistory(st *store.Store) Option {
	return func(r *Runner) { r.history = st }
}

// WithObserver attaches a progress observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithRunIDGenerator overrides run ID generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New constructs a Runner writing into cfg's output directory.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		writer:   NewWriter(cfg.Paths.OutputDir, cfg.Submission.CompressJSON),
		observer: nopObserver{},
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.deriver == nil {
		r.deriver = derive.New(logger)
	}
	return r
}

// Writer returns the output writer.
func (r *Runner) Writer() *Writer { return r.writer }

// Run processes in.Record in place. The returned error is reserved for
// invalid input and cancellation; stage failures are reported in the Result.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	if in.Record == nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "record is required", nil)
	}
	base := strings.TrimSpace(in.BaseName)
	if base == "" {
		base = textutil.BaseName(in.SourcePath)
	} else {
		base = textutil.SanitizeFileName(base)
	}

	res := &Result{RunID: r.newID(), BaseName: base, Record: in.Record}
	ctx = services.WithSourcePath(services.WithRunID(ctx, res.RunID), in.SourcePath)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("submission run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.BaseName(base),
		logging.System(string(in.Record.CommonDiscInfo.System)),
		logging.Media(string(in.Record.CommonDiscInfo.Media)))

	rec := in.Record
	if cue := strings.TrimSpace(in.Cuesheet); cue != "" {
		rec.TracksAndWriteOffsets.Cuesheet = in.Cuesheet
	}
	dat := in.DAT
	if strings.TrimSpace(dat) == "" {
		dat = rec.TracksAndWriteOffsets.ClrMameProData
	} else {
		rec.TracksAndWriteOffsets.ClrMameProData = strings.TrimSpace(dat)
	}

	sub := r.cfg.Submission
	steps := []struct {
		name string
		fn   func(context.Context) StageResult
	}{
		{StageDerive, func(ctx context.Context) StageResult {
			report := r.deriver.Derive(ctx, rec, derive.Options{AddPlaceholders: sub.AddPlaceholders})
			return StageResult{OK: len(report.Failures) == 0, Message: report.Summary(), Err: report.Err()}
		}},
		{StageMatch, func(ctx context.Context) StageResult {
			return r.match(ctx, dat, rec, res)
		}},
		{StageSeed, func(ctx context.Context) StageResult {
			if in.Seed == nil {
				return StageResult{Skipped: true, Message: "no seed"}
			}
			submission.ApplySeed(rec, in.Seed)
			r.deriver.Relayout(ctx, rec, derive.Options{AddPlaceholders: sub.AddPlaceholders})
			return StageResult{OK: true, Message: "seed applied"}
		}},
		{StageConsolidate, func(context.Context) StageResult {
			consolidate.Record(rec)
			return StageResult{OK: true}
		}},
		{StageFormat, func(context.Context) StageResult {
			lines, err := formatter.Format(rec, formatter.Options{RedumpCompatibility: sub.RedumpCompatibility})
			if err != nil {
				return StageResult{Message: "report not rendered", Err: err}
			}
			res.Lines = lines
			return StageResult{OK: true, Message: fmt.Sprintf("%d lines", len(lines))}
		}},
		{StageWrite, func(context.Context) StageResult {
			return r.write(base, rec, res)
		}},
		{StageHistory, func(ctx context.Context) StageResult {
			return r.record(ctx, base, in.Record, res)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "submission run cancelled", "run_cancelled",
				logging.String("next_stage", step.name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun the submission"),
				logging.String(logging.FieldImpact, "remaining stages not run"))
			return res, err
		}
		stageCtx := services.WithStage(ctx, step.name)
		start := time.Now()
		result := step.fn(stageCtx)
		result.Stage = step.name
		result.Duration = time.Since(start)
		res.Stages = append(res.Stages, result)
		r.report(stageCtx, result)
	}

	logger.Info("submission run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("status", string(res.Status())),
		logging.String("report_path", res.ReportPath),
		logging.String("json_path", res.JSONPath))
	return res, nil
}

func (r *Runner) match(ctx context.Context, dat string, rec *submission.Record, res *Result) StageResult {
	if r.matcher == nil {
		return StageResult{Skipped: true, Message: "catalog matching disabled"}
	}
	opts := matcher.Options{
		PullAllInformation: r.cfg.Submission.PullAllInformation,
		Observer:           func(msg string) { r.observer.Progress(StageMatch, msg) },
	}
	result, err := r.matcher.Resolve(ctx, dat, rec, opts)
	if err != nil {
		return StageResult{Message: "catalog lookup failed", Err: err}
	}
	res.Match = result
	switch {
	case result.Skipped:
		return StageResult{Skipped: true, Message: "no catalog credentials"}
	case result.Resolved():
		return StageResult{OK: true, Message: fmt.Sprintf("fully matched ID %d", *result.FullyMatchedID)}
	case len(result.PartiallyMatchedIDs) > 0:
		return StageResult{OK: true, Message: fmt.Sprintf("%d partial matches", len(result.PartiallyMatchedIDs))}
	}
	return StageResult{OK: true, Message: "no matching entries"}
}

func (r *Runner) write(base string, rec *submission.Record, res *Result) StageResult {
	sub := r.cfg.Submission
	var lines []string
	if sub.WriteReport && res.Lines != nil {
		lines = res.Lines
	}
	var record *submission.Record
	if sub.WriteJSON {
		record = rec
	}
	if lines == nil && record == nil {
		return StageResult{Skipped: true, Message: "nothing to write"}
	}
	artifacts, err := r.writer.Write(base, lines, record)
	if err != nil {
		return StageResult{Message: "outputs not written", Err: err}
	}
	res.Artifacts = artifacts
	written := make([]string, 0, 2)
	for _, p := range []string{artifacts.ReportPath, artifacts.JSONPath} {
		if p != "" {
			written = append(written, p)
		}
	}
	return StageResult{OK: true, Message: strings.Join(written, ", ")}
}

func (r *Runner) record(ctx context.Context, base string, rec *submission.Record, res *Result) StageResult {
	if r.history == nil {
		return StageResult{Skipped: true, Message: "history disabled"}
	}
	entry := store.Entry{
		RunID:               res.RunID,
		BaseName:            base,
		System:              string(rec.CommonDiscInfo.System),
		MediaType:           string(rec.CommonDiscInfo.Media),
		Title:               rec.CommonDiscInfo.Title,
		FullyMatchedID:      rec.FullyMatchedID,
		PartiallyMatchedIDs: rec.PartiallyMatchedIDs,
		Status:              res.Status(),
		Message:             failureSummary(res.Stages),
		ReportPath:          res.ReportPath,
		JSONPath:            res.JSONPath,
	}
	if err := r.history.Record(ctx, entry); err != nil {
		return StageResult{Message: "history not recorded", Err: err}
	}
	return StageResult{OK: true, Message: string(entry.Status)}
}

func (r *Runner) report(ctx context.Context, result StageResult) {
	logger := logging.WithContext(ctx, r.logger)
	switch {
	case result.Skipped:
		logger.Debug("stage skipped",
			logging.String(logging.FieldEventType, "stage_skipped"),
			logging.String("reason", result.Message))
	case result.OK:
		logger.Info("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.String("message", result.Message),
			logging.Duration("duration", result.Duration))
	default:
		details := services.Details(result.Err)
		logging.WarnWithContext(logger, "stage failed", "stage_failure",
			logging.String("message", result.Message),
			logging.String("error_kind", services.Kind(result.Err)),
			logging.String("error_detail", details.Message),
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, hintFor(result.Stage)),
			logging.String(logging.FieldImpact, "run continues with remaining stages"))
	}
	r.observer.StageComplete(result)
}

func hintFor(stage string) string {
	switch stage {
	case StageDerive:
		return "check the protection scanner configuration and disc root"
	case StageMatch:
		return "check catalog connectivity and credentials"
	case StageWrite:
		return "check that the output directory is writable"
	case StageHistory:
		return "check the state directory and history database"
	}
	return "inspect the record for invalid values"
}

func failureSummary(stages []StageResult) string {
	var parts []string
	for _, s := range stages {
		if s.OK || s.Skipped {
			continue
		}
		msg := s.Message
		if s.Err != nil {
			msg = services.Details(s.Err).Message
			if msg == "" {
				msg = s.Err.Error()
			}
		}
		parts = append(parts, s.Stage+": "+msg)
	}
	return strings.Join(parts, "; ")
}
