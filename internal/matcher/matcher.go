package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"discsub/internal/catalog"
	"discsub/internal/logging"
	"discsub/internal/manifest"
	"discsub/internal/services"
	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

const stageName = "match"

// Observer receives human-readable progress lines.
type Observer func(message string)

// Options tune a resolution.
type Options struct {
	// PullAllInformation also imports comments and contents from the
	// matched catalog entry.
	PullAllInformation bool
	Observer           Observer
}

// Result summarises a resolution.
type Result struct {
	FullyMatchedID      *int
	PartiallyMatchedIDs []int
	// Candidates are the fully-matching IDs before track count verification.
	Candidates []int
	// TrackCount is the number of manifest tracks that took part.
	TrackCount int
	// Skipped is set when no lookup was attempted.
	Skipped bool
	// UsedUniversalHash is set when the universal hash fallback ran.
	UsedUniversalHash bool
}

// Resolved reports whether a full match was verified.
func (r Result) Resolved() bool { return r.FullyMatchedID != nil }

// Matcher resolves a disc's identity against the catalog.
type Matcher struct {
	client catalog.Client
	logger *slog.Logger
}

// New creates a Matcher. A nil client behaves like one without credentials.
func New(client catalog.Client, logger *slog.Logger) *Matcher {
	return &Matcher{
		client: client,
		logger: logging.NewComponentLogger(logger, "matcher"),
	}
}

// Resolve looks up every manifest track by SHA-1, intersects the per-track
// candidate sets, verifies candidates by declared track count in ascending
// ID order, and enriches rec from the first verified candidate. rec is only
// modified when the whole resolution succeeds; a catalog failure leaves it
// untouched and returns an error.
func (m *Matcher) Resolve(ctx context.Context, dat string, rec *submission.Record, opts Options) (Result, error) {
	if rec == nil {
		return Result{}, services.Wrap(services.ErrValidation, stageName, "resolve", "record is nil", nil)
	}
	notify := opts.Observer
	if notify == nil {
		notify = func(string) {}
	}
	logger := logging.WithContext(ctx, m.logger)

	if m.client == nil || !m.client.HasCredentials() {
		notify("Catalog credentials not configured, skipping match")
		logger.Info("catalog match skipped", logging.String("reason", "no credentials"))
		return Result{Skipped: true}, nil
	}

	parsed := manifest.Parse(dat)
	for _, invalid := range parsed.Invalid {
		notify(fmt.Sprintf("Line %d could not be parsed, skipping", invalid.Line))
		logging.WarnWithContext(logger, "unparseable manifest line", "manifest_line_invalid",
			logging.Int("line", invalid.Line),
			logging.String("reason", invalid.Reason),
			logging.String(logging.FieldErrorHint, "check the DAT output of the dumping tool"),
			logging.String(logging.FieldImpact, "line excluded from matching"))
	}

	work := rec.Clone()
	work.EnsureTagMaps()
	result := Result{TrackCount: parsed.ExpectedTrackCount()}

	full, partial, err := m.lookupTracks(ctx, parsed.Tracks, notify)
	if err != nil {
		return Result{}, err
	}

	if len(partial) == 0 {
		if hash := strings.TrimSpace(work.CommonDiscInfo.CommentsSpecialFields[sitecode.UniversalHash]); hash != "" {
			ids, err := m.client.ListByUniversalHash(ctx, hash)
			if err != nil {
				return Result{}, services.Wrap(services.ErrTransient, stageName, "universal hash lookup", "catalog lookup failed", err)
			}
			notify(fmt.Sprintf("Universal hash matched %d entries", len(ids)))
			full = sortedUnique(ids)
			partial = full
			result.UsedUniversalHash = true
		}
	}

	work.SetPartiallyMatched(partial)
	result.Candidates = full

	for _, id := range full {
		page, err := m.client.FetchDisc(ctx, id)
		if err != nil {
			return Result{}, services.Wrap(services.ErrTransient, stageName, "fetch disc", fmt.Sprintf("could not fetch catalog entry %d", id), err)
		}
		if !TrackCountMatches(page.TrackCount, result.TrackCount) {
			notify(fmt.Sprintf("ID %d has %d tracks, expected %d, skipping", id, page.TrackCount, result.TrackCount))
			continue
		}
		notify(fmt.Sprintf("ID %d verified", id))
		Enrich(work, page, opts.PullAllInformation)
		work.SetFullyMatched(id)
		break
	}

	*rec = *work
	result.FullyMatchedID = rec.FullyMatchedID
	result.PartiallyMatchedIDs = slices.Clone(rec.PartiallyMatchedIDs)

	attrs := []any{
		logging.Int("tracks", result.TrackCount),
		logging.Int("candidates", len(result.Candidates)),
		logging.Int("partial_matches", len(result.PartiallyMatchedIDs)),
	}
	if result.Resolved() {
		attrs = append(attrs, logging.CatalogID(*result.FullyMatchedID))
		notify(fmt.Sprintf("Fully matched ID %d", *result.FullyMatchedID))
	} else {
		notify("No fully matching catalog entry found")
	}
	logger.Info("catalog match complete", attrs...)
	return result, nil
}

// lookupTracks queries each track hash sequentially. full is the ascending
// intersection of all per-track ID sets; partial is their union.
func (m *Matcher) lookupTracks(ctx context.Context, tracks []manifest.Track, notify Observer) (full, partial []int, err error) {
	var (
		running map[int]struct{}
		union   = map[int]struct{}{}
	)
	for i, track := range tracks {
		ids, err := m.client.ListByHash(ctx, track.SHA1)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrTransient, stageName, "hash lookup",
				fmt.Sprintf("catalog lookup failed for %s", track.Name), err)
		}
		notify(fmt.Sprintf("Track %d of %d: %d matching entries", i+1, len(tracks), len(ids)))

		current := make(map[int]struct{}, len(ids))
		for _, id := range ids {
			current[id] = struct{}{}
			union[id] = struct{}{}
		}
		if i == 0 {
			running = current
			continue
		}
		for id := range running {
			if _, ok := current[id]; !ok {
				delete(running, id)
			}
		}
	}
	return keys(running), keys(union), nil
}

// TrackCountMatches reports whether a catalog entry declaring declared
// tracks fits a local dump with local tracks. Entries without a declared
// count only fit single-track dumps.
func TrackCountMatches(declared, local int) bool {
	if declared == 0 {
		return local == 1
	}
	return declared == local
}

func keys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func sortedUnique(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
