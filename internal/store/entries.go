package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of a pipeline run.
type Status string

const (
	// StatusMatched means a full catalog match was verified.
	StatusMatched Status = "matched"
	// StatusUnmatched means the report was written without a full match.
	StatusUnmatched Status = "unmatched"
	// StatusFailed means at least one stage failed.
	StatusFailed Status = "failed"
)

// ErrNotFound is returned when no entry exists for a run ID.
var ErrNotFound = errors.New("history entry not found")

// Entry is one processed submission.
type Entry struct {
	RunID               string
	CreatedAt           time.Time
	BaseName            string
	System              string
	MediaType           string
	Title               string
	FullyMatchedID      *int
	PartiallyMatchedIDs []int
	Status              Status
	Message             string
	ReportPath          string
	JSONPath            string
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "run_id, created_at, base_name, system, media_type, title, fully_matched_id, partially_matched_ids, status, message, report_path, json_path"

// Record inserts or replaces the entry for e.RunID.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.RunID) == "" {
		return errors.New("run id is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var partial sql.NullString
	if len(e.PartiallyMatchedIDs) > 0 {
		data, err := json.Marshal(e.PartiallyMatchedIDs)
		if err != nil {
			return fmt.Errorf("encode partial ids: %w", err)
		}
		partial = sql.NullString{String: string(data), Valid: true}
	}
	var full sql.NullInt64
	if e.FullyMatchedID != nil {
		full = sql.NullInt64{Int64: int64(*e.FullyMatchedID), Valid: true}
	}

	err := s.execWithRetry(ctx,
		`INSERT OR REPLACE INTO submissions (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID,
		e.CreatedAt.UTC().Format(timeLayout),
		e.BaseName,
		nullableString(e.System),
		nullableString(e.MediaType),
		nullableString(e.Title),
		full,
		partial,
		string(e.Status),
		nullableString(e.Message),
		nullableString(e.ReportPath),
		nullableString(e.JSONPath),
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Get returns the entry for runID.
func (s *Store) Get(ctx context.Context, runID string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+entryColumns+" FROM submissions WHERE run_id = ?", runID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history entry: %w", err)
	}
	return entry, nil
}

// List returns the most recent entries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := "SELECT " + entryColumns + " FROM submissions ORDER BY created_at DESC, run_id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ensureContext(ctx), "DELETE FROM submissions")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		runID      string
		createdRaw string
		baseName   string
		system     sql.NullString
		mediaType  sql.NullString
		title      sql.NullString
		full       sql.NullInt64
		partial    sql.NullString
		status     string
		message    sql.NullString
		reportPath sql.NullString
		jsonPath   sql.NullString
	)
	if err := scanner.Scan(&runID, &createdRaw, &baseName, &system, &mediaType, &title,
		&full, &partial, &status, &message, &reportPath, &jsonPath); err != nil {
		return nil, err
	}

	entry := &Entry{
		RunID:      runID,
		BaseName:   baseName,
		System:     system.String,
		MediaType:  mediaType.String,
		Title:      title.String,
		Status:     Status(status),
		Message:    message.String,
		ReportPath: reportPath.String,
		JSONPath:   jsonPath.String,
	}
	if ts, err := time.Parse(timeLayout, createdRaw); err == nil {
		entry.CreatedAt = ts
	}
	if full.Valid {
		id := int(full.Int64)
		entry.FullyMatchedID = &id
	}
	if partial.Valid && partial.String != "" {
		if err := json.Unmarshal([]byte(partial.String), &entry.PartiallyMatchedIDs); err != nil {
			return nil, fmt.Errorf("decode partial ids: %w", err)
		}
	}
	return entry, nil
}

func nullableString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
