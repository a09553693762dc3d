package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CurrenlyDying/lockworks/internal/runtime"
)

// domainRun prefixes the run-record hash so run IDs can never collide
// with other content-addressed artifacts.
const domainRun = "lockworks/run/v1"

// RunRecord is one persisted run.
type RunRecord struct {
	ID          string         `json:"id"`
	JobID       string         `json:"job_id"`
	Seq         int64          `json:"seq"`
	Name        string         `json:"name"`
	Fingerprint string         `json:"fingerprint"`
	Shots       int            `json:"shots"`
	Counts      map[string]int `json:"counts"`
	Decoded     []int          `json:"decoded"`
	Confidence  float64        `json:"confidence"`
	Dominance   float64        `json:"dominance"`
	Purity      float64        `json:"purity"`
	ZScore      float64        `json:"z_score"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NotFoundError is returned when a run id has no record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("run %q not found", e.ID)
}

// WriteRun persists a finished result. Implements runtime.Sink.
// Duplicate records (same content hash) are silently ignored; a
// replayed result is a no-op.
func (s *Store) WriteRun(ctx context.Context, res *runtime.Result) error {
	rec := recordFromResult(res)

	id, countsJSON, decodedJSON, err := hashRecord(rec)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, job_id, seq, name, fingerprint, shots, counts, decoded,
		 confidence, dominance, purity, z_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		rec.JobID,
		rec.Seq,
		rec.Name,
		rec.Fingerprint,
		rec.Shots,
		countsJSON,
		decodedJSON,
		rec.Confidence,
		rec.Dominance,
		rec.Purity,
		rec.ZScore,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// ReadRun fetches one run by content hash.
func (s *Store) ReadRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, seq, name, fingerprint, shots, counts, decoded,
		       confidence, dominance, purity, z_score, created_at
		FROM runs WHERE id = ?
	`, id)

	rec, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	return rec, nil
}

// ListRuns returns up to limit runs in sequence order. limit <= 0 means
// no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	q := `
		SELECT id, job_id, seq, name, fingerprint, shots, counts, decoded,
		       confidence, dominance, purity, z_score, created_at
		FROM runs ORDER BY seq ASC
	`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var recs []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return recs, nil
}

func recordFromResult(res *runtime.Result) *RunRecord {
	return &RunRecord{
		JobID:       res.JobID,
		Seq:         res.Seq,
		Name:        res.Name,
		Fingerprint: res.Fingerprint,
		Shots:       res.Shots,
		Counts:      res.Counts,
		Decoded:     res.Reading.Values,
		Confidence:  res.Reading.Confidence,
		Dominance:   res.Analysis.Dominance,
		Purity:      res.Analysis.Purity,
		ZScore:      res.Analysis.ZScore,
		CreatedAt:   res.CreatedAt,
	}
}

// hashRecord computes the content hash and the JSON columns in one
// pass so the stored text is exactly what was hashed.
func hashRecord(rec *RunRecord) (id, countsJSON, decodedJSON string, err error) {
	countsJSON, err = marshalCanonical(rec.Counts)
	if err != nil {
		return "", "", "", err
	}
	decodedJSON, err = marshalCanonical(rec.Decoded)
	if err != nil {
		return "", "", "", err
	}

	payload := struct {
		JobID       string `json:"job_id"`
		Seq         int64  `json:"seq"`
		Name        string `json:"name"`
		Fingerprint string `json:"fingerprint"`
		Shots       int    `json:"shots"`
		Counts      string `json:"counts"`
		Decoded     string `json:"decoded"`
		CreatedAt   string `json:"created_at"`
	}{
		JobID:       rec.JobID,
		Seq:         rec.Seq,
		Name:        rec.Name,
		Fingerprint: rec.Fingerprint,
		Shots:       rec.Shots,
		Counts:      countsJSON,
		Decoded:     decodedJSON,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	canonical, err := marshalCanonical(payload)
	if err != nil {
		return "", "", "", err
	}

	h := sha256.New()
	h.Write([]byte(domainRun))
	h.Write([]byte{0})
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil)), countsJSON, decodedJSON, nil
}

// marshalCanonical serializes with sorted map keys and no HTML escaping
// so identical records hash identically.
func marshalCanonical(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func scanRun(scan func(...any) error) (*RunRecord, error) {
	var rec RunRecord
	var counts, decoded, created string
	err := scan(
		&rec.ID, &rec.JobID, &rec.Seq, &rec.Name, &rec.Fingerprint,
		&rec.Shots, &counts, &decoded,
		&rec.Confidence, &rec.Dominance, &rec.Purity, &rec.ZScore,
		&created,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(counts), &rec.Counts); err != nil {
		return nil, fmt.Errorf("unmarshal counts: %w", err)
	}
	if err := json.Unmarshal([]byte(decoded), &rec.Decoded); err != nil {
		return nil, fmt.Errorf("unmarshal decoded: %w", err)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &rec, nil
}
