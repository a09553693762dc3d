package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CurrenlyDying/lockworks/internal/decode"
	"github.com/CurrenlyDying/lockworks/internal/runtime"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(jobID string, seq int64) *runtime.Result {
	return &runtime.Result{
		JobID:       jobID,
		Seq:         seq,
		Name:        "bell",
		Fingerprint: "abc123",
		Shots:       4096,
		Counts:      map[string]int{"01": 4096},
		Reading: &decode.Reading{
			Values:      []int{1, 0},
			Confidences: []float64{1, 1},
			Confidence:  1.0,
			Shots:       4096,
		},
		Analysis: &decode.Analysis{
			Dominance: 1.0,
			TopState:  "01",
			Purity:    1.0,
			ZScore:    180.0,
		},
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
	require.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestWriteAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, testResult("job-1", 1)))
	require.NoError(t, s.WriteRun(ctx, testResult("job-2", 2)))

	recs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "job-1", recs[0].JobID)
	assert.Equal(t, "job-2", recs[1].JobID)
	assert.Equal(t, int64(1), recs[0].Seq)
	assert.Equal(t, map[string]int{"01": 4096}, recs[0].Counts)
	assert.Equal(t, []int{1, 0}, recs[0].Decoded)
	assert.Equal(t, 1.0, recs[0].Confidence)
	assert.Equal(t, 180.0, recs[0].ZScore)
}

func TestWriteRunIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := testResult("job-1", 1)
	require.NoError(t, s.WriteRun(ctx, res))
	require.NoError(t, s.WriteRun(ctx, res))

	recs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, testResult("job-1", 1)))

	recs, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec, err := s.ReadRun(ctx, recs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "job-1", rec.JobID)
	assert.Equal(t, "bell", rec.Name)
	assert.Equal(t, recs[0].CreatedAt, rec.CreatedAt)
}

func TestReadRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	require.Error(t, err)

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRunIDIsContentAddressed(t *testing.T) {
	a, _, _, err := hashRecord(recordFromResult(testResult("job-1", 1)))
	require.NoError(t, err)
	b, _, _, err := hashRecord(recordFromResult(testResult("job-1", 1)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, _, _, err := hashRecord(recordFromResult(testResult("job-2", 1)))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestListRunsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		res := testResult("job-"+string(rune('a'+i)), i)
		require.NoError(t, s.WriteRun(ctx, res))
	}

	recs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Equal(t, int64(1), recs[0].Seq)
}

func TestManagerPersistsThroughStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// the store satisfies the runtime sink seam
	var sink runtime.Sink = s
	require.NoError(t, sink.WriteRun(ctx, testResult("job-1", 1)))
}
