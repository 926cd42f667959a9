package recorder

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by the recorder.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterConfig configures a SnapshotWriter.
type WriterConfig struct {
	InstanceID    string
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     20,
		FlushInterval: time.Minute,
	}
}

// WriterMetrics tracks writer activity.
type WriterMetrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
}

// sampleRow is one row of health_samples.
type sampleRow struct {
	SampledAt   time.Time
	Instance    string
	RAMUsed     int64
	RAMTotal    int64
	LoadAverage float64
	LoadPerCore float64
	Uptime      int64
	LowDisk     *int32
	Unhealthy   bool
	Disks       string // JSON array of per-disk usage
}
