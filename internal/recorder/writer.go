package recorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/servctl/internal/health"
)

// SnapshotWriter batches health snapshots into health_samples.
type SnapshotWriter struct {
	cfg    WriterConfig
	db     DB
	logger *slog.Logger

	// Batching
	batch       []sampleRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewSnapshotWriter creates a SnapshotWriter.
func NewSnapshotWriter(cfg WriterConfig, db DB, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		batch:  make([]sampleRow, 0, cfg.BatchSize),
		ctx:    context.Background(),
	}
}

// Start begins the periodic flush loop.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop shuts down the flush loop and writes any pending rows.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("snapshot writer stopped")
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
	}

	// Final flush outlives the cancelled run context.
	w.flushWith(ctx)
	return nil
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// HandleSnapshot queues a snapshot, flushing when the batch is full.
func (w *SnapshotWriter) HandleSnapshot(s health.Snapshot) error {
	row, err := w.transform(s)
	if err != nil {
		return err
	}

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
	return nil
}

func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// transform converts a Snapshot to a sampleRow.
func (w *SnapshotWriter) transform(s health.Snapshot) (sampleRow, error) {
	disks := s.Disks
	if disks == nil {
		disks = []health.DiskUsage{}
	}
	encoded, err := json.Marshal(disks)
	if err != nil {
		return sampleRow{}, err
	}

	var lowDisk *int32
	if s.LowDisk != nil {
		v := int32(*s.LowDisk)
		lowDisk = &v
	}

	return sampleRow{
		SampledAt:   s.SampledAt.UTC(),
		Instance:    w.cfg.InstanceID,
		RAMUsed:     int64(s.RAMUsed),
		RAMTotal:    int64(s.RAMTotal),
		LoadAverage: s.LoadAverage,
		LoadPerCore: s.LoadPerCore,
		Uptime:      int64(s.Uptime),
		LowDisk:     lowDisk,
		Unhealthy:   s.Unhealthy(),
		Disks:       string(encoded),
	}, nil
}

func (w *SnapshotWriter) flush() {
	w.flushWith(w.ctx)
}

// flushWith writes the current batch to the database.
func (w *SnapshotWriter) flushWith(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]sampleRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.batchInsert(ctx, batch); err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch))
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed health samples",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(ctx context.Context, rows []sampleRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSQL,
			r.SampledAt, r.Instance, r.RAMUsed, r.RAMTotal, r.LoadAverage,
			r.LoadPerCore, r.Uptime, r.LowDisk, r.Unhealthy, r.Disks,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
