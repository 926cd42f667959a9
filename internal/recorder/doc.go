// Package recorder persists sampled health snapshots.
//
// SnapshotWriter receives every periodic snapshot from the health sampler,
// batches rows in memory and flushes them to the health_samples table with a
// single pgx batch. Writes are append-only.
package recorder
