package health

import (
	"context"
	"time"
)

// Health threshold policy.
const (
	// MinDiskSize excludes small volumes (boot partitions, tmpfs) from
	// both the low-space scan and per-disk reporting.
	MinDiskSize uint64 = 10 << 30

	// RAMThreshold is the used/total ratio above which RAM is overloaded.
	RAMThreshold = 0.85

	// LoadThreshold is the per-core 5-minute load above which CPU is overloaded.
	LoadThreshold = 0.8

	// DiskFreeThreshold flags a disk whose available/total exceeds it.
	DiskFreeThreshold = 0.85
)

// Disk is the raw reading for one mounted volume.
type Disk struct {
	Mountpoint string
	Device     string
	Total      uint64
	Available  uint64
	Removable  bool
}

// Counters is one raw read of all host counters.
type Counters struct {
	Disks         []Disk
	Load5         float64 // negative means unavailable
	PhysicalCores int
	RAMUsed       uint64
	RAMTotal      uint64
	Uptime        uint64 // seconds
}

// Source reads host counters.
type Source interface {
	Read(ctx context.Context) (Counters, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(context.Context) (Counters, error)

func (f SourceFunc) Read(ctx context.Context) (Counters, error) {
	return f(ctx)
}

// SnapshotHandler receives every periodically sampled snapshot.
type SnapshotHandler interface {
	HandleSnapshot(snapshot Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s Snapshot) error {
	return f(s)
}

// DiskUsage is the reported usage of one non-removable disk.
type DiskUsage struct {
	Mountpoint string  `json:"mountpoint"`
	Used       uint64  `json:"used"`
	Total      uint64  `json:"total"`
	Fraction   float64 `json:"fraction"`
}

// Snapshot is the full set of metrics captured by one refresh.
type Snapshot struct {
	LowDisk     *int        `json:"low_disk,omitempty"` // index into the raw disk list
	Disks       []DiskUsage `json:"disks"`
	LoadAverage float64     `json:"load_average"`
	LoadPerCore float64     `json:"load_per_core"`
	RAMUsed     uint64      `json:"ram_used"`
	RAMTotal    uint64      `json:"ram_total"`
	Uptime      uint64      `json:"uptime"`
	SampledAt   time.Time   `json:"sampled_at"`
}

// Config holds sampler configuration.
type Config struct {
	Interval time.Duration // periodic refresh interval
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
	}
}
