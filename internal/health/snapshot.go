package health

import (
	"fmt"
	"strings"
	"time"
)

// Compute derives a Snapshot from raw counters.
func Compute(c Counters, at time.Time) Snapshot {
	raw, perCore := loadAverage(c.Load5, c.PhysicalCores)
	return Snapshot{
		LowDisk:     lowDiskIndex(c.Disks),
		Disks:       diskUsage(c.Disks),
		LoadAverage: raw,
		LoadPerCore: perCore,
		RAMUsed:     c.RAMUsed,
		RAMTotal:    c.RAMTotal,
		Uptime:      c.Uptime,
		SampledAt:   at,
	}
}

// Unhealthy reports whether any threshold is exceeded.
func (s Snapshot) Unhealthy() bool {
	return s.RAMRatio() > RAMThreshold ||
		s.LoadPerCore > LoadThreshold ||
		s.LowDisk != nil
}

// RAMRatio returns used/total memory, or 0 when total is unknown.
func (s Snapshot) RAMRatio() float64 {
	if s.RAMTotal == 0 {
		return 0
	}
	return float64(s.RAMUsed) / float64(s.RAMTotal)
}

// String renders the snapshot for the CHECK command.
func (s Snapshot) String() string {
	var b strings.Builder

	if s.LowDisk != nil {
		fmt.Fprintf(&b, "\\*warn: disk space low on drive index: %d\n", *s.LowDisk)
	}

	b.WriteString("disks:\n")
	for _, d := range s.Disks {
		fmt.Fprintf(&b, "%s %d MiB / %d MiB %.1f%%\n",
			d.Mountpoint, toMiB(d.Used), toMiB(d.Total), d.Fraction*100)
	}

	fmt.Fprintf(&b, "load average: %.2f\n", s.LoadAverage)
	fmt.Fprintf(&b, "cpu average: %.1f%% system uptime: %d hrs", s.LoadPerCore*100, s.Uptime/3600)
	return b.String()
}

// loadAverage clamps an unavailable (negative) load to zero and normalizes
// per physical core.
func loadAverage(load5 float64, cores int) (raw, perCore float64) {
	if load5 < 0 {
		return 0, 0
	}
	if cores < 1 {
		cores = 1
	}
	return load5, load5 / float64(cores)
}

// lowDiskIndex returns the index of the first disk of at least MinDiskSize
// whose available/total exceeds DiskFreeThreshold. Removable media are
// scanned too.
func lowDiskIndex(disks []Disk) *int {
	for i, d := range disks {
		if d.Total < MinDiskSize {
			continue
		}
		if float64(d.Available)/float64(d.Total) > DiskFreeThreshold {
			idx := i
			return &idx
		}
	}
	return nil
}

// diskUsage lists non-removable disks of at least MinDiskSize.
func diskUsage(disks []Disk) []DiskUsage {
	out := make([]DiskUsage, 0, len(disks))
	for _, d := range disks {
		if d.Total < MinDiskSize || d.Removable {
			continue
		}
		used := uint64(0)
		if d.Available < d.Total {
			used = d.Total - d.Available
		}
		out = append(out, DiskUsage{
			Mountpoint: d.Mountpoint,
			Used:       used,
			Total:      d.Total,
			Fraction:   float64(used) / float64(d.Total),
		})
	}
	return out
}

func toMiB(n uint64) uint64 {
	return n >> 20
}
