package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemSource reads counters from the running host.
type SystemSource struct{}

// NewSystemSource creates a host counter source.
func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// Read collects every counter. A failing counter is left at its zero value
// (load at -1) and its error joined into the result.
func (SystemSource) Read(ctx context.Context) (Counters, error) {
	var c Counters
	var errs []error

	if avg, err := load.AvgWithContext(ctx); err != nil {
		c.Load5 = -1
		errs = append(errs, fmt.Errorf("load average: %w", err))
	} else {
		c.Load5 = avg.Load5
	}

	cores, err := cpu.CountsWithContext(ctx, false)
	if err != nil || cores < 1 {
		// Some virtualized hosts hide topology; fall back to logical CPUs.
		cores, err = cpu.CountsWithContext(ctx, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("cpu count: %w", err))
		}
	}
	c.PhysicalCores = cores

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		c.RAMUsed = vm.Used
		c.RAMTotal = vm.Total
	}

	if up, err := host.UptimeWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("uptime: %w", err))
	} else {
		c.Uptime = up
	}

	disks, err := readDisks(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	c.Disks = disks

	return c, errors.Join(errs...)
}

func readDisks(ctx context.Context) ([]Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	var errs []error
	disks := make([]Disk, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			errs = append(errs, fmt.Errorf("disk usage %s: %w", p.Mountpoint, err))
			continue
		}
		disks = append(disks, Disk{
			Mountpoint: p.Mountpoint,
			Device:     p.Device,
			Total:      usage.Total,
			Available:  usage.Free,
			Removable:  isRemovable(p.Device),
		})
	}
	return disks, errors.Join(errs...)
}
