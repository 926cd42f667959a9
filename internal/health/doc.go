// Package health implements the Health Sampler.
//
// A Sampler rereads every OS counter on each refresh (load average, physical
// core count, memory, disks, uptime) and replaces its Snapshot wholesale.
// Snapshot computation is a pure function of the raw Counters so the
// threshold policy can be tested without touching the host.
//
// The low-space disk scan flags a disk when available/total > 0.85, i.e.
// when the disk is mostly free. This matches the deployed behavior operators
// rely on and is kept as is; see DiskFreeThreshold.
package health
