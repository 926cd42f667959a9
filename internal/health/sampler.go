package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sampler owns the current Snapshot and refreshes it on demand or on a timer.
type Sampler struct {
	cfg     Config
	source  Source
	handler SnapshotHandler
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	current Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSampler creates a Sampler. handler may be nil.
func NewSampler(cfg Config, source Source, handler SnapshotHandler, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
		now:     time.Now,
	}
}

// Refresh rereads all counters and replaces the current snapshot.
// Counters that fail to read are logged and reported as zero.
func (s *Sampler) Refresh(ctx context.Context) Snapshot {
	counters, err := s.source.Read(ctx)
	if err != nil {
		s.logger.Warn("health counters incomplete", "error", err)
	}

	snap := Compute(counters, s.now())

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	return snap
}

// Current returns the last computed snapshot without refreshing.
func (s *Sampler) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Start begins the periodic sampling loop.
func (s *Sampler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("health sampler started", "interval", s.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the sampling loop.
func (s *Sampler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("health sampler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sampler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// Sample immediately on start.
	s.sample()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	snap := s.Refresh(s.ctx)

	if snap.Unhealthy() {
		s.logger.Warn("host over threshold",
			"ram_ratio", snap.RAMRatio(),
			"load_per_core", snap.LoadPerCore,
			"low_disk", snap.LowDisk != nil,
		)
	}

	if s.handler == nil {
		return
	}
	if err := s.handler.HandleSnapshot(snap); err != nil {
		s.logger.Warn("snapshot handler failed", "error", err)
	}
}
