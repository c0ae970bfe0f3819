package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a maintenance task run on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
	// RunOnStart runs the job once when the trigger starts
	RunOnStart bool
}

// PeriodicTrigger runs maintenance jobs, each on its own ticker. A failing run
// is logged and retried at the next tick.
type PeriodicTrigger struct {
	jobs   []Job
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPeriodicTrigger validates jobs and creates a trigger
func NewPeriodicTrigger(logger *zap.Logger, jobs ...Job) (*PeriodicTrigger, error) {
	for _, j := range jobs {
		if j.Name == "" || j.Run == nil || j.Interval <= 0 {
			return nil, fmt.Errorf("%w: job %q needs a name, a run func and a positive interval", ErrInvalidConfig, j.Name)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodicTrigger{jobs: jobs, logger: logger}, nil
}

// Start starts one loop per job. Calling Start on a running trigger is a no-op.
func (p *PeriodicTrigger) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for _, job := range p.jobs {
		p.wg.Add(1)
		go p.runLoop(ctx, job)
	}

	p.logger.Info("Periodic trigger started", zap.Int("jobs", len(p.jobs)))
	return nil
}

// Stop cancels the loops and waits for in-flight runs, bounded by ctx
func (p *PeriodicTrigger) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Periodic trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PeriodicTrigger) runLoop(ctx context.Context, job Job) {
	defer p.wg.Done()

	if job.RunOnStart {
		p.runOnce(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx, job)
		}
	}
}

func (p *PeriodicTrigger) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Periodic job panicked", zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("Periodic job failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	p.logger.Debug("Periodic job finished", zap.String("job", job.Name), zap.Duration("elapsed", time.Since(start)))
}
