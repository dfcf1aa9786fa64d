package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/lifecycle"
	"github.com/JaimeStill/annex/pkg/retry"
	"github.com/JaimeStill/annex/pkg/storage"
)

type job struct {
	mu    sync.RWMutex
	state Job
}

func (j *job) update(fn func(s *Job)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.state)
	j.state.UpdatedAt = time.Now()
}

func (j *job) snapshot() Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s := j.state
	if s.Result != nil {
		res := *s.Result
		s.Result = &res
	}
	return s
}

type entry struct {
	job  *job
	task Task
}

type runner struct {
	cfg      Config
	registry *cache.Cache
	queue    chan *entry
	metrics  *metrics
	logger   *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// New creates a job runner implementing the System interface. Job records
// expire ResultTTL after they finish; the sweeper purges them.
func New(cfg Config, reg prometheus.Registerer, logger *slog.Logger) System {
	r := &runner{
		cfg:      cfg,
		registry: cache.New(cfg.ResultTTL, 0),
		queue:    make(chan *entry, cfg.QueueSize),
		metrics:  newMetrics(reg),
		logger:   logger.With("system", "jobs"),
	}
	r.registry.OnEvicted(r.evicted)
	return r
}

func (r *runner) Handler(store storage.System) *Handler {
	return NewHandler(r, store, r.logger)
}

func (r *runner) Start(lc *lifecycle.Coordinator) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx := lc.Context()

	var g errgroup.Group
	g.Go(func() error {
		r.dispatch(ctx)
		return nil
	})
	if r.cfg.SweepInterval > 0 {
		g.Go(func() error {
			r.sweepEvery(ctx, r.cfg.SweepInterval)
			return nil
		})
	}

	lc.OnShutdown("jobs", func() {
		<-ctx.Done()

		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		g.Wait()
		r.drain()
		r.logger.Info("job runner stopped")
	})

	r.logger.Info(
		"job runner started",
		"workers", r.cfg.Workers,
		"queue_size", r.cfg.QueueSize,
		"output_dir", r.cfg.OutputDir,
	)
	return nil
}

func (r *runner) Submit(kind Kind, projectID int64, task Task) (Job, error) {
	now := time.Now()
	j := &job{state: Job{
		ID:        uuid.New(),
		Kind:      kind,
		ProjectID: projectID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return Job{}, ErrStopped
	}

	// Registered before the send so a fast worker's finish is the last write.
	key := j.state.ID.String()
	r.registry.Set(key, j, cache.NoExpiration)

	select {
	case r.queue <- &entry{job: j, task: task}:
	default:
		r.registry.Delete(key)
		return Job{}, ErrQueueFull
	}

	r.logger.Info("job submitted", "job_id", j.state.ID, "kind", kind, "project_id", projectID)

	return j.snapshot(), nil
}

func (r *runner) Poll(id uuid.UUID) (Job, error) {
	v, ok := r.registry.Get(id.String())
	if !ok {
		return Job{}, ErrNotFound
	}
	return v.(*job).snapshot(), nil
}

func (r *runner) Sweep() (int, error) {
	r.registry.DeleteExpired()

	live := make(map[string]bool)
	for _, item := range r.registry.Items() {
		s := item.Object.(*job).snapshot()
		if s.Result == nil {
			continue
		}
		if root := artifactRoot(r.cfg.OutputDir, s.Result.Path); root != "" {
			live[artifactName(root)] = true
		}
	}

	removed, err := Sweep(r.cfg.OutputDir, r.cfg.ResultTTL, live)
	if removed > 0 {
		r.logger.Info("stale artifacts swept", "removed", removed)
	}
	return removed, err
}

func (r *runner) dispatch(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	defer g.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-r.queue:
			g.Go(func() error {
				r.run(ctx, e)
				return nil
			})
		}
	}
}

func (r *runner) run(ctx context.Context, e *entry) {
	j := e.job
	snap := j.snapshot()
	kind := string(snap.Kind)
	logger := r.logger.With("job_id", snap.ID, "kind", kind, "project_id", snap.ProjectID)

	if ctx.Err() != nil {
		r.finish(j, nil, ErrStopped)
		return
	}

	r.metrics.inFlight.Inc()
	defer r.metrics.inFlight.Dec()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger.Info("job started")

	result, err := retry.Do(
		ctx,
		r.cfg.Retry,
		faults.Retryable,
		func(attempt int) (Result, error) {
			j.update(func(s *Job) {
				s.Status = StatusRunning
				s.Attempts = attempt + 1
			})
			return e.task(ctx)
		},
		func(attempt int, delay time.Duration, err error) {
			errKind := faults.KindOf(err).String()
			j.update(func(s *Job) {
				s.Status = StatusRetrying
				s.Error = err.Error()
				s.ErrorKind = errKind
			})
			r.metrics.retries.WithLabelValues(kind, errKind).Inc()
			logger.Warn("job retrying", "attempt", attempt, "delay", delay, "error_kind", errKind, "error", err)
		},
	)

	elapsed := time.Since(start)
	r.metrics.duration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err != nil {
		r.finish(j, nil, err)
		logger.Error("job failed", "duration", elapsed, "error_kind", faults.KindOf(err), "error", err)
		return
	}

	r.finish(j, &result, nil)
	logger.Info("job succeeded", "duration", elapsed, "path", result.Path)
}

// finish records the terminal state and starts the result TTL.
func (r *runner) finish(j *job, result *Result, err error) {
	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}

	snap := j.snapshot()
	r.metrics.total.WithLabelValues(string(snap.Kind), string(status)).Inc()

	j.update(func(s *Job) {
		s.Status = status
		if err != nil {
			s.Error = err.Error()
			s.ErrorKind = faults.KindOf(err).String()
			return
		}
		s.Result = result
		s.Error = ""
		s.ErrorKind = ""
	})

	r.registry.Set(snap.ID.String(), j, cache.DefaultExpiration)
}

// drain fails jobs still queued at shutdown.
func (r *runner) drain() {
	for {
		select {
		case e := <-r.queue:
			r.finish(e.job, nil, ErrStopped)
		default:
			return
		}
	}
}

func (r *runner) sweepEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(); err != nil {
				r.logger.Warn("sweep failed", "error", err)
			}
		}
	}
}

func (r *runner) evicted(key string, v any) {
	s := v.(*job).snapshot()
	if s.Result == nil {
		return
	}

	if err := removeArtifact(r.cfg.OutputDir, s.Result.Path); err != nil {
		r.logger.Warn("remove expired artifact", "job_id", key, "path", s.Result.Path, "error", err)
		return
	}
	r.logger.Debug("expired artifact removed", "job_id", key, "path", s.Result.Path)
}
