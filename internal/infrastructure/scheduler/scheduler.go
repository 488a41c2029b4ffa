package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusIdle    JobStatus = "IDLE"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the work performed by a scheduled job
type JobFunc func(ctx context.Context) error

// JobState is a snapshot of a registered job
type JobState struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Status    JobStatus  `json:"status"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	Runs      int        `json:"runs"`
	Next      time.Time  `json:"next"`
}

type job struct {
	JobState
	fn      JobFunc
	entryID cron.EntryID
	running bool
}

// Config holds scheduler settings
type Config struct {
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout: 10 * time.Minute,
		Location:   time.UTC,
	}
}

// Scheduler runs named jobs on cron schedules. A job never overlaps itself:
// a tick arriving while the previous run is still going is skipped.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*job
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		cron:   cron.New(cron.WithLocation(config.Location)),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// ValidateSchedule checks a standard five-field cron expression
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return nil
}

// Register adds a job under name running on schedule
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[name]; ok {
		s.cron.Remove(existing.entryID)
	}
	j := &job{JobState: JobState{Name: name, Schedule: schedule, Status: JobStatusIdle}, fn: fn}
	id, err := s.cron.AddFunc(schedule, func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Info("Job registered", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.isRunning = true
	s.cron.Start()

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop stops the cron loop and waits for running jobs or ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger runs the named job now, synchronously
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	running := s.isRunning
	s.mu.Unlock()

	if !ok {
		return ErrJobNotFound
	}
	if !running {
		return ErrSchedulerNotRunning
	}
	return s.run(j)
}

// Jobs returns a snapshot of every registered job
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, j := range s.jobs {
		state := j.JobState
		state.Next = s.cron.Entry(j.entryID).Next
		out = append(out, state)
	}
	return out
}

func (s *Scheduler) run(j *job) error {
	s.mu.Lock()
	if j.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping overlapping job run", zap.String("job", j.Name))
		return ErrJobAlreadyRunning
	}
	parent := s.ctx
	if parent == nil {
		parent = context.Background()
	}
	j.running = true
	j.Status = JobStatusRunning
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(parent, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	err := s.safeRun(ctx, j)

	s.mu.Lock()
	j.running = false
	j.Runs++
	j.LastRun = &started
	if err != nil {
		j.Status = JobStatusFailed
		j.LastError = err.Error()
	} else {
		j.Status = JobStatusSuccess
		j.LastError = ""
	}
	s.mu.Unlock()

	fields := []zap.Field{zap.String("job", j.Name), zap.Duration("duration", time.Since(started))}
	if err != nil {
		s.logger.Error("Job failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("Job completed", fields...)
	}
	return err
}

func (s *Scheduler) safeRun(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.Name, r)
		}
	}()
	return j.fn(ctx)
}
