package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobNotFound is returned when a job name is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRunning is returned when a run overlaps a previous one
	ErrJobAlreadyRunning = errors.New("job already running")

	// ErrInvalidSchedule is returned for unparsable cron expressions
	ErrInvalidSchedule = errors.New("invalid cron schedule")
)
