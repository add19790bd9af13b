package cron

import (
	"context"
	"time"
)

// SessionPurger removes expired dashboard sessions.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) error
}

// SessionJobs contains session housekeeping jobs
type SessionJobs struct {
	purger   SessionPurger
	interval time.Duration
}

func NewSessionJobs(purger SessionPurger, interval time.Duration) *SessionJobs {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SessionJobs{purger: purger, interval: interval}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_sessions", j.interval, j.PurgeExpiredSessions)
}

func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	return j.purger.PurgeExpired(ctx)
}
