package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	mailDispatchJob *MailDispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(notificationRepo ports.NotificationRepository, logger *slog.Logger) *JobManager {
	return &JobManager{
		mailDispatchJob: NewMailDispatchJob(notificationRepo, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.mailDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start mail dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.mailDispatchJob.Stop()
}
