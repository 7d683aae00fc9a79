package jobs

import (
	"context"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// mailBatchSize caps how many queued messages one drain cycle picks up.
const mailBatchSize = 50

// MailDispatchJob drains the outbound mail queue on a fixed schedule.
// The notification dispatcher only enqueues rows inside the transition
// request; actual delivery happens here, outside any business transaction.
type MailDispatchJob struct {
	repo   ports.NotificationRepository
	cron   *cron.Cron
	logger *slog.Logger
}

// NewMailDispatchJob creates a job draining the mail queue every five seconds.
func NewMailDispatchJob(repo ports.NotificationRepository, logger *slog.Logger) *MailDispatchJob {
	return &MailDispatchJob{
		repo:   repo,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "mail_dispatch_job"),
	}
}

// Start begins the periodic drain.
func (j *MailDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		if drainErr := j.drain(ctx); drainErr != nil {
			j.logger.ErrorContext(ctx, "Mail dispatch cycle failed", "error", drainErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Mail dispatch job started (running every five seconds)")
	return nil
}

// Stop stops the mail dispatch job.
func (j *MailDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Mail dispatch job stopped")
}

// drain sends one batch of queued messages. Each message is stamped as sent
// even when rendering fails, so a broken template cannot block the queue.
func (j *MailDispatchJob) drain(ctx context.Context) error {
	batch, err := j.repo.GetUnsentMail(ctx, mailBatchSize)
	if err != nil {
		return err
	}

	for _, mail := range batch {
		subject, renderErr := render("subject", mail.Subject(), mail.Context())
		if renderErr == nil {
			var body string
			body, renderErr = render("body", mail.Body(), mail.Context())
			if renderErr == nil {
				j.logger.InfoContext(ctx, "Mail sent",
					"recipient", mail.Recipient(),
					"order_id", mail.OrderID().String(),
					"subject", subject,
					"body_length", len(body))
			}
		}
		if renderErr != nil {
			j.logger.ErrorContext(ctx, "Mail template failed to render",
				"recipient", mail.Recipient(),
				"order_id", mail.OrderID().String(),
				"error", renderErr)
		}

		mail.MarkSent(time.Now().UTC())
		if updateErr := j.repo.UpdateMail(ctx, mail); updateErr != nil {
			return updateErr
		}
	}

	return nil
}

// render executes one text/template against the mail's snapshot context.
func render(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err = tmpl.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}
