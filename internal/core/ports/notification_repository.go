package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
)

// NotificationRepository defines the persistence contract for notification
// rules, mail templates, and the outbound mail queue.
//
// The dispatcher uses it outside of any business transaction: a failed
// enqueue must never roll back the transition that triggered it.
type NotificationRepository interface {
	// AddRule persists a notification rule.
	AddRule(ctx context.Context, rule *notification.Rule) error

	// GetRulesForTarget retrieves the rules firing on the given status.
	GetRulesForTarget(ctx context.Context, target order.Status) ([]*notification.Rule, error)

	// AddTemplate persists a mail template.
	AddTemplate(ctx context.Context, template *notification.Template) error

	// GetTemplate retrieves a mail template by its code.
	GetTemplate(ctx context.Context, code string) (*notification.Template, error)

	// EnqueueMail appends one row to the outbound mail queue.
	EnqueueMail(ctx context.Context, mail *notification.Mail) error

	// GetUnsentMail retrieves queued rows not yet delivered, oldest first,
	// capped at limit.
	GetUnsentMail(ctx context.Context, limit int) ([]*notification.Mail, error)

	// UpdateMail persists changes to a queue row, in particular its sent-at
	// stamp.
	UpdateMail(ctx context.Context, mail *notification.Mail) error
}
