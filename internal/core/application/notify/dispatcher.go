// Package notify implements the order notification dispatcher: a transition
// observer that matches configured rules against the reached status and
// enqueues templated mail for asynchronous delivery.
package notify

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ExtraVendorEmail is the order extra bag key holding the vendor address
// used by vendor-addressed notification rules.
const ExtraVendorEmail = "vendor_email"

// Dispatcher observes committed workflow transitions and enqueues mail per
// matching rule. It is fire-and-forget: every failure is logged and
// swallowed, since notifications must never block or roll back order
// progression. It talks to the notification repository outside the business
// transaction, which is safe because command handlers fan transitions out
// only after their transaction commits.
type Dispatcher struct {
	repo       ports.NotificationRepository
	staffEmail string
	logger     *slog.Logger
}

// NewDispatcher creates the dispatcher. The staff email is the fixed address
// for staff-addressed rules; it may be empty, disabling those rules.
func NewDispatcher(repo ports.NotificationRepository, staffEmail string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:       repo,
		staffEmail: staffEmail,
		logger:     logger.With("component", "notification_dispatcher"),
	}
}

// OnTransition implements services.TransitionObserver.
func (d *Dispatcher) OnTransition(ctx context.Context, o *order.Order, transition string, target order.Status) {
	rules, err := d.repo.GetRulesForTarget(ctx, target)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to load notification rules",
			"order", o.ID().String(), "target", string(target), "error", err)
		return
	}

	for _, rule := range rules {
		d.dispatch(ctx, o, transition, rule)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, o *order.Order, transition string, rule *notification.Rule) {
	recipient, ok := d.resolveRecipient(o, rule.RecipientRole())
	if !ok {
		d.logger.WarnContext(ctx, "No recipient for notification rule",
			"order", o.ID().String(), "rule", rule.ID().String(),
			"role", string(rule.RecipientRole()))
		return
	}

	template, err := d.repo.GetTemplate(ctx, rule.TemplateCode())
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to load mail template",
			"order", o.ID().String(), "template", rule.TemplateCode(), "error", err)
		return
	}

	mail, err := notification.NewMail(
		kernel.NewUUID(), o.ID(), recipient,
		template.Subject(), template.Body(), renderContext(o, transition))
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to build notification mail",
			"order", o.ID().String(), "error", err)
		return
	}

	if err = d.repo.EnqueueMail(ctx, mail); err != nil {
		d.logger.ErrorContext(ctx, "Failed to enqueue notification mail",
			"order", o.ID().String(), "recipient", recipient, "error", err)
		return
	}

	d.logger.InfoContext(ctx, "Notification mail enqueued",
		"order", o.ID().String(), "recipient", recipient, "template", rule.TemplateCode())
}

func (d *Dispatcher) resolveRecipient(o *order.Order, role notification.Recipient) (string, bool) {
	switch role {
	case notification.RecipientCustomer:
		return o.CustomerEmail(), o.CustomerEmail() != ""
	case notification.RecipientStaff:
		return d.staffEmail, d.staffEmail != ""
	case notification.RecipientVendor:
		vendor := o.Extra()[ExtraVendorEmail]
		return vendor, vendor != ""
	}
	return "", false
}

// renderContext captures the order facts the mail templates interpolate,
// including the latest delivery when one exists.
func renderContext(o *order.Order, transition string) map[string]string {
	ctx := map[string]string{
		"order_number":   o.Number(),
		"customer_email": o.CustomerEmail(),
		"status":         string(o.Status()),
		"transition":     transition,
		"total":          o.Total().String(),
		"amount_paid":    o.AmountPaid().String(),
	}
	if latest := o.LatestDelivery(); latest != nil {
		ctx["delivery_number"] = o.DeliveryNumber(latest)
		ctx["shipping_method"] = latest.ShippingMethod()
		ctx["shipping_id"] = latest.ShippingID()
	}
	return ctx
}
