package notification

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Recipient selects who a notification rule addresses.
type Recipient string

const (
	// RecipientCustomer sends to the order's customer email snapshot.
	RecipientCustomer Recipient = "customer"

	// RecipientStaff sends to the configured staff address.
	RecipientStaff Recipient = "staff"

	// RecipientVendor sends to the vendor email recorded on the order.
	RecipientVendor Recipient = "vendor"
)

// Validate checks the recipient against the known set.
func (r Recipient) Validate() error {
	switch r {
	case RecipientCustomer, RecipientStaff, RecipientVendor:
		return nil
	}
	return errs.NewValueIsInvalidError("recipient " + string(r))
}

// Rule binds an order status to a mail template and a recipient: whenever a
// transition lands on the rule's target status, one mail is enqueued.
type Rule struct {
	id           kernel.UUID
	target       order.Status
	recipient    Recipient
	templateCode string

	isConstructed bool
}

// ErrRuleIsNotConstructed indicates a Rule that bypassed NewRule.
var ErrRuleIsNotConstructed = errs.NewValueIsRequiredError(
	"notification rule must be created via NewRule")

// NewRule creates a validated notification rule.
func NewRule(id kernel.UUID, target order.Status, recipient Recipient, templateCode string) (*Rule, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := recipient.Validate(); err != nil {
		return nil, err
	}
	if templateCode == "" {
		return nil, errs.NewValueIsRequiredError("template code")
	}
	return &Rule{
		id:            id,
		target:        target,
		recipient:     recipient,
		templateCode:  templateCode,
		isConstructed: true,
	}, nil
}

// Validate ensures the rule was created through NewRule.
func (r *Rule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRuleIsNotConstructed
	}
	return nil
}

// ID returns the rule's identifier.
func (r *Rule) ID() kernel.UUID { return r.id }

// Target returns the status the rule fires on.
func (r *Rule) Target() order.Status { return r.target }

// RecipientRole returns who the rule addresses.
func (r *Rule) RecipientRole() Recipient { return r.recipient }

// TemplateCode returns the code of the mail template to render.
func (r *Rule) TemplateCode() string { return r.templateCode }

// Template is a named pair of text templates for the mail subject and body.
// Both are rendered with the order's serialized detail as context.
type Template struct {
	code    string
	subject string
	body    string

	isConstructed bool
}

// ErrTemplateIsNotConstructed indicates a Template that bypassed NewTemplate.
var ErrTemplateIsNotConstructed = errs.NewValueIsRequiredError(
	"mail template must be created via NewTemplate")

// NewTemplate creates a validated mail template.
func NewTemplate(code, subject, body string) (*Template, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("template code")
	}
	if subject == "" {
		return nil, errs.NewValueIsRequiredError("template subject")
	}
	if body == "" {
		return nil, errs.NewValueIsRequiredError("template body")
	}
	return &Template{code: code, subject: subject, body: body, isConstructed: true}, nil
}

// Validate ensures the template was created through NewTemplate.
func (t *Template) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTemplateIsNotConstructed
	}
	return nil
}

// Code returns the template's code.
func (t *Template) Code() string { return t.code }

// Subject returns the subject template text.
func (t *Template) Subject() string { return t.subject }

// Body returns the body template text.
func (t *Template) Body() string { return t.body }

// Mail is one row of the outbound mail queue. It is enqueued by the
// dispatcher with the template texts unrendered; the drain job renders and
// sends it out of band.
type Mail struct {
	id        kernel.UUID
	orderID   kernel.UUID
	recipient string
	subject   string
	body      string
	context   map[string]string
	createdAt time.Time
	sentAt    *time.Time

	isConstructed bool
}

// ErrMailIsNotConstructed indicates a Mail that bypassed its factories.
var ErrMailIsNotConstructed = errs.NewValueIsRequiredError(
	"outbound mail must be created via NewMail or RestoreMail")

// NewMail enqueues mail content for an order event.
func NewMail(id, orderID kernel.UUID, recipient, subject, body string, context map[string]string) (*Mail, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if recipient == "" {
		return nil, errs.NewValueIsRequiredError("mail recipient")
	}
	if subject == "" {
		return nil, errs.NewValueIsRequiredError("mail subject")
	}
	if body == "" {
		return nil, errs.NewValueIsRequiredError("mail body")
	}
	if context == nil {
		context = map[string]string{}
	}
	return &Mail{
		id:            id,
		orderID:       orderID,
		recipient:     recipient,
		subject:       subject,
		body:          body,
		context:       context,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreMail reconstructs a queue row from persistence.
func RestoreMail(
	id, orderID kernel.UUID,
	recipient, subject, body string,
	context map[string]string,
	createdAt time.Time,
	sentAt *time.Time,
) (*Mail, error) {
	m, err := NewMail(id, orderID, recipient, subject, body, context)
	if err != nil {
		return nil, err
	}
	m.createdAt = createdAt
	m.sentAt = sentAt
	return m, nil
}

// Validate ensures the mail was created through a factory function.
func (m *Mail) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMailIsNotConstructed
	}
	return nil
}

// ID returns the mail's identifier.
func (m *Mail) ID() kernel.UUID { return m.id }

// OrderID returns the order the mail refers to.
func (m *Mail) OrderID() kernel.UUID { return m.orderID }

// Recipient returns the resolved destination address.
func (m *Mail) Recipient() string { return m.recipient }

// Subject returns the unrendered subject template text.
func (m *Mail) Subject() string { return m.subject }

// Body returns the unrendered body template text.
func (m *Mail) Body() string { return m.body }

// Context returns the render context captured at enqueue time.
func (m *Mail) Context() map[string]string { return m.context }

// CreatedAt returns when the mail was enqueued.
func (m *Mail) CreatedAt() time.Time { return m.createdAt }

// SentAt returns when the mail was sent, or nil while queued.
func (m *Mail) SentAt() *time.Time { return m.sentAt }

// IsSent reports whether the drain job already delivered the mail.
func (m *Mail) IsSent() bool { return m.sentAt != nil }

// MarkSent stamps the delivery time.
func (m *Mail) MarkSent(at time.Time) {
	t := at.UTC()
	m.sentAt = &t
}
