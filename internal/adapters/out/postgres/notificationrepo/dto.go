// Package notificationrepo persists notification rules, mail templates, and
// the outbound mail queue.
package notificationrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// RuleDTO represents a notification rule row.
type RuleDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Target       string    `gorm:"type:varchar(32);not null;index"`
	Recipient    string    `gorm:"type:varchar(16);not null"`
	TemplateCode string    `gorm:"type:varchar(64);not null"`
}

// TableName overrides GORM's default naming to use "notification_rules".
func (RuleDTO) TableName() string {
	return "notification_rules"
}

// TemplateDTO represents a mail template row.
type TemplateDTO struct {
	Code    string `gorm:"type:varchar(64);primaryKey"`
	Subject string `gorm:"type:varchar(255);not null"`
	Body    string `gorm:"type:text;not null"`
}

// TableName overrides GORM's default naming to use "mail_templates".
func (TemplateDTO) TableName() string {
	return "mail_templates"
}

// MailDTO represents one outbound mail queue row.
type MailDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Recipient string     `gorm:"type:varchar(255);not null"`
	Subject   string     `gorm:"type:varchar(255);not null"`
	Body      string     `gorm:"type:text;not null"`
	Context   string     `gorm:"type:jsonb;default:'{}'"`
	CreatedAt time.Time  `gorm:"not null"`
	SentAt    *time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming to use "outbound_mail".
func (MailDTO) TableName() string {
	return "outbound_mail"
}

func ruleFromDomain(rule *notification.Rule) RuleDTO {
	return RuleDTO{
		ID:           rule.ID().Bytes(),
		Target:       string(rule.Target()),
		Recipient:    string(rule.RecipientRole()),
		TemplateCode: rule.TemplateCode(),
	}
}

func ruleToDomain(dto RuleDTO) (*notification.Rule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return notification.NewRule(
		id, order.Status(dto.Target), notification.Recipient(dto.Recipient), dto.TemplateCode)
}

func templateFromDomain(template *notification.Template) TemplateDTO {
	return TemplateDTO{
		Code:    template.Code(),
		Subject: template.Subject(),
		Body:    template.Body(),
	}
}

func templateToDomain(dto TemplateDTO) (*notification.Template, error) {
	return notification.NewTemplate(dto.Code, dto.Subject, dto.Body)
}

func mailFromDomain(mail *notification.Mail) MailDTO {
	context := "{}"
	if raw, err := json.Marshal(mail.Context()); err == nil {
		context = string(raw)
	}
	return MailDTO{
		ID:        mail.ID().Bytes(),
		OrderID:   mail.OrderID().Bytes(),
		Recipient: mail.Recipient(),
		Subject:   mail.Subject(),
		Body:      mail.Body(),
		Context:   context,
		CreatedAt: mail.CreatedAt(),
		SentAt:    mail.SentAt(),
	}
}

func mailToDomain(dto MailDTO) (*notification.Mail, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	context := map[string]string{}
	if dto.Context != "" {
		if err = json.Unmarshal([]byte(dto.Context), &context); err != nil {
			return nil, err
		}
	}

	return notification.RestoreMail(
		id, orderID, dto.Recipient, dto.Subject, dto.Body, context, dto.CreatedAt, dto.SentAt)
}
