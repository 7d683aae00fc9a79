package notificationrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using
// GORM. It operates on the base connection, never inside a business
// transaction: the dispatcher's enqueue failures must not roll back order
// transitions.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// AddRule saves a notification rule.
func (r *GormNotificationRepository) AddRule(ctx context.Context, rule *notification.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto := ruleFromDomain(rule)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetRulesForTarget retrieves the rules firing on the given status.
func (r *GormNotificationRepository) GetRulesForTarget(ctx context.Context, target order.Status) ([]*notification.Rule, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).
		Where("target = ?", string(target)).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]*notification.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AddTemplate saves a mail template, replacing any previous version.
func (r *GormNotificationRepository) AddTemplate(ctx context.Context, template *notification.Template) error {
	if err := template.Validate(); err != nil {
		return err
	}

	dto := templateFromDomain(template)
	return r.db.WithContext(ctx).Save(&dto).Error
}

// GetTemplate retrieves a mail template by code.
func (r *GormNotificationRepository) GetTemplate(ctx context.Context, code string) (*notification.Template, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("template code")
	}

	var dto TemplateDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("mail template", code)
		}
		return nil, err
	}

	return templateToDomain(dto)
}

// EnqueueMail appends one row to the outbound mail queue.
func (r *GormNotificationRepository) EnqueueMail(ctx context.Context, mail *notification.Mail) error {
	if err := mail.Validate(); err != nil {
		return err
	}

	dto := mailFromDomain(mail)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetUnsentMail retrieves queued rows not yet delivered, oldest first.
func (r *GormNotificationRepository) GetUnsentMail(ctx context.Context, limit int) ([]*notification.Mail, error) {
	var dtos []MailDTO
	if err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	queue := make([]*notification.Mail, 0, len(dtos))
	for _, dto := range dtos {
		mail, err := mailToDomain(dto)
		if err != nil {
			return nil, err
		}
		queue = append(queue, mail)
	}
	return queue, nil
}

// UpdateMail saves changes to a queue row.
func (r *GormNotificationRepository) UpdateMail(ctx context.Context, mail *notification.Mail) error {
	if err := mail.Validate(); err != nil {
		return err
	}

	dto := mailFromDomain(mail)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
