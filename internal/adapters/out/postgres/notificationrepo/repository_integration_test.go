package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *notificationrepo.GormNotificationRepository
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&notificationrepo.RuleDTO{}, &notificationrepo.TemplateDTO{}, &notificationrepo.MailDTO{})
	suite.Require().NoError(err)

	suite.repo = notificationrepo.NewGormNotificationRepository(db)
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE notification_rules, mail_templates, outbound_mail").Error
	suite.Require().NoError(err)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestRules_RoundTrip() {
	ctx := context.Background()

	rule, err := notification.NewRule(
		kernel.NewUUID(), order.StatusPaymentConfirmed, notification.RecipientCustomer, "order-confirmed")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.AddRule(ctx, rule))

	other, err := notification.NewRule(
		kernel.NewUUID(), order.StatusShipGoods, notification.RecipientStaff, "goods-shipped")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.AddRule(ctx, other))

	rules, err := suite.repo.GetRulesForTarget(ctx, order.StatusPaymentConfirmed)
	suite.Require().NoError(err)
	suite.Require().Len(rules, 1)
	suite.Equal("order-confirmed", rules[0].TemplateCode())
	suite.Equal(notification.RecipientCustomer, rules[0].RecipientRole())

	empty, err := suite.repo.GetRulesForTarget(ctx, order.StatusCanceled)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestTemplates_RoundTrip() {
	ctx := context.Background()

	template, err := notification.NewTemplate(
		"order-confirmed", "Order {{.order_number}}", "Status: {{.status}}")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.AddTemplate(ctx, template))

	loaded, err := suite.repo.GetTemplate(ctx, "order-confirmed")
	suite.Require().NoError(err)
	suite.Equal("Order {{.order_number}}", loaded.Subject())
	suite.Equal("Status: {{.status}}", loaded.Body())

	_, err = suite.repo.GetTemplate(ctx, "missing")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestMailQueue_DrainCycle() {
	ctx := context.Background()

	mail, err := notification.NewMail(
		kernel.NewUUID(), kernel.NewUUID(), "customer@example.com",
		"Order {{.order_number}}", "Status: {{.status}}",
		map[string]string{"order_number": "2026-00001", "status": "payment_confirmed"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.EnqueueMail(ctx, mail))

	queued, err := suite.repo.GetUnsentMail(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(queued, 1)
	suite.Equal("customer@example.com", queued[0].Recipient())
	suite.Equal("2026-00001", queued[0].Context()["order_number"])
	suite.False(queued[0].IsSent())

	queued[0].MarkSent(time.Now())
	suite.Require().NoError(suite.repo.UpdateMail(ctx, queued[0]))

	drained, err := suite.repo.GetUnsentMail(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(drained)
}

func TestNotificationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
