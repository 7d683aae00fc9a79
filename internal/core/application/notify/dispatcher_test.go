package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/notify"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) AddRule(ctx context.Context, rule *notification.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetRulesForTarget(ctx context.Context, target order.Status) ([]*notification.Rule, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Rule), args.Error(1)
}

func (m *MockNotificationRepository) AddTemplate(ctx context.Context, template *notification.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetTemplate(ctx context.Context, code string) (*notification.Template, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Template), args.Error(1)
}

func (m *MockNotificationRepository) EnqueueMail(ctx context.Context, mail *notification.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetUnsentMail(ctx context.Context, limit int) ([]*notification.Mail, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Mail), args.Error(1)
}

func (m *MockNotificationRepository) UpdateMail(ctx context.Context, mail *notification.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "2026-00004", kernel.NewUUID(), "customer@example.com", "EUR")
	require.NoError(t, err)
	return o
}

func testRule(t *testing.T, target order.Status, recipient notification.Recipient) *notification.Rule {
	t.Helper()
	rule, err := notification.NewRule(kernel.NewUUID(), target, recipient, "order-confirmed")
	require.NoError(t, err)
	return rule
}

func testTemplate(t *testing.T) *notification.Template {
	t.Helper()
	template, err := notification.NewTemplate(
		"order-confirmed",
		"Order {{.order_number}} confirmed",
		"Your order {{.order_number}} is now {{.status}}.")
	require.NoError(t, err)
	return template
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_OnTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueues mail for a matching customer rule", func(t *testing.T) {
		o := testOrder(t)
		repo := new(MockNotificationRepository)
		repo.On("GetRulesForTarget", ctx, order.StatusPaymentConfirmed).
			Return([]*notification.Rule{testRule(t, order.StatusPaymentConfirmed, notification.RecipientCustomer)}, nil).Once()
		repo.On("GetTemplate", ctx, "order-confirmed").Return(testTemplate(t), nil).Once()

		var enqueued *notification.Mail
		repo.On("EnqueueMail", ctx, mock.AnythingOfType("*notification.Mail")).
			Run(func(args mock.Arguments) { enqueued = args.Get(1).(*notification.Mail) }).
			Return(nil).Once()

		d := notify.NewDispatcher(repo, "staff@example.com", discardLogger())
		d.OnTransition(ctx, o, "acknowledge_prepayment", order.StatusPaymentConfirmed)

		require.NotNil(t, enqueued)
		assert.Equal(t, "customer@example.com", enqueued.Recipient())
		assert.Equal(t, "2026-00004", enqueued.Context()["order_number"])
		assert.Equal(t, "acknowledge_prepayment", enqueued.Context()["transition"])
		repo.AssertExpectations(t)
	})

	t.Run("resolves vendor recipient from the extra bag", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Annotate(notify.ExtraVendorEmail, "vendor@example.com"))

		repo := new(MockNotificationRepository)
		repo.On("GetRulesForTarget", ctx, order.StatusShipGoods).
			Return([]*notification.Rule{testRule(t, order.StatusShipGoods, notification.RecipientVendor)}, nil).Once()
		repo.On("GetTemplate", ctx, "order-confirmed").Return(testTemplate(t), nil).Once()

		var enqueued *notification.Mail
		repo.On("EnqueueMail", ctx, mock.AnythingOfType("*notification.Mail")).
			Run(func(args mock.Arguments) { enqueued = args.Get(1).(*notification.Mail) }).
			Return(nil).Once()

		d := notify.NewDispatcher(repo, "", discardLogger())
		d.OnTransition(ctx, o, "ship_goods", order.StatusShipGoods)

		require.NotNil(t, enqueued)
		assert.Equal(t, "vendor@example.com", enqueued.Recipient())
	})

	t.Run("missing vendor address drops the rule silently", func(t *testing.T) {
		o := testOrder(t)
		repo := new(MockNotificationRepository)
		repo.On("GetRulesForTarget", ctx, order.StatusShipGoods).
			Return([]*notification.Rule{testRule(t, order.StatusShipGoods, notification.RecipientVendor)}, nil).Once()

		d := notify.NewDispatcher(repo, "", discardLogger())
		d.OnTransition(ctx, o, "ship_goods", order.StatusShipGoods)

		repo.AssertNotCalled(t, "EnqueueMail", mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure is swallowed", func(t *testing.T) {
		o := testOrder(t)
		repo := new(MockNotificationRepository)
		repo.On("GetRulesForTarget", ctx, order.StatusPaymentConfirmed).
			Return([]*notification.Rule{testRule(t, order.StatusPaymentConfirmed, notification.RecipientCustomer)}, nil).Once()
		repo.On("GetTemplate", ctx, "order-confirmed").Return(testTemplate(t), nil).Once()
		repo.On("EnqueueMail", ctx, mock.Anything).Return(errors.New("queue unavailable")).Once()

		d := notify.NewDispatcher(repo, "", discardLogger())
		// must not panic or propagate
		d.OnTransition(ctx, o, "acknowledge_prepayment", order.StatusPaymentConfirmed)
		repo.AssertExpectations(t)
	})

	t.Run("rule lookup failure is swallowed", func(t *testing.T) {
		o := testOrder(t)
		repo := new(MockNotificationRepository)
		repo.On("GetRulesForTarget", ctx, order.StatusPaymentConfirmed).
			Return(nil, errors.New("db down")).Once()

		d := notify.NewDispatcher(repo, "", discardLogger())
		d.OnTransition(ctx, o, "acknowledge_prepayment", order.StatusPaymentConfirmed)
		repo.AssertExpectations(t)
	})
}
