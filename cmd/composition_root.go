package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/notify"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// ShippingPolicyPartial allows shipping in several partial deliveries;
// ShippingPolicySimple ships every order in one go.
const (
	ShippingPolicyPartial = "partial"
	ShippingPolicySimple  = "simple"
)

type CompositionRoot struct {
	gormDB           *gorm.DB
	uowFactory       postgres.GormUnitOfWorkFactory
	notificationRepo *notificationrepo.GormNotificationRepository
	workflow         *services.Workflow
	logger           *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	notificationRepo := notificationrepo.NewGormNotificationRepository(gormDB)
	dispatcher := notify.NewDispatcher(notificationRepo, config.StaffEmail, logger)

	workflow, err := buildWorkflow(config, dispatcher, logger)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		notificationRepo: notificationRepo,
		workflow:         workflow,
		logger:           logger,
	}, nil
}

// buildWorkflow composes the state machine from the configured policies. The
// notification dispatcher observes every successful transition.
func buildWorkflow(
	config Config,
	dispatcher *notify.Dispatcher,
	logger *slog.Logger,
) (*services.Workflow, error) {
	defaultShipping := config.DefaultShippingModifier
	if defaultShipping == "" {
		defaultShipping = services.PostalShippingModifier{}.Choice().Code
	}

	registry, err := services.NewModifierRegistry(
		defaultShipping,
		[]services.ShippingModifier{
			services.PostalShippingModifier{},
			services.SelfCollectionModifier{},
		},
		[]services.PaymentModifier{services.AdvancePaymentModifier{}},
	)
	if err != nil {
		return nil, err
	}

	var shipping services.WorkflowPolicy
	switch config.ShippingPolicy {
	case ShippingPolicySimple:
		shipping = services.NewSimpleShippingWorkflow()
	case ShippingPolicyPartial, "":
		shipping = services.NewPartialShippingWorkflow(registry)
	default:
		return nil, fmt.Errorf("unknown shipping policy %q", config.ShippingPolicy)
	}

	cancelable, err := parseCancelableStates(config.CancelableStates)
	if err != nil {
		return nil, err
	}

	return services.NewWorkflow(
		[]services.WorkflowPolicy{
			services.NewPaymentWorkflow(nil),
			shipping,
			services.NewCancellationWorkflow(cancelable, nil),
		},
		[]services.TransitionObserver{dispatcher},
		logger,
	)
}

// parseCancelableStates reads a comma-separated status list from the config.
// An empty value keeps the policy's default set.
func parseCancelableStates(raw string) ([]order.Status, error) {
	if raw == "" {
		return nil, nil
	}

	var states []order.Status
	for _, token := range strings.Split(raw, ",") {
		status := order.Status(strings.TrimSpace(token))
		if err := status.Validate(); err != nil {
			return nil, fmt.Errorf("cancelable states: %w", err)
		}
		states = append(states, status)
	}
	return states, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateExecuteTransitionCommandHandler() commands.ExecuteTransitionCommandHandler {
	return commands.NewExecuteTransitionCommandHandler(c.orderUoWFactory(), c.workflow)
}

func (c *CompositionRoot) CreateRegisterPaymentCommandHandler() commands.RegisterPaymentCommandHandler {
	return commands.NewRegisterPaymentCommandHandler(c.orderUoWFactory(), c.workflow)
}

func (c *CompositionRoot) CreatePackGoodsCommandHandler() commands.PackGoodsCommandHandler {
	return commands.NewPackGoodsCommandHandler(c.orderUoWFactory(), c.workflow)
}

func (c *CompositionRoot) CreateAnnotateOrderCommandHandler() commands.AnnotateOrderCommandHandler {
	return commands.NewAnnotateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateExecuteTransitionCommandHandler(),
		c.CreateRegisterPaymentCommandHandler(),
		c.CreatePackGoodsCommandHandler(),
		c.CreateAnnotateOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		orderrepo.NewGormOrderRepository(c.gormDB, nil),
		c.workflow,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.notificationRepo, c.logger)
}

// PrepareSchema creates the tables and the order number sequence.
func PrepareSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.PaymentDTO{},
		&orderrepo.DeliveryDTO{},
		&orderrepo.DeliveryItemDTO{},
		&notificationrepo.RuleDTO{},
		&notificationrepo.TemplateDTO{},
		&notificationrepo.MailDTO{},
	); err != nil {
		return err
	}

	return db.Exec("CREATE SEQUENCE IF NOT EXISTS order_numbers").Error
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
