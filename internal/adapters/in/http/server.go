package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
// Every order mutation goes through a command handler; reads go through
// query handlers or, for the admin action list, the workflow engine itself.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionHandler      commands.ExecuteTransitionCommandHandler
	registerPaymentHandler commands.RegisterPaymentCommandHandler
	packGoodsHandler       commands.PackGoodsCommandHandler
	annotateHandler        commands.AnnotateOrderCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler

	// Read-only access for the admin action list
	orders   ports.OrderRepository
	workflow *services.Workflow
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.ExecuteTransitionCommandHandler,
	registerPaymentHandler commands.RegisterPaymentCommandHandler,
	packGoodsHandler commands.PackGoodsCommandHandler,
	annotateHandler commands.AnnotateOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	orders ports.OrderRepository,
	workflow *services.Workflow,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionHandler:      transitionHandler,
		registerPaymentHandler: registerPaymentHandler,
		packGoodsHandler:       packGoodsHandler,
		annotateHandler:        annotateHandler,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		orders:                 orders,
		workflow:               workflow,
	}
}

// RegisterRoutes attaches all endpoints to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.PatchOrder)
	api.GET("/orders/:id/actions", s.GetOrderActions)
	api.POST("/orders/:id/payments", s.RegisterPayment)
	api.POST("/orders/:id/pack", s.PackGoods)
	api.POST("/orders/:id/request-payment", s.transitionEndpoint(commands.NewRequestPaymentCommand))
	api.POST("/orders/:id/decline", s.transitionEndpoint(commands.NewDeclinePaymentCommand))
	api.POST("/orders/:id/pick", s.transitionEndpoint(commands.NewPickGoodsCommand))
	api.POST("/orders/:id/ship", s.transitionEndpoint(commands.NewShipGoodsCommand))
	api.POST("/orders/:id/cancel", s.transitionEndpoint(commands.NewCancelOrderCommand))
	api.POST("/orders/:id/refund", s.transitionEndpoint(commands.NewRefundPaymentCommand))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - registers a new order from a cart payload.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	lines := make([]commands.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		unitPrice, priceErr := kernel.NewMoneyFromString(l.UnitPrice, req.Currency)
		if priceErr != nil {
			return badRequest(ctx, "Invalid unit price: "+priceErr.Error())
		}
		lines = append(lines, commands.OrderLine{
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			UnitPrice:   unitPrice,
			Quantity:    l.Quantity,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, req.CustomerEmail, req.Currency, lines)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders - retrieves all orders except canceled ones.
func (s *Server) GetOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = OrderSummary{
			ID:            o.ID.String(),
			Number:        o.Number,
			CustomerEmail: o.CustomerEmail,
			Currency:      o.Currency,
			Total:         o.Total,
			Status:        o.Status,
			UpdatedAt:     o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id - retrieves the full order detail.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderDetail(detail))
}

// PatchOrder handles PATCH /api/v1/orders/:id - writes annotations into the
// order's extra bag and, when the cancel flag is set, runs the cancel
// transition afterwards.
func (s *Server) PatchOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req PatchOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	for key, value := range req.Annotations {
		cmd, cmdErr := commands.NewAnnotateOrderCommand(orderID, key, value)
		if cmdErr != nil {
			return badRequest(ctx, "Invalid annotation: "+cmdErr.Error())
		}
		if err = s.annotateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
			return writeError(ctx, err)
		}
	}

	if req.Cancel {
		cmd, cmdErr := commands.NewCancelOrderCommand(orderID)
		if cmdErr != nil {
			return badRequest(ctx, cmdErr.Error())
		}
		status, handleErr := s.transitionHandler.Handle(ctx.Request().Context(), cmd)
		if handleErr != nil {
			return writeError(ctx, handleErr)
		}
		return ctx.JSON(http.StatusOK, TransitionResponse{Status: string(status)})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderActions handles GET /api/v1/orders/:id/actions - lists the admin
// transitions currently eligible on the order, with their button labels.
func (s *Server) GetOrderActions(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	aggregate, err := s.orders.Get(ctx.Request().Context(), orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	actions := s.workflow.AvailableAdminActions(aggregate)
	response := make([]AdminActionResponse, len(actions))
	for i, a := range actions {
		response[i] = AdminActionResponse{Transition: a.Transition, ButtonName: a.ButtonName}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterPayment handles POST /api/v1/orders/:id/payments - the payment
// provider callback. Deposits and refunds both land here; refunds carry a
// negative amount.
func (s *Server) RegisterPayment(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req RegisterPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, err := kernel.NewMoneyFromString(req.Amount, req.Currency)
	if err != nil {
		return badRequest(ctx, "Invalid amount: "+err.Error())
	}

	cmd, err := commands.NewRegisterPaymentCommand(orderID, amount, req.TransactionID, req.Method)
	if err != nil {
		return badRequest(ctx, "Invalid payment data: "+err.Error())
	}

	status, err := s.registerPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{Status: string(status)})
}

// PackGoods handles POST /api/v1/orders/:id/pack - runs the pack transition
// with per-item packing decisions.
func (s *Server) PackGoods(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req PackGoodsRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	deliveryID := kernel.NewUUID()
	if req.DeliveryID != "" {
		deliveryID, err = kernel.UUIDFromString(req.DeliveryID)
		if err != nil {
			return badRequest(ctx, "Invalid delivery id: "+err.Error())
		}
	}

	decisions := make([]order.DeliveryDecision, 0, len(req.Decisions))
	for _, d := range req.Decisions {
		itemID, itemErr := kernel.UUIDFromString(d.ItemID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid item id: "+itemErr.Error())
		}
		decisions = append(decisions, order.DeliveryDecision{
			ItemID:   itemID,
			Quantity: d.Quantity,
			Canceled: d.Canceled,
		})
	}

	cmd, err := commands.NewPackGoodsCommand(orderID, deliveryID, decisions)
	if err != nil {
		return badRequest(ctx, "Invalid packing data: "+err.Error())
	}

	status, err := s.packGoodsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{Status: string(status)})
}

// transitionEndpoint builds an Echo handler for one named admin transition.
func (s *Server) transitionEndpoint(
	newCommand func(kernel.UUID) (commands.ExecuteTransitionCommand, error),
) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := parseOrderID(ctx)
		if err != nil {
			return badRequest(ctx, "Invalid order id")
		}

		cmd, err := newCommand(orderID)
		if err != nil {
			return badRequest(ctx, err.Error())
		}

		status, err := s.transitionHandler.Handle(ctx.Request().Context(), cmd)
		if err != nil {
			return writeError(ctx, err)
		}

		return ctx.JSON(http.StatusOK, TransitionResponse{Status: string(status)})
	}
}

func parseOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain errors onto HTTP status codes. Rejected transitions
// and failed guards answer 409 so callers can tell a workflow conflict from
// bad input.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrTransitionNotAllowed):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
