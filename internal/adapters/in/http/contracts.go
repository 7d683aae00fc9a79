package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
)

// CreateOrderRequest is the checkout payload. Lines may be empty; a
// zero-total order skips the payment leg of the workflow.
type CreateOrderRequest struct {
	CustomerID    string             `json:"customer_id"`
	CustomerEmail string             `json:"customer_email"`
	Currency      string             `json:"currency"`
	Lines         []OrderLineRequest `json:"lines"`
}

// OrderLineRequest is one cart line.
type OrderLineRequest struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// CreateOrderResponse carries the identifier of the freshly created order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// PatchOrderRequest updates the order's extra bag and optionally cancels it.
type PatchOrderRequest struct {
	Annotations map[string]string `json:"annotations,omitempty"`
	Cancel      bool              `json:"cancel,omitempty"`
}

// RegisterPaymentRequest is the payment provider callback body. Refunds are
// posted with a negative amount.
type RegisterPaymentRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transaction_id"`
	Method        string `json:"method"`
}

// PackGoodsRequest carries the warehouse packing decisions. DeliveryID is
// optional; omitting it lets the server assign one.
type PackGoodsRequest struct {
	DeliveryID string                `json:"delivery_id,omitempty"`
	Decisions  []PackDecisionRequest `json:"decisions"`
}

// PackDecisionRequest is one per-item packing decision.
type PackDecisionRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Canceled bool   `json:"canceled"`
}

// TransitionResponse reports the order's status after a transition ran,
// including any auto transitions that fired behind it.
type TransitionResponse struct {
	Status string `json:"status"`
}

// AdminActionResponse is one eligible admin transition.
type AdminActionResponse struct {
	Transition string `json:"transition"`
	ButtonName string `json:"button_name"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderSummary is one row of the active orders listing.
type OrderSummary struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	CustomerEmail string    `json:"customer_email"`
	Currency      string    `json:"currency"`
	Total         string    `json:"total"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderDetail is the full order representation.
type OrderDetail struct {
	ID            string            `json:"id"`
	Number        string            `json:"number"`
	CustomerEmail string            `json:"customer_email"`
	Currency      string            `json:"currency"`
	Subtotal      string            `json:"subtotal"`
	Total         string            `json:"total"`
	AmountPaid    string            `json:"amount_paid"`
	Status        string            `json:"status"`
	Extra         map[string]string `json:"extra,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Items         []OrderItem       `json:"items"`
	Payments      []OrderPayment    `json:"payments"`
	Deliveries    []Delivery        `json:"deliveries"`
}

// OrderItem is one order line in the detail view.
type OrderItem struct {
	ID          string `json:"id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
	Canceled    bool   `json:"canceled"`
}

// OrderPayment is one ledger entry in the detail view.
type OrderPayment struct {
	Amount        string    `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	CreatedAt     time.Time `json:"created_at"`
}

// Delivery is one delivery in the detail view.
type Delivery struct {
	ID             string         `json:"id"`
	Number         string         `json:"number"`
	ShippingID     string         `json:"shipping_id,omitempty"`
	ShippingMethod string         `json:"shipping_method"`
	FulfilledAt    *time.Time     `json:"fulfilled_at,omitempty"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
	Items          []DeliveryItem `json:"items"`
}

// DeliveryItem maps an order item to its quantity within one delivery.
type DeliveryItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func toOrderDetail(r queries.GetOrderQueryResponse) OrderDetail {
	detail := OrderDetail{
		ID:            r.ID.String(),
		Number:        r.Number,
		CustomerEmail: r.CustomerEmail,
		Currency:      r.Currency,
		Subtotal:      r.Subtotal,
		Total:         r.Total,
		AmountPaid:    r.AmountPaid,
		Status:        r.Status,
		Extra:         r.Extra,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Items:         make([]OrderItem, len(r.Items)),
		Payments:      make([]OrderPayment, len(r.Payments)),
		Deliveries:    make([]Delivery, len(r.Deliveries)),
	}

	for i, item := range r.Items {
		detail.Items[i] = OrderItem{
			ID:          item.ID.String(),
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			Canceled:    item.Canceled,
		}
	}

	for i, p := range r.Payments {
		detail.Payments[i] = OrderPayment{
			Amount:        p.Amount,
			TransactionID: p.TransactionID,
			Method:        p.Method,
			CreatedAt:     p.CreatedAt,
		}
	}

	for i, d := range r.Deliveries {
		items := make([]DeliveryItem, len(d.Items))
		for j, di := range d.Items {
			items[j] = DeliveryItem{ItemID: di.ItemID.String(), Quantity: di.Quantity}
		}
		detail.Deliveries[i] = Delivery{
			ID:             d.ID.String(),
			Number:         d.Number,
			ShippingID:     d.ShippingID,
			ShippingMethod: d.ShippingMethod,
			FulfilledAt:    d.FulfilledAt,
			ShippedAt:      d.ShippedAt,
			Items:          items,
		}
	}

	return detail
}
