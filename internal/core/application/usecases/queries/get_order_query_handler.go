package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with all its children.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID            uuid.UUID
	Number        string
	CustomerEmail string
	Currency      string
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Status        string
	Extra         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type itemRow struct {
	ID          uuid.UUID
	ProductCode string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Canceled    bool
}

type paymentRow struct {
	Amount        decimal.Decimal
	TransactionID string
	Method        string
	CreatedAt     time.Time
}

type deliveryRow struct {
	ID             uuid.UUID
	ShippingID     string
	ShippingMethod string
	FulfilledAt    *time.Time
	ShippedAt      *time.Time
}

type deliveryItemRow struct {
	DeliveryID uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
}

// Handle executes the detail query.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID := query.OrderID().Bytes()
	db := h.db.WithContext(ctx)

	var header orderRow
	err := db.Raw(`
		SELECT id, number, customer_email, currency, subtotal, total, status, extra, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, orderID).Take(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := headerToResponse(header)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var items []itemRow
	if err = db.Raw(`
		SELECT id, product_code, product_name, unit_price, quantity, canceled
		FROM order_items
		WHERE order_id = ?
		ORDER BY product_code
	`, orderID).Scan(&items).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}
	for _, row := range items {
		itemID, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		lineTotal := row.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          itemID,
			ProductCode: row.ProductCode,
			ProductName: row.ProductName,
			UnitPrice:   row.UnitPrice.StringFixed(2),
			Quantity:    row.Quantity,
			LineTotal:   lineTotal.StringFixed(2),
			Canceled:    row.Canceled,
		})
	}

	var payments []paymentRow
	if err = db.Raw(`
		SELECT amount, transaction_id, method, created_at
		FROM order_payments
		WHERE order_id = ?
		ORDER BY created_at
	`, orderID).Scan(&payments).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}
	amountPaid := decimal.Zero
	for _, row := range payments {
		amountPaid = amountPaid.Add(row.Amount)
		resp.Payments = append(resp.Payments, OrderPaymentResponse{
			Amount:        row.Amount.StringFixed(2),
			TransactionID: row.TransactionID,
			Method:        row.Method,
			CreatedAt:     row.CreatedAt,
		})
	}
	resp.AmountPaid = amountPaid.StringFixed(2)

	if err = h.loadDeliveries(ctx, orderID, &resp); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func headerToResponse(header orderRow) (GetOrderQueryResponse, error) {
	id, err := kernel.UUIDFromBytes(header.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	extra := map[string]string{}
	if header.Extra != "" {
		if err = json.Unmarshal([]byte(header.Extra), &extra); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	return GetOrderQueryResponse{
		ID:            id,
		Number:        header.Number,
		CustomerEmail: header.CustomerEmail,
		Currency:      header.Currency,
		Subtotal:      header.Subtotal.StringFixed(2),
		Total:         header.Total.StringFixed(2),
		Status:        header.Status,
		Extra:         extra,
		CreatedAt:     header.CreatedAt,
		UpdatedAt:     header.UpdatedAt,
	}, nil
}

func (h GetOrderQueryHandler) loadDeliveries(ctx context.Context, orderID uuid.UUID, resp *GetOrderQueryResponse) error {
	db := h.db.WithContext(ctx)

	var deliveries []deliveryRow
	if err := db.Raw(`
		SELECT id, shipping_id, shipping_method, fulfilled_at, shipped_at
		FROM deliveries
		WHERE order_id = ?
		ORDER BY fulfilled_at NULLS LAST
	`, orderID).Scan(&deliveries).Error; err != nil {
		return err
	}
	if len(deliveries) == 0 {
		return nil
	}

	var deliveryItems []deliveryItemRow
	if err := db.Raw(`
		SELECT delivery_id, item_id, quantity
		FROM delivery_items
		WHERE delivery_id IN (SELECT id FROM deliveries WHERE order_id = ?)
	`, orderID).Scan(&deliveryItems).Error; err != nil {
		return err
	}

	itemsByDelivery := make(map[uuid.UUID][]DeliveryItemResponse, len(deliveries))
	for _, row := range deliveryItems {
		itemID, err := kernel.UUIDFromBytes(row.ItemID[:])
		if err != nil {
			return err
		}
		itemsByDelivery[row.DeliveryID] = append(itemsByDelivery[row.DeliveryID],
			DeliveryItemResponse{ItemID: itemID, Quantity: row.Quantity})
	}

	for idx, row := range deliveries {
		deliveryID, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return err
		}
		number := resp.Number
		if len(deliveries) > 1 {
			number = fmt.Sprintf("%s/%d", resp.Number, idx+1)
		}
		resp.Deliveries = append(resp.Deliveries, DeliveryResponse{
			ID:             deliveryID,
			Number:         number,
			ShippingID:     row.ShippingID,
			ShippingMethod: row.ShippingMethod,
			FulfilledAt:    row.FulfilledAt,
			ShippedAt:      row.ShippedAt,
			Items:          itemsByDelivery[row.ID],
		})
	}
	return nil
}
