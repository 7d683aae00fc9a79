// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items, payments, and deliveries are child tables keyed by order id.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerEmail string          `gorm:"type:varchar(255);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(32);not null;index"`
	Extra         string          `gorm:"type:jsonb;default:'{}'"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`

	Items      []ItemDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments   []PaymentDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries []DeliveryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line in the database.
type ItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(64);not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"type:int;not null"`
	Canceled    bool            `gorm:"not null;default:false"`
	Extra       string          `gorm:"type:jsonb;default:'{}'"`
}

// TableName overrides GORM's default naming to use "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

// PaymentDTO represents one payment ledger entry in the database.
// The ledger is append-only; the composite key on order and transaction id
// keeps repeated aggregate saves from duplicating entries.
type PaymentDTO struct {
	OrderID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID string          `gorm:"type:varchar(128);primaryKey"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method        string          `gorm:"type:varchar(64);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "order_payments".
func (PaymentDTO) TableName() string {
	return "order_payments"
}

// DeliveryDTO represents one delivery in the database.
type DeliveryDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShippingID     string     `gorm:"type:varchar(128)"`
	ShippingMethod string     `gorm:"type:varchar(64);not null"`
	FulfilledAt    *time.Time `gorm:""`
	ShippedAt      *time.Time `gorm:""`

	Items []DeliveryItemDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// DeliveryItemDTO maps an order item to the quantity covered by a delivery.
type DeliveryItemDTO struct {
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity   int       `gorm:"type:int;not null"`
}

// TableName overrides GORM's default naming to use "delivery_items".
func (DeliveryItemDTO) TableName() string {
	return "delivery_items"
}

func marshalExtra(extra map[string]string) string {
	if len(extra) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func unmarshalExtra(raw string) (map[string]string, error) {
	extra := map[string]string{}
	if raw == "" {
		return extra, nil
	}
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, err
	}
	return extra, nil
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:          item.ID().Bytes(),
			OrderID:     orderID,
			ProductCode: item.ProductCode(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount(),
			Quantity:    item.Quantity(),
			Canceled:    item.Canceled(),
			Extra:       marshalExtra(item.Extra()),
		})
	}

	payments := make([]PaymentDTO, 0, len(aggregate.Payments()))
	for _, payment := range aggregate.Payments() {
		payments = append(payments, PaymentDTO{
			OrderID:       orderID,
			TransactionID: payment.TransactionID(),
			Amount:        payment.Amount().Amount(),
			Method:        payment.Method(),
			CreatedAt:     payment.CreatedAt(),
		})
	}

	deliveries := make([]DeliveryDTO, 0, len(aggregate.Deliveries()))
	for _, delivery := range aggregate.Deliveries() {
		deliveryID := delivery.ID().Bytes()
		deliveryItems := make([]DeliveryItemDTO, 0, len(delivery.Items()))
		for _, di := range delivery.Items() {
			deliveryItems = append(deliveryItems, DeliveryItemDTO{
				DeliveryID: deliveryID,
				ItemID:     di.ItemID.Bytes(),
				Quantity:   di.Quantity,
			})
		}
		deliveries = append(deliveries, DeliveryDTO{
			ID:             deliveryID,
			OrderID:        orderID,
			ShippingID:     delivery.ShippingID(),
			ShippingMethod: delivery.ShippingMethod(),
			FulfilledAt:    delivery.FulfilledAt(),
			ShippedAt:      delivery.ShippedAt(),
			Items:          deliveryItems,
		})
	}

	return OrderDTO{
		ID:            orderID,
		Number:        aggregate.Number(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		CustomerEmail: aggregate.CustomerEmail(),
		Currency:      aggregate.Currency(),
		Subtotal:      aggregate.Subtotal().Amount(),
		Total:         aggregate.Total().Amount(),
		Status:        string(aggregate.Status()),
		Extra:         marshalExtra(aggregate.Extra()),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
		Items:         items,
		Payments:      payments,
		Deliveries:    deliveries,
	}
}

// toDomain converts a database DTO back into an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal, dto.Currency)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total, dto.Currency)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, row := range dto.Items {
		item, itemErr := itemToDomain(row, dto.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	payments := make([]order.Payment, 0, len(dto.Payments))
	for _, row := range dto.Payments {
		amount, payErr := kernel.NewMoney(row.Amount, dto.Currency)
		if payErr != nil {
			return nil, payErr
		}
		payment, payErr := order.NewPayment(amount, row.TransactionID, row.Method, row.CreatedAt)
		if payErr != nil {
			return nil, payErr
		}
		payments = append(payments, payment)
	}

	deliveries := make([]*order.Delivery, 0, len(dto.Deliveries))
	for _, row := range dto.Deliveries {
		delivery, delErr := deliveryToDomain(row)
		if delErr != nil {
			return nil, delErr
		}
		deliveries = append(deliveries, delivery)
	}

	extra, err := unmarshalExtra(dto.Extra)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, dto.Number, customerID, dto.CustomerEmail, dto.Currency,
		subtotal, total, order.Status(dto.Status),
		items, payments, deliveries, extra,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func itemToDomain(row ItemDTO, currency string) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.NewMoney(row.UnitPrice, currency)
	if err != nil {
		return nil, err
	}
	extra, err := unmarshalExtra(row.Extra)
	if err != nil {
		return nil, err
	}
	return order.RestoreItem(id, row.ProductCode, row.ProductName, unitPrice, row.Quantity, row.Canceled, extra)
}

func deliveryToDomain(row DeliveryDTO) (*order.Delivery, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.DeliveryItem, 0, len(row.Items))
	for _, di := range row.Items {
		itemID, itemErr := kernel.UUIDFromBytes(di.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, order.DeliveryItem{ItemID: itemID, Quantity: di.Quantity})
	}

	return order.RestoreDelivery(id, row.ShippingID, row.ShippingMethod, row.FulfilledAt, row.ShippedAt, items)
}
