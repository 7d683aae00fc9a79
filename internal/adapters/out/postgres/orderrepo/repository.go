package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// Update saves an existing order to the database, including its child
// collections. Deliveries withdrawn from the aggregate are removed from
// storage; items and ledger entries are never removed.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update nested associations
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.pruneWithdrawnDeliveries(ctx, dto); err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// pruneWithdrawnDeliveries removes delivery rows no longer present on the
// aggregate. FullSaveAssociations upserts children but never deletes them,
// so a withdrawn open delivery would otherwise survive cancellation.
func (r *GormOrderRepository) pruneWithdrawnDeliveries(ctx context.Context, dto OrderDTO) error {
	kept := make([]uuid.UUID, 0, len(dto.Deliveries))
	for _, d := range dto.Deliveries {
		kept = append(kept, d.ID)
	}

	db := r.db.WithContext(ctx)
	if len(kept) == 0 {
		if err := db.Exec(`
			DELETE FROM delivery_items
			WHERE delivery_id IN (SELECT id FROM deliveries WHERE order_id = ?)
		`, dto.ID).Error; err != nil {
			return err
		}
		return db.Where("order_id = ?", dto.ID).Delete(&DeliveryDTO{}).Error
	}

	if err := db.Exec(`
		DELETE FROM delivery_items
		WHERE delivery_id IN (SELECT id FROM deliveries WHERE order_id = ? AND id NOT IN ?)
	`, dto.ID, kept).Error; err != nil {
		return err
	}
	return db.Where("order_id = ? AND id NOT IN ?", dto.ID, kept).Delete(&DeliveryDTO{}).Error
}

// Get retrieves an order by ID with all child collections.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByNumber retrieves an order by its display number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves all orders that have not reached a terminal status,
// most recently updated first.
func (r *GormOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.preloaded(ctx).
		Where("status != ?", string(order.StatusCanceled)).
		Order("updated_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

// NextNumber reserves the next order display number from the database
// sequence, rendered as year and zero-padded counter.
func (r *GormOrderRepository) NextNumber(ctx context.Context) (string, error) {
	var next int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('order_numbers')").Scan(&next).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%05d", time.Now().UTC().Year(), next), nil
}

// preloaded loads child collections in stable order: the ledger by entry
// time, deliveries by fulfillment time since the aggregate derives delivery
// sequence numbers from slice position.
func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_code")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB {
			return db.Order("fulfilled_at NULLS LAST")
		}).
		Preload("Deliveries.Items")
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
