package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
	"github.com/Apurer/mealgroup-api/internal/shared/projection"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository persists orders in PostgreSQL using GORM. Schema is owned by
// internal/platform/migrations.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	Name              string    `gorm:"column:name"`
	Location          string    `gorm:"column:location"`
	MenuDescription   string    `gorm:"column:menu_description"`
	ScheduledAt       time.Time `gorm:"column:dt_scheduled"`
	Status            string    `gorm:"column:status"`
	ServiceProviderID *int64    `gorm:"column:service_provider_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toOrderRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record, err := r.load(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

// Save writes the order only while the stored status is still expected; the
// status is compared and set in one statement.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order, expected domain.Status) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if order.Status != expected {
		if err := domain.ValidateTransition(expected, order.Status); err != nil {
			return nil, err
		}
	}
	db := r.db.WithContext(ctx)
	record := toOrderRecord(order)
	result := db.Model(&orderRecord{}).
		Where("id = ? AND status = ?", order.ID, string(expected)).
		Updates(map[string]any{
			"name":                record.Name,
			"location":            record.Location,
			"menu_description":    record.MenuDescription,
			"dt_scheduled":        record.ScheduledAt,
			"status":              record.Status,
			"service_provider_id": record.ServiceProviderID,
			"updated_at":          gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.load(db, order.ID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: order is %s, not %s", domain.ErrInvalidTransition, current.Status, expected)
	}
	return r.GetByID(ctx, order.ID)
}

// Delete removes the order; roster lines go with it.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&rosterRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrOrderNotFound
		}
		return nil
	})
}

func (r *OrderRepository) List(ctx context.Context) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("dt_scheduled DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *OrderRepository) load(db *gorm.DB, id int64) (*orderRecord, error) {
	var record orderRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *OrderRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                order.ID,
		Name:              order.Name,
		Location:          order.Location,
		MenuDescription:   order.MenuDescription,
		ScheduledAt:       order.ScheduledAt.UTC(),
		Status:            string(order.Status),
		ServiceProviderID: order.ServiceProviderID,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                r.ID,
		Name:              r.Name,
		Location:          r.Location,
		MenuDescription:   r.MenuDescription,
		ScheduledAt:       r.ScheduledAt.UTC(),
		Status:            domain.Status(r.Status),
		ServiceProviderID: r.ServiceProviderID,
	}
}

func (r orderRecord) toProjection() *ports.OrderProjection {
	return projection.New(r.toDomain(), r.CreatedAt, r.UpdatedAt)
}
