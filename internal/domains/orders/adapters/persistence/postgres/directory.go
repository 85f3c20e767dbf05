package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var (
	_ ports.GroupDirectory    = (*GroupDirectory)(nil)
	_ ports.ProviderCatalog   = (*ProviderCatalog)(nil)
	_ ports.WasteFactorSource = (*WasteFactors)(nil)
)

type groupRecord struct {
	ID        int64         `gorm:"primaryKey;column:id"`
	Name      string        `gorm:"column:name"`
	MemberIDs pq.Int64Array `gorm:"column:member_ids;type:bigint[]"`
}

func (groupRecord) TableName() string { return "participant_groups" }

// GroupDirectory reads group membership. Member order is the stored array order.
type GroupDirectory struct {
	db *gorm.DB
}

func NewGroupDirectory(db *gorm.DB) *GroupDirectory {
	return &GroupDirectory{db: db}
}

func (d *GroupDirectory) Members(ctx context.Context, groupID int64) ([]int64, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("postgres group directory not configured")
	}
	var record groupRecord
	if err := d.db.WithContext(ctx).First(&record, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrGroupNotFound
		}
		return nil, err
	}
	return append([]int64{}, record.MemberIDs...), nil
}

type serviceProviderRecord struct {
	ID            int64   `gorm:"primaryKey;column:id"`
	Name          string  `gorm:"column:name"`
	CostPerPerson float64 `gorm:"column:cost_per_person"`
}

func (serviceProviderRecord) TableName() string { return "service_providers" }

// ProviderCatalog reads the service provider catalog.
type ProviderCatalog struct {
	db *gorm.DB
}

func NewProviderCatalog(db *gorm.DB) *ProviderCatalog {
	return &ProviderCatalog{db: db}
}

func (c *ProviderCatalog) Get(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var record serviceProviderRecord
	if err := c.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProviderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (c *ProviderCatalog) List(ctx context.Context) ([]*domain.ServiceProvider, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var records []serviceProviderRecord
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	providers := make([]*domain.ServiceProvider, 0, len(records))
	for i := range records {
		providers = append(providers, records[i].toDomain())
	}
	return providers, nil
}

func (c *ProviderCatalog) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres provider catalog not configured")
	}
	return nil
}

func (r serviceProviderRecord) toDomain() *domain.ServiceProvider {
	return &domain.ServiceProvider{ID: r.ID, Name: r.Name, CostPerPerson: r.CostPerPerson}
}

type wasteFactorRecord struct {
	OrderID int64   `gorm:"primaryKey;column:order_id"`
	Factor  float64 `gorm:"column:factor"`
}

func (wasteFactorRecord) TableName() string { return "order_waste_factors" }

// WasteFactors reads per-order factors written by analytics and falls back to a
// default for orders it has not scored yet.
type WasteFactors struct {
	db       *gorm.DB
	fallback float64
}

func NewWasteFactors(db *gorm.DB, fallback float64) *WasteFactors {
	return &WasteFactors{db: db, fallback: fallback}
}

func (w *WasteFactors) WasteFactor(ctx context.Context, orderID int64) (float64, error) {
	if w == nil || w.db == nil {
		return 0, errors.New("postgres waste factor source not configured")
	}
	var record wasteFactorRecord
	if err := w.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return w.fallback, nil
		}
		return 0, err
	}
	return record.Factor, nil
}
