package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
	"github.com/Apurer/mealgroup-api/internal/shared/projection"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

type orderRecord struct {
	order     domain.Order
	createdAt time.Time
	updatedAt time.Time
}

// OrderRepository is an in-memory order persistence adapter.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*orderRecord
	nextID int64
	roster *RosterRepository
	now    func() time.Time
}

// NewOrderRepository builds an empty repository. When roster is non-nil, deleting
// an order also drops its roster lines.
func NewOrderRepository(roster *RosterRepository) *OrderRepository {
	return &OrderRepository{orders: map[int64]*orderRecord{}, roster: roster, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *OrderRepository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, exists := r.orders[clone.ID]; exists {
		return nil, errors.New("order already exists")
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := r.now()
	rec := &orderRecord{order: clone, createdAt: now, updatedAt: now}
	r.orders[clone.ID] = rec
	return rec.projection(), nil
}

func (r *OrderRepository) GetByID(_ context.Context, id int64) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return rec.projection(), nil
}

func (r *OrderRepository) Save(_ context.Context, order *domain.Order, expected domain.Status) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.orders[clone.ID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	if rec.order.Status != expected {
		return nil, fmt.Errorf("%w: order is %s, not %s", domain.ErrInvalidTransition, rec.order.Status, expected)
	}
	if clone.Status != expected {
		if err := domain.ValidateTransition(expected, clone.Status); err != nil {
			return nil, err
		}
	}
	rec.order = clone
	rec.updatedAt = r.now()
	return rec.projection(), nil
}

func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrOrderNotFound
	}
	delete(r.orders, id)
	if r.roster != nil {
		r.roster.deleteOrder(id)
	}
	return nil
}

func (r *OrderRepository) List(_ context.Context) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.OrderProjection, 0, len(r.orders))
	for _, rec := range r.orders {
		list = append(list, rec.projection())
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Entity, list[j].Entity
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.After(b.ScheduledAt)
		}
		return a.ID > b.ID
	})
	return list, nil
}

func (rec *orderRecord) projection() *ports.OrderProjection {
	clone := cloneOrder(&rec.order)
	return projection.New(&clone, rec.createdAt, rec.updatedAt)
}

func cloneOrder(order *domain.Order) domain.Order {
	clone := *order
	if order.ServiceProviderID != nil {
		id := *order.ServiceProviderID
		clone.ServiceProviderID = &id
	}
	return clone
}
