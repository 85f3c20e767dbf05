package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var (
	_ ports.GroupDirectory    = (*GroupDirectory)(nil)
	_ ports.ProviderCatalog   = (*ProviderCatalog)(nil)
	_ ports.WasteFactorSource = (*WasteFactors)(nil)
)

// GroupDirectory is an in-memory group membership directory.
type GroupDirectory struct {
	mu     sync.RWMutex
	groups map[int64]domain.Group
}

func NewGroupDirectory() *GroupDirectory {
	return &GroupDirectory{groups: map[int64]domain.Group{}}
}

// Put registers or replaces a group.
func (d *GroupDirectory) Put(group domain.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group.MemberIDs = append([]int64(nil), group.MemberIDs...)
	d.groups[group.ID] = group
}

func (d *GroupDirectory) Members(_ context.Context, groupID int64) ([]int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	group, ok := d.groups[groupID]
	if !ok {
		return nil, ports.ErrGroupNotFound
	}
	return append([]int64{}, group.MemberIDs...), nil
}

// ProviderCatalog is an in-memory, read-mostly service provider catalog.
type ProviderCatalog struct {
	mu        sync.RWMutex
	providers map[int64]domain.ServiceProvider
}

func NewProviderCatalog() *ProviderCatalog {
	return &ProviderCatalog{providers: map[int64]domain.ServiceProvider{}}
}

// Put registers or replaces a provider.
func (c *ProviderCatalog) Put(provider domain.ServiceProvider) error {
	if provider.ID <= 0 {
		return errors.New("provider id must be greater than zero")
	}
	if err := provider.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[provider.ID] = provider
	return nil
}

func (c *ProviderCatalog) Get(_ context.Context, id int64) (*domain.ServiceProvider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	provider, ok := c.providers[id]
	if !ok {
		return nil, ports.ErrProviderNotFound
	}
	return &provider, nil
}

func (c *ProviderCatalog) List(_ context.Context) ([]*domain.ServiceProvider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]*domain.ServiceProvider, 0, len(c.providers))
	for _, provider := range c.providers {
		p := provider
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// WasteFactors serves a global default factor with optional per-order overrides.
type WasteFactors struct {
	mu        sync.RWMutex
	fallback  float64
	overrides map[int64]float64
}

func NewWasteFactors(fallback float64) *WasteFactors {
	if fallback < 0 {
		fallback = 0
	}
	return &WasteFactors{fallback: fallback, overrides: map[int64]float64{}}
}

// Set overrides the factor for one order.
func (w *WasteFactors) Set(orderID int64, factor float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overrides[orderID] = factor
}

func (w *WasteFactors) WasteFactor(_ context.Context, orderID int64) (float64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if factor, ok := w.overrides[orderID]; ok {
		return factor, nil
	}
	return w.fallback, nil
}
