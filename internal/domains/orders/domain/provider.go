package domain

import "errors"

var ErrNegativeCost = errors.New("cost per person must not be negative")

// ServiceProvider is a read-only catalog entry supplying meals at a flat price.
type ServiceProvider struct {
	ID            int64
	Name          string
	CostPerPerson float64
}

// Validate enforces the non-negative price invariant.
func (p *ServiceProvider) Validate() error {
	if p.CostPerPerson < 0 {
		return ErrNegativeCost
	}
	return nil
}

// Group is a named, ordered set of participants that can be invited together.
type Group struct {
	ID        int64
	Name      string
	MemberIDs []int64
}
