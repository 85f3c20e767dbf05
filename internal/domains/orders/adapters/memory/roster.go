package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var _ ports.RosterRepository = (*RosterRepository)(nil)

type rosterKey struct {
	orderID       int64
	participantID int64
}

type rosterRecord struct {
	line domain.OrderParticipant
	seq  int64
}

// RosterRepository keeps roster lines unique per (order, participant) pair.
type RosterRepository struct {
	mu    sync.RWMutex
	lines map[rosterKey]*rosterRecord
	seq   int64
	now   func() time.Time
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{lines: map[rosterKey]*rosterRecord{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *RosterRepository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *RosterRepository) Insert(_ context.Context, line *domain.OrderParticipant) (*domain.OrderParticipant, error) {
	if line == nil {
		return nil, errors.New("roster line is nil")
	}
	key := rosterKey{orderID: line.OrderID, participantID: line.ParticipantID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lines[key]; exists {
		return nil, ports.ErrAlreadyRostered
	}
	r.seq++
	now := r.now()
	rec := &rosterRecord{line: *line, seq: r.seq}
	rec.line.CreatedAt = now
	rec.line.UpdatedAt = now
	r.lines[key] = rec
	saved := rec.line
	return &saved, nil
}

func (r *RosterRepository) Get(_ context.Context, orderID, participantID int64) (*domain.OrderParticipant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.lines[rosterKey{orderID: orderID, participantID: participantID}]
	if !ok {
		return nil, ports.ErrRosterLineNotFound
	}
	line := rec.line
	return &line, nil
}

func (r *RosterRepository) UpdateStatus(_ context.Context, orderID, participantID int64, from, to domain.RSVPStatus) (*domain.OrderParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.lines[rosterKey{orderID: orderID, participantID: participantID}]
	if !ok {
		return nil, ports.ErrRosterLineNotFound
	}
	if rec.line.Status != from {
		return nil, ports.ErrStatusChanged
	}
	rec.line.Status = to
	rec.line.UpdatedAt = r.now()
	line := rec.line
	return &line, nil
}

func (r *RosterRepository) ListByOrder(_ context.Context, orderID int64) ([]*domain.OrderParticipant, error) {
	return r.collect(func(line domain.OrderParticipant) bool { return line.OrderID == orderID }), nil
}

func (r *RosterRepository) ListByParticipant(_ context.Context, participantID int64) ([]*domain.OrderParticipant, error) {
	return r.collect(func(line domain.OrderParticipant) bool { return line.ParticipantID == participantID }), nil
}

func (r *RosterRepository) collect(match func(domain.OrderParticipant) bool) []*domain.OrderParticipant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*rosterRecord, 0)
	for _, rec := range r.lines {
		if match(rec.line) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	lines := make([]*domain.OrderParticipant, 0, len(records))
	for _, rec := range records {
		line := rec.line
		lines = append(lines, &line)
	}
	return lines
}

func (r *RosterRepository) deleteOrder(orderID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.lines {
		if key.orderID == orderID {
			delete(r.lines, key)
		}
	}
}
