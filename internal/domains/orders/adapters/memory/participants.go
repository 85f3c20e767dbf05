package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var _ ports.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository stores participants keyed by id with a unique email index.
type ParticipantRepository struct {
	mu      sync.RWMutex
	byID    map[int64]domain.Participant
	byEmail map[string]int64
	nextID  int64
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{byID: map[int64]domain.Participant{}, byEmail: map[string]int64{}}
}

func (r *ParticipantRepository) Create(_ context.Context, participant *domain.Participant) (*domain.Participant, error) {
	if participant == nil {
		return nil, errors.New("participant is nil")
	}
	clone := *participant
	email, err := domain.NormalizeEmail(clone.Email)
	if err != nil {
		return nil, err
	}
	clone.Email = email
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[email]; taken {
		return nil, ports.ErrEmailTaken
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, exists := r.byID[clone.ID]; exists {
		return nil, errors.New("participant already exists")
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.byID[clone.ID] = clone
	r.byEmail[email] = clone.ID
	saved := clone
	return &saved, nil
}

func (r *ParticipantRepository) GetByID(_ context.Context, id int64) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	participant, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrParticipantNotFound
	}
	return &participant, nil
}

func (r *ParticipantRepository) GetByEmail(_ context.Context, email string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ports.ErrParticipantNotFound
	}
	participant := r.byID[id]
	return &participant, nil
}
