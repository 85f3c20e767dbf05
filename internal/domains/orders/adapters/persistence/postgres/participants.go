package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var _ ports.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository persists participants in PostgreSQL.
type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

type participantRecord struct {
	ID                  int64     `gorm:"primaryKey;column:id"`
	Email               string    `gorm:"column:email"`
	DietaryRequirements string    `gorm:"column:dietary_requirements"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (participantRecord) TableName() string { return "participants" }

// Create inserts a participant; a duplicate email yields ports.ErrEmailTaken.
func (r *ParticipantRepository) Create(ctx context.Context, participant *domain.Participant) (*domain.Participant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, errors.New("participant is nil")
	}
	email, err := domain.NormalizeEmail(participant.Email)
	if err != nil {
		return nil, err
	}
	record := participantRecord{
		ID:                  participant.ID,
		Email:               email,
		DietaryRequirements: participant.DietaryRequirements,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrEmailTaken
	}
	return record.toDomain(), nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *ParticipantRepository) first(ctx context.Context, query string, arg any) (*domain.Participant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record participantRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrParticipantNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ParticipantRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres participant repository not configured")
	}
	return nil
}

func (r participantRecord) toDomain() *domain.Participant {
	return &domain.Participant{ID: r.ID, Email: r.Email, DietaryRequirements: r.DietaryRequirements}
}
