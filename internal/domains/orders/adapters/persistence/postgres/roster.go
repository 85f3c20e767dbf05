package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var _ ports.RosterRepository = (*RosterRepository)(nil)

// RosterRepository persists roster lines. The (order_id, participant_id) unique
// index and conditional updates replace any locking.
type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type rosterRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	OrderID       int64     `gorm:"column:order_id"`
	ParticipantID int64     `gorm:"column:participant_id"`
	Status        int       `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (rosterRecord) TableName() string { return "order_participants" }

func (r *RosterRepository) Insert(ctx context.Context, line *domain.OrderParticipant) (*domain.OrderParticipant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if line == nil {
		return nil, errors.New("roster line is nil")
	}
	record := rosterRecord{OrderID: line.OrderID, ParticipantID: line.ParticipantID, Status: int(line.Status)}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "participant_id"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAlreadyRostered
	}
	return record.toDomain(), nil
}

func (r *RosterRepository) Get(ctx context.Context, orderID, participantID int64) (*domain.OrderParticipant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record rosterRecord
	err := r.db.WithContext(ctx).
		First(&record, "order_id = ? AND participant_id = ?", orderID, participantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrRosterLineNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *RosterRepository) UpdateStatus(ctx context.Context, orderID, participantID int64, from, to domain.RSVPStatus) (*domain.OrderParticipant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&rosterRecord{}).
		Where("order_id = ? AND participant_id = ? AND status = ?", orderID, participantID, int(from)).
		Updates(map[string]any{"status": int(to), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, orderID, participantID); err != nil {
			return nil, err
		}
		return nil, ports.ErrStatusChanged
	}
	return r.Get(ctx, orderID, participantID)
}

func (r *RosterRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderParticipant, error) {
	return r.list(ctx, "order_id = ?", orderID)
}

func (r *RosterRepository) ListByParticipant(ctx context.Context, participantID int64) ([]*domain.OrderParticipant, error) {
	return r.list(ctx, "participant_id = ?", participantID)
}

func (r *RosterRepository) list(ctx context.Context, query string, arg any) ([]*domain.OrderParticipant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []rosterRecord
	if err := r.db.WithContext(ctx).Where(query, arg).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	lines := make([]*domain.OrderParticipant, 0, len(records))
	for i := range records {
		lines = append(lines, records[i].toDomain())
	}
	return lines, nil
}

func (r *RosterRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres roster repository not configured")
	}
	return nil
}

func (r rosterRecord) toDomain() *domain.OrderParticipant {
	return &domain.OrderParticipant{
		OrderID:       r.OrderID,
		ParticipantID: r.ParticipantID,
		Status:        domain.RSVPStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
