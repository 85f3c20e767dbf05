package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the orders bounded context. Tables are created in
// dependency order so the roster foreign keys resolve.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&serviceProviderRecord{},
		&orderRecord{},
		&participantRecord{},
		&orderParticipantRecord{},
		&groupRecord{},
		&wasteFactorRecord{},
	)
}

type serviceProviderRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	Name          string    `gorm:"column:name"`
	CostPerPerson float64   `gorm:"column:cost_per_person;check:chk_service_providers_cost,cost_per_person >= 0"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (serviceProviderRecord) TableName() string { return "service_providers" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	Name              string    `gorm:"column:name"`
	Location          string    `gorm:"column:location"`
	MenuDescription   string    `gorm:"column:menu_description"`
	ScheduledAt       time.Time `gorm:"column:dt_scheduled;index"`
	Status            string    `gorm:"column:status;type:varchar(32);index"`
	ServiceProviderID *int64    `gorm:"column:service_provider_id"`
	CreatedAt         time.Time `gorm:"column:created_at;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type participantRecord struct {
	ID                  int64     `gorm:"primaryKey;column:id"`
	Email               string    `gorm:"column:email;uniqueIndex"`
	DietaryRequirements string    `gorm:"column:dietary_requirements"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (participantRecord) TableName() string { return "participants" }

// Roster lines cascade with their order and participant.
type orderParticipantRecord struct {
	ID            int64              `gorm:"primaryKey;column:id"`
	OrderID       int64              `gorm:"column:order_id;uniqueIndex:idx_order_participants_pair"`
	ParticipantID int64              `gorm:"column:participant_id;uniqueIndex:idx_order_participants_pair;index"`
	Status        int                `gorm:"column:status;default:0"`
	CreatedAt     time.Time          `gorm:"column:created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at"`
	Order         *orderRecord       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Participant   *participantRecord `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
}

func (orderParticipantRecord) TableName() string { return "order_participants" }

type groupRecord struct {
	ID        int64         `gorm:"primaryKey;column:id"`
	Name      string        `gorm:"column:name"`
	MemberIDs pq.Int64Array `gorm:"column:member_ids;type:bigint[]"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

func (groupRecord) TableName() string { return "participant_groups" }

// Waste factors are written by the analytics job; the API only reads them.
type wasteFactorRecord struct {
	OrderID   int64     `gorm:"primaryKey;column:order_id;autoIncrement:false"`
	Factor    float64   `gorm:"column:factor"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (wasteFactorRecord) TableName() string { return "order_waste_factors" }
