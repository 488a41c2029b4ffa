package models

import (
	"time"

	"github.com/fieldops/backend/internal/domain/record"
	"github.com/google/uuid"
)

// RecordModel provides the persistence fields every record table shares.
// It maps to the domain's record.Base.
type RecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Zone      string    `gorm:"type:varchar(20);index"`
	CreatedBy uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts RecordModel to domain record.Base
func (m *RecordModel) ToDomain() record.Base {
	return record.Base{
		ID:        m.ID,
		Zone:      m.Zone,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates RecordModel from domain record.Base
func (m *RecordModel) FromDomain(b record.Base) {
	m.ID = b.ID
	m.Zone = b.Zone
	m.CreatedBy = b.CreatedBy
	m.CreatedAt = b.CreatedAt.UTC()
}
