package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds identity and audit timestamps shared by persisted records
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a base entity with a generated ID stamped now
func NewBaseEntity() BaseEntity {
	return NewBaseEntityAt(time.Now())
}

// NewBaseEntityAt creates a base entity stamped at t
func NewBaseEntityAt(t time.Time) BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: t,
		UpdatedAt: t,
	}
}

// Touch advances UpdatedAt
func (e *BaseEntity) Touch(t time.Time) {
	e.UpdatedAt = t
}
