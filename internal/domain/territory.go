package domain

import (
	"time"

	"github.com/google/uuid"
)

// Territory - охраняемая территория (поселок, парковка, промзона)
type Territory struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных территории
func (t *Territory) Validate() error {
	if t.Name == "" {
		return ErrInvalidTerritoryData
	}
	return nil
}

// Checkpoint - КПП, принадлежит ровно одной территории
// Проезд действителен только если территория КПП совпадает с территорией пропуска
type Checkpoint struct {
	ID          uuid.UUID `json:"id"`
	TerritoryID uuid.UUID `json:"territory_id"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных КПП
func (c *Checkpoint) Validate() error {
	if c.TerritoryID == uuid.Nil || c.Name == "" {
		return ErrInvalidCheckpointData
	}
	return nil
}
