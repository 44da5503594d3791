package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction представляет направление проезда через КПП
type Direction string

const (
	DirectionIn  Direction = "IN"  // Въезд на территорию
	DirectionOut Direction = "OUT" // Выезд с территории
)

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// IsValid проверяет, что направление одно из двух допустимых
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Crossing - факт проезда/прохода через КПП по пропуску
// Записи неизменяемы: это append-only журнал событий.
// ID - серийный номер, порядок вставки определяет порядок проездов.
type Crossing struct {
	ID           int64     `json:"id"`
	PassID       uuid.UUID `json:"pass_id"`
	CheckpointID uuid.UUID `json:"checkpoint_id"`
	Direction    Direction `json:"direction"`
	Timestamp    time.Time `json:"timestamp"` // Момент физического проезда (часы КПП)
	CreatedAt    time.Time `json:"created_at"`
}

// Validate проверяет корректность данных проезда
func (c *Crossing) Validate() error {
	if c.PassID == uuid.Nil || c.CheckpointID == uuid.Nil {
		return ErrInvalidCrossingData
	}
	if !c.Direction.IsValid() {
		return ErrInvalidDirection
	}
	return nil
}
