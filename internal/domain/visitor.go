package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visitor - пеший посетитель, субъект пропуска
type Visitor struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных посетителя
func (v *Visitor) Validate() error {
	if v.FullName == "" {
		return ErrInvalidVisitorData
	}
	return nil
}
