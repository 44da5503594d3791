package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleBrand - марка автомобиля
// "Мягкий" справочник: ищется по имени без учета регистра и создается на лету
type VehicleBrand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate проверяет корректность данных марки
func (b *VehicleBrand) Validate() error {
	if b.Name == "" {
		return ErrInvalidVehicleData
	}
	return nil
}

// Vehicle - автомобиль, субъект пропуска
type Vehicle struct {
	ID           uuid.UUID  `json:"id"`
	LicensePlate string     `json:"license_plate"`
	BrandID      *uuid.UUID `json:"brand_id,omitempty"`
	Model        string     `json:"model,omitempty"`
	Color        string     `json:"color,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Brand *VehicleBrand `json:"brand,omitempty"`
}

// Validate проверяет корректность данных автомобиля
func (v *Vehicle) Validate() error {
	if v.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}
	return nil
}
