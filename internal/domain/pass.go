package domain

import (
	"time"

	"github.com/google/uuid"
)

// PassTimeType представляет тип действия пропуска
type PassTimeType string

const (
	PassTimeTypeOneTime   PassTimeType = "onetime"   // Разовый пропуск
	PassTimeTypePermanent PassTimeType = "permanent" // Постоянный (многоразовый) пропуск
)

// PassStatus представляет статус пропуска в жизненном цикле
type PassStatus string

const (
	PassStatusDelayed   PassStatus = "delayed"   // Еще не вступил в силу
	PassStatusActive    PassStatus = "active"    // Действует
	PassStatusCancelled PassStatus = "cancelled" // Отменен вручную до использования
	PassStatusCompleted PassStatus = "completed" // Использован, объект покинул территорию
	PassStatusWarning   PassStatus = "warning"   // Истек, но объект не покинул территорию
	PassStatusOutdated  PassStatus = "outdated"  // Истек без единого проезда
)

// PassSubject - тип субъекта пропуска
type PassSubject string

const (
	PassSubjectVehicle PassSubject = "vehicle" // Пропуск на автомобиль
	PassSubjectVisitor PassSubject = "visitor" // Пропуск на посетителя
)

// Pass - пропуск на территорию
// Пропуск выдается ПОЛЬЗОВАТЕЛЮ на ровно один субъект: автомобиль ИЛИ посетителя.
// Статус меняется тремя независимыми путями: вручную (отмена/активация),
// проездом через КПП (ExpectedDirection) и фоновой сверкой по времени.
type Pass struct {
	ID                uuid.UUID    `json:"id"`
	UserID            uuid.UUID    `json:"user_id"`      // Пользователь, которому выдан пропуск
	TerritoryID       uuid.UUID    `json:"territory_id"` // Территория, на которую выдан пропуск
	StartTime         time.Time    `json:"start_time"`
	EndTime           time.Time    `json:"end_time"`
	TimeType          PassTimeType `json:"time_type"`
	Status            PassStatus   `json:"status"`
	ExpectedDirection Direction    `json:"expected_direction"` // Какое направление проезда допустимо следующим
	Favorite          bool         `json:"favorite"`
	Comment           string       `json:"comment,omitempty"`
	VehicleID         *uuid.UUID   `json:"vehicle_id,omitempty"` // Заполнено ровно одно из двух
	VisitorID         *uuid.UUID   `json:"visitor_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	Visitor *Visitor `json:"visitor,omitempty"`
}

// SubjectType возвращает тип субъекта пропуска
func (p *Pass) SubjectType() PassSubject {
	if p.VehicleID != nil {
		return PassSubjectVehicle
	}
	return PassSubjectVisitor
}

// IsOpen проверяет, находится ли пропуск в "открытом" статусе
// (delayed и active участвуют в проверке пересечений и допускают ручную отмену)
func (p *Pass) IsOpen() bool {
	return p.Status == PassStatusActive || p.Status == PassStatusDelayed
}

// OverlapsWindow проверяет пересечение временных окон двух пропусков.
// Окна трактуются как полуинтервалы [start, end): пропуска, у которых
// конец одного совпадает с началом другого, не конфликтуют.
func (p *Pass) OverlapsWindow(other *Pass) bool {
	return p.StartTime.Before(other.EndTime) && other.StartTime.Before(p.EndTime)
}

// InitialPassStatus возвращает статус нового пропуска относительно момента now:
// active, если действие уже началось, иначе delayed
func InitialPassStatus(startTime, now time.Time) PassStatus {
	if startTime.After(now) {
		return PassStatusDelayed
	}
	return PassStatusActive
}

// ClosedPassStatus возвращает статус, с которым закрывается пропуск,
// имеющий хотя бы один проезд: completed, если объект покинул территорию
// (следующим ожидался въезд), warning - если остался внутри
func ClosedPassStatus(expected Direction) PassStatus {
	if expected == DirectionIn {
		return PassStatusCompleted
	}
	return PassStatusWarning
}

// Validate проверяет корректность данных пропуска
func (p *Pass) Validate() error {
	if p.UserID == uuid.Nil || p.TerritoryID == uuid.Nil {
		return ErrInvalidPassData
	}

	if p.TimeType != PassTimeTypeOneTime && p.TimeType != PassTimeTypePermanent {
		return ErrInvalidPassType
	}

	if p.StartTime.IsZero() || p.EndTime.IsZero() || !p.StartTime.Before(p.EndTime) {
		return ErrInvalidDateRange
	}

	// Субъект пропуска: ровно одно из двух
	if (p.VehicleID == nil) == (p.VisitorID == nil) {
		return ErrInvalidPassData
	}

	return nil
}
