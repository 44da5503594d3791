package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Territory / Checkpoint errors
var (
	ErrTerritoryNotFound     = errors.New("territory not found")
	ErrInvalidTerritoryData  = errors.New("invalid territory data")
	ErrCheckpointNotFound    = errors.New("checkpoint not found")
	ErrCheckpointInactive    = errors.New("checkpoint is inactive")
	ErrInvalidCheckpointData = errors.New("invalid checkpoint data")
	ErrTerritoryMismatch     = errors.New("checkpoint territory does not match pass territory")
)

// Vehicle / Visitor errors
var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrInvalidLicensePlate = errors.New("invalid license plate")
	ErrInvalidVehicleData  = errors.New("invalid vehicle data")
	ErrVisitorNotFound     = errors.New("visitor not found")
	ErrInvalidVisitorData  = errors.New("invalid visitor data")
)

// Pass errors
var (
	ErrPassNotFound     = errors.New("pass not found")
	ErrInvalidPassData  = errors.New("invalid pass data")
	ErrInvalidPassType  = errors.New("invalid pass time type")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrPassNotOpen      = errors.New("pass is not active or delayed")
	ErrPassNotCancelled = errors.New("pass is not cancelled")
	ErrPassNotWarning   = errors.New("pass is not in warning status")
	ErrPassExpired      = errors.New("pass expired")
	ErrPassInactive     = errors.New("pass is inactive")
	ErrPassOverlap      = errors.New("pass overlaps an existing pass")
)

// Crossing errors
var (
	ErrInvalidCrossingData = errors.New("invalid crossing data")
	ErrInvalidDirection    = errors.New("invalid direction")
	ErrWrongDirection      = errors.New("crossing direction is not allowed for the pass")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal = errors.New("internal server error")
	// ErrCritical - нарушение внутреннего контракта: ошибка в вызывающем коде,
	// а не в данных пользователя (например, пропуск без субъекта)
	ErrCritical = errors.New("critical server error")
)

// PassOverlapError - конфликт временных окон двух пропусков.
// Несет оба идентификатора для диагностики, разворачивается в ErrPassOverlap.
type PassOverlapError struct {
	CandidateID uuid.UUID
	ExistingID  uuid.UUID
}

func (e *PassOverlapError) Error() string {
	return fmt.Sprintf("pass %s overlaps existing pass %s", e.CandidateID, e.ExistingID)
}

func (e *PassOverlapError) Unwrap() error {
	return ErrPassOverlap
}
