package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInitialPassStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, PassStatusActive, InitialPassStatus(now.Add(-time.Minute), now))
	assert.Equal(t, PassStatusActive, InitialPassStatus(now, now))
	assert.Equal(t, PassStatusDelayed, InitialPassStatus(now.Add(time.Minute), now))
}

func TestClosedPassStatus(t *testing.T) {
	// Ожидается въезд - объект снаружи, пропуск использован полностью
	assert.Equal(t, PassStatusCompleted, ClosedPassStatus(DirectionIn))
	// Ожидается выезд - объект остался внутри
	assert.Equal(t, PassStatusWarning, ClosedPassStatus(DirectionOut))
}

func TestPass_OverlapsWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	window := func(start, end time.Duration) *Pass {
		return &Pass{StartTime: base.Add(start), EndTime: base.Add(end)}
	}

	tests := []struct {
		name string
		a, b *Pass
		want bool
	}{
		{"частичное пересечение", window(0, 2*time.Hour), window(time.Hour, 3*time.Hour), true},
		{"вложенное окно", window(0, 4*time.Hour), window(time.Hour, 2*time.Hour), true},
		{"совпадающие окна", window(0, time.Hour), window(0, time.Hour), true},
		{"встык без пересечения", window(0, time.Hour), window(time.Hour, 2*time.Hour), false},
		{"раздельные окна", window(0, time.Hour), window(2*time.Hour, 3*time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.OverlapsWindow(tt.b))
			assert.Equal(t, tt.want, tt.b.OverlapsWindow(tt.a))
		})
	}
}

func TestPass_Validate(t *testing.T) {
	vehicleID := uuid.New()
	visitorID := uuid.New()
	now := time.Now()

	valid := func() *Pass {
		return &Pass{
			UserID:      uuid.New(),
			TerritoryID: uuid.New(),
			StartTime:   now,
			EndTime:     now.Add(time.Hour),
			TimeType:    PassTimeTypeOneTime,
			VehicleID:   &vehicleID,
		}
	}

	t.Run("валидный пропуск", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("оба субъекта сразу", func(t *testing.T) {
		p := valid()
		p.VisitorID = &visitorID
		assert.ErrorIs(t, p.Validate(), ErrInvalidPassData)
	})

	t.Run("без субъекта", func(t *testing.T) {
		p := valid()
		p.VehicleID = nil
		assert.ErrorIs(t, p.Validate(), ErrInvalidPassData)
	})

	t.Run("вырожденное окно", func(t *testing.T) {
		p := valid()
		p.EndTime = p.StartTime
		assert.ErrorIs(t, p.Validate(), ErrInvalidDateRange)
	})

	t.Run("неизвестный тип", func(t *testing.T) {
		p := valid()
		p.TimeType = "seasonal"
		assert.ErrorIs(t, p.Validate(), ErrInvalidPassType)
	})
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, DirectionOut, DirectionIn.Opposite())
	assert.Equal(t, DirectionIn, DirectionOut.Opposite())
}
