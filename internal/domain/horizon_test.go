package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSlots(t *testing.T) {
	slots := ListSlots()

	require.Len(t, slots, 4)
	for i, s := range slots {
		assert.Equal(t, TimeSlot(i), s.ID)
	}
	assert.Equal(t, "08:00", slots[0].Start)
	assert.Equal(t, "17:00", slots[3].End)

	slots[0].Start = "00:00"
	w, ok := SlotEarlyMorning.Window()
	require.True(t, ok)
	assert.Equal(t, "08:00", w.Start, "catalog must not be mutable through ListSlots")

	_, ok = TimeSlot(4).Window()
	assert.False(t, ok)
}

func TestHorizon_Dates(t *testing.T) {
	h := NewHorizon(14, 90)
	today := time.Date(2026, 1, 30, 18, 45, 0, 0, time.UTC)

	quick := h.Dates(today, HorizonQuick)
	require.Len(t, quick, 14)
	assert.Equal(t, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), quick[0])
	assert.Equal(t, time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), quick[13])

	extended := h.Dates(today, HorizonExtended)
	require.Len(t, extended, 90)
	for _, d := range extended {
		assert.True(t, h.Contains(today, d))
	}
}

func TestHorizon_DatesNClamps(t *testing.T) {
	h := NewHorizon(14, 90)
	today := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Len(t, h.DatesN(today, 0), 1)
	assert.Len(t, h.DatesN(today, -5), 1)
	assert.Len(t, h.DatesN(today, 30), 30)
	assert.Len(t, h.DatesN(today, 1000), 90)
}

func TestHorizon_Contains(t *testing.T) {
	h := NewHorizon(14, 90)
	today := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, h.Contains(today, today))
	assert.True(t, h.Contains(today, today.AddDate(0, 0, 90)))
	assert.False(t, h.Contains(today, today.AddDate(0, 0, 91)))
	assert.False(t, h.Contains(today, today.AddDate(0, 0, -1)))
}

func TestNewHorizon_Normalizes(t *testing.T) {
	h := NewHorizon(0, -3)
	assert.Equal(t, 1, h.QuickDays)
	assert.Equal(t, 1, h.ExtendedDays)
}

func TestParseHorizonMode(t *testing.T) {
	m, err := ParseHorizonMode("")
	require.NoError(t, err)
	assert.Equal(t, HorizonQuick, m)

	m, err = ParseHorizonMode("EXTENDED")
	require.NoError(t, err)
	assert.Equal(t, HorizonExtended, m)

	_, err = ParseHorizonMode("forever")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-04-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-09", DateKey(d))

	_, err = ParseDate("09.04.2026")
	require.ErrorIs(t, err, ErrValidation)
}
