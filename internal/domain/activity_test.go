package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeSlots(t *testing.T) {
	today := time.Date(2024, 11, 20, 9, 30, 0, 0, time.UTC)
	a := &Activity{ID: 4, Capacity: 12}
	templates := []ActivityTimeslotInfo{
		NewTimeslotInfo(Weekly{Day: time.Wednesday}, "10:00", "11:00"),
		NewTimeslotInfo(OneOff{Date: day("2024-12-24")}, "18:00", "20:00"),
		NewTimeslotInfo(OneOff{Date: day("2024-11-01")}, "18:00", "20:00"),
	}

	slots, err := MaterializeSlots(a, templates, today)
	require.NoError(t, err)

	require.Len(t, slots, 27)
	assert.Equal(t, day("2024-11-20"), slots[0].Date)
	assert.Equal(t, day("2025-05-14"), slots[25].Date)
	for _, s := range slots[:26] {
		assert.Equal(t, time.Wednesday, s.Date.Weekday())
		assert.Equal(t, "10:00", s.StartTime)
	}
	last := slots[26]
	assert.Equal(t, day("2024-12-24"), last.Date)
	assert.Equal(t, int64(4), last.ActivityID)
	assert.Equal(t, 12, last.Capacity)
	assert.Zero(t, last.Occupied)
}

func TestMaterializeSlots_DailyAndInvalid(t *testing.T) {
	today := day("2024-11-20")
	slots, err := MaterializeSlots(&Activity{Capacity: 1}, []ActivityTimeslotInfo{NewTimeslotInfo(Daily{}, "07:00", "08:00")}, today)
	require.NoError(t, err)
	assert.Len(t, slots, 182)

	_, err = MaterializeSlots(&Activity{}, []ActivityTimeslotInfo{{Kind: RecurrenceWeekly}}, today)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

func TestActivitySlot_StartsAtAndFree(t *testing.T) {
	s := ActivitySlot{Date: day("2024-11-20"), StartTime: "11:15", Capacity: 10, Occupied: 7}

	at, err := s.StartsAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 20, 11, 15, 0, 0, time.UTC), at)
	assert.Equal(t, 3, s.Free())

	s.StartTime = "11h"
	_, err = s.StartsAt(time.UTC)
	assert.Error(t, err)
}
