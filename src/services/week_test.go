package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		name      string
		input     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"wednesday mid-week",
			time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC),
		},
		{
			"monday maps to itself",
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC),
		},
		{
			"week spanning a year boundary",
			time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 5, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekBounds(tc.input)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestWeekBoundsAdjacentWeeksDoNotOverlap(t *testing.T) {
	_, end := WeekBounds(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	nextStart, _ := WeekBounds(end.Add(time.Second))
	assert.Equal(t, end.Add(time.Second), nextStart)
}

func TestWeekDay(t *testing.T) {
	got := WeekDay(time.Date(2025, 6, 4, 18, 45, 12, 999, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), got)
}
