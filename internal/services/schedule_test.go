package services

import (
	"testing"
	"time"

	"github.com/Pineacles/habit-pulse/internal/models"
)

func intPtr(v int) *int                  { return &v }
func datePtr(d models.Date) *models.Date { return &d }

func TestIsDue_WeekdayMode(t *testing.T) {
	goal := models.Goal{ScheduleDays: []int{1, 3, 5}} // Mon, Wed, Fri

	tests := []struct {
		name string
		date models.Date
		want bool
	}{
		{"monday", models.NewDate(2025, time.January, 6), true},
		{"tuesday", models.NewDate(2025, time.January, 7), false},
		{"wednesday", models.NewDate(2025, time.January, 8), true},
		{"friday", models.NewDate(2025, time.January, 10), true},
		{"saturday", models.NewDate(2025, time.January, 11), false},
		{"sunday", models.NewDate(2025, time.January, 12), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsDue(goal, test.date); got != test.want {
				t.Errorf("IsDue(%s) = %v, want %v", test.date, got, test.want)
			}
		})
	}
}

func TestIsDue_WeekdayMode_EmptyDays(t *testing.T) {
	goal := models.Goal{ScheduleDays: []int{}}
	if IsDue(goal, models.NewDate(2025, time.January, 6)) {
		t.Error("goal with no schedule days should never be due")
	}
}

func TestIsDue_IntervalMode(t *testing.T) {
	// Every 2 days starting Monday 2025-01-13.
	goal := models.Goal{
		ScheduleDays:  []int{},
		IntervalDays:  intPtr(2),
		IntervalStart: datePtr(models.NewDate(2025, time.January, 13)),
	}

	tests := []struct {
		name string
		date models.Date
		want bool
	}{
		{"start date", models.NewDate(2025, time.January, 13), true},
		{"day after", models.NewDate(2025, time.January, 14), false},
		{"two days in", models.NewDate(2025, time.January, 15), true},
		{"three days in", models.NewDate(2025, time.January, 16), false},
		{"four days in", models.NewDate(2025, time.January, 17), true},
		{"day before start", models.NewDate(2025, time.January, 12), false},
		{"week before start", models.NewDate(2025, time.January, 6), false},
		{"far future multiple", models.NewDate(2025, time.March, 14), true}, // 60 days after start
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsDue(goal, test.date); got != test.want {
				t.Errorf("IsDue(%s) = %v, want %v", test.date, got, test.want)
			}
		})
	}
}

func TestIsDue_IntervalWinsOverWeekdays(t *testing.T) {
	// Weekday config says every day; the interval must be the only rule
	// that matters.
	goal := models.Goal{
		ScheduleDays:  []int{0, 1, 2, 3, 4, 5, 6},
		IntervalDays:  intPtr(3),
		IntervalStart: datePtr(models.NewDate(2025, time.February, 1)),
	}

	if !IsDue(goal, models.NewDate(2025, time.February, 1)) {
		t.Error("expected due on interval start")
	}
	if IsDue(goal, models.NewDate(2025, time.February, 2)) {
		t.Error("weekday schedule must be ignored when interval config is set")
	}
	if !IsDue(goal, models.NewDate(2025, time.February, 4)) {
		t.Error("expected due one interval after start")
	}
}

func TestIsDue_PartialIntervalConfigFallsBackToWeekdays(t *testing.T) {
	// Interval days without a start date is not a complete interval
	// config; weekday scheduling applies.
	goal := models.Goal{
		ScheduleDays: []int{6}, // Saturday
		IntervalDays: intPtr(2),
	}

	if !IsDue(goal, models.NewDate(2025, time.January, 11)) {
		t.Error("expected weekday schedule to apply on Saturday")
	}
	if IsDue(goal, models.NewDate(2025, time.January, 13)) {
		t.Error("expected weekday schedule to apply, Monday is not scheduled")
	}
}

func TestIsDue_NonPositiveIntervalNeverDue(t *testing.T) {
	goal := models.Goal{
		IntervalDays:  intPtr(0),
		IntervalStart: datePtr(models.NewDate(2025, time.January, 13)),
	}
	if IsDue(goal, models.NewDate(2025, time.January, 13)) {
		t.Error("non-positive interval must never be due")
	}
}

func TestIsDue_DailyInterval(t *testing.T) {
	goal := models.Goal{
		IntervalDays:  intPtr(1),
		IntervalStart: datePtr(models.NewDate(2025, time.January, 1)),
	}
	for offset := 0; offset < 10; offset++ {
		date := models.NewDate(2025, time.January, 1).AddDays(offset)
		if !IsDue(goal, date) {
			t.Errorf("every-day interval should be due on %s", date)
		}
	}
}
