package services

import "github.com/Pineacles/habit-pulse/internal/models"

// ScheduleRule decides whether a goal recurs on a given calendar date. It
// knows nothing about a goal's active flag or creation baseline; callers
// apply those filters.
type ScheduleRule interface {
	DueOn(day models.Date) bool
}

// WeekdayRule recurs on a fixed set of weekdays, 0=Sunday..6=Saturday.
type WeekdayRule struct {
	Days []int
}

func (rule WeekdayRule) DueOn(day models.Date) bool {
	weekday := day.Weekday()
	for _, scheduled := range rule.Days {
		if scheduled == weekday {
			return true
		}
	}
	return false
}

// IntervalRule recurs every Every days starting from Start. Dates before
// Start are never due.
type IntervalRule struct {
	Every int
	Start models.Date
}

func (rule IntervalRule) DueOn(day models.Date) bool {
	if rule.Every < 1 {
		return false
	}
	sinceStart := day.DaysSince(rule.Start)
	return sinceStart >= 0 && sinceStart%rule.Every == 0
}

// RuleFor resolves a goal's stored scheduling fields into a single rule.
// Interval scheduling takes precedence whenever both intervalDays and
// intervalStartDate are set, no matter what scheduleDays holds.
func RuleFor(goal models.Goal) ScheduleRule {
	if goal.IntervalDays != nil && goal.IntervalStart != nil {
		return IntervalRule{Every: *goal.IntervalDays, Start: *goal.IntervalStart}
	}
	return WeekdayRule{Days: goal.ScheduleDays}
}

// IsDue reports whether the goal recurs on the given date.
func IsDue(goal models.Goal, day models.Date) bool {
	return RuleFor(goal).DueOn(day)
}
