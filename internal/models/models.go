package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Goal is a recurring habit a user tracks. Scheduling is configured by
// exactly one of two modes: a set of weekdays, or an every-N-days interval
// anchored at a start date. When both interval fields are set, interval
// scheduling wins.
type Goal struct {
	ID           string
	UserID       string
	Name         string
	IsMeasurable bool
	TargetValue  int
	Unit         string

	ScheduleDays  []int
	IntervalDays  *int
	IntervalStart *Date

	Description *string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Baseline is the first calendar date on which the goal can count as
// scheduled: the day it was created.
func (goal Goal) Baseline() Date {
	return DateOf(goal.CreatedAt)
}

// Completion records that a goal was done on a specific calendar date.
// At most one exists per (goal, date); the storage layer enforces this.
type Completion struct {
	GoalID      string
	CompletedOn Date
	CreatedAt   time.Time
}
