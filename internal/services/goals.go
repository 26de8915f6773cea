package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/Pineacles/habit-pulse/internal/repository"
)

// everyDay is the default weekday schedule for goals created without one.
var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

type GoalService struct {
	goalRepo       repository.GoalRepository
	completionRepo repository.CompletionRepository

	// Now supplies the current time; tests swap it out so "today" is
	// deterministic. Core operations derive the calendar date from it in
	// UTC.
	Now func() time.Time
}

func NewGoalService(goalRepo repository.GoalRepository, completionRepo repository.CompletionRepository) *GoalService {
	return &GoalService{
		goalRepo:       goalRepo,
		completionRepo: completionRepo,
		Now:            time.Now,
	}
}

// Today is the current UTC calendar date.
func (service *GoalService) Today() models.Date {
	return models.DateOf(service.Now())
}

// GoalStatus is a goal annotated with its completion state for today.
type GoalStatus struct {
	models.Goal
	IsCompletedToday bool
}

// CalendarDay summarizes one calendar date: how many goals were scheduled
// and how many of those were completed.
type CalendarDay struct {
	Date           models.Date
	TotalScheduled int
	Completed      int
}

// DayDetails partitions the goals scheduled on a date into done and not
// done. The counts are derived from the partitions, so TotalScheduled ==
// len(Done)+len(NotDone) and Completed == len(Done) hold by construction.
type DayDetails struct {
	Date           models.Date
	TotalScheduled int
	Completed      int
	Done           []models.Goal
	NotDone        []models.Goal
}

// Occurrence is a single date on which a goal is due.
type Occurrence struct {
	Goal models.Goal
	Date models.Date
}

// ListGoals returns the user's goals ordered by (sortOrder, createdAt),
// each annotated with today's completion state. With todayOnly, only active
// goals due today are returned; the creation baseline is deliberately not
// applied here, matching the calendar views only for historical dates.
func (service *GoalService) ListGoals(ctx context.Context, userID string, todayOnly bool) ([]GoalStatus, error) {
	goals, err := service.goalRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	today := service.Today()
	completedToday, err := service.completionRepo.FindGoalIDsOnDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("loading today's completions: %w", err)
	}

	statuses := make([]GoalStatus, 0, len(goals))
	for _, goal := range goals {
		if todayOnly && (!goal.IsActive || !IsDue(goal, today)) {
			continue
		}
		statuses = append(statuses, GoalStatus{
			Goal:             goal,
			IsCompletedToday: completedToday[goal.ID],
		})
	}
	return statuses, nil
}

func (service *GoalService) GetGoal(ctx context.Context, userID, goalID string) (models.Goal, error) {
	return service.goalRepo.FindByID(ctx, userID, goalID)
}

// CreateGoal stores a new goal at the end of the user's ordering. A nil
// weekday schedule defaults to all seven days; an explicit empty set is
// kept as given and simply never recurs.
func (service *GoalService) CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	if goal.ScheduleDays == nil {
		goal.ScheduleDays = everyDay
	}
	goal.IsActive = true

	maxOrder, err := service.goalRepo.MaxSortOrder(ctx, goal.UserID)
	if err != nil {
		return models.Goal{}, fmt.Errorf("assigning sort order: %w", err)
	}
	goal.SortOrder = maxOrder + 1

	return service.goalRepo.Create(ctx, goal)
}

// GoalPatch carries a partial goal update. Nil pointer fields are left
// unchanged; Optional fields additionally distinguish an explicit null,
// which clears the underlying nullable field.
type GoalPatch struct {
	Name          *string
	IsMeasurable  *bool
	TargetValue   *int
	Unit          *string
	ScheduleDays  []int
	IntervalDays  models.Optional[int]
	IntervalStart models.Optional[models.Date]
	Description   models.Optional[string]
	SortOrder     *int
	IsActive      *bool
}

func (service *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, patch GoalPatch) (models.Goal, error) {
	goal, err := service.goalRepo.FindByID(ctx, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}

	if patch.Name != nil {
		goal.Name = *patch.Name
	}
	if patch.IsMeasurable != nil {
		goal.IsMeasurable = *patch.IsMeasurable
	}
	if patch.TargetValue != nil {
		goal.TargetValue = *patch.TargetValue
	}
	if patch.Unit != nil {
		goal.Unit = *patch.Unit
	}
	if patch.ScheduleDays != nil {
		goal.ScheduleDays = patch.ScheduleDays
	}
	if patch.IntervalDays.Set {
		goal.IntervalDays = nil
		if patch.IntervalDays.Valid {
			value := patch.IntervalDays.Value
			goal.IntervalDays = &value
		}
	}
	if patch.IntervalStart.Set {
		goal.IntervalStart = nil
		if patch.IntervalStart.Valid {
			value := patch.IntervalStart.Value
			goal.IntervalStart = &value
		}
	}
	if patch.Description.Set {
		goal.Description = nil
		if patch.Description.Valid {
			value := patch.Description.Value
			goal.Description = &value
		}
	}
	if patch.SortOrder != nil {
		goal.SortOrder = *patch.SortOrder
	}
	if patch.IsActive != nil {
		goal.IsActive = *patch.IsActive
	}

	if err := service.goalRepo.Update(ctx, goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

func (service *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return service.goalRepo.Delete(ctx, userID, goalID)
}

// ToggleCompletion flips the goal's completion state for today and reports
// the new state. Whether the goal is due today is irrelevant: the schedule
// governs visibility, not eligibility to toggle.
func (service *GoalService) ToggleCompletion(ctx context.Context, userID, goalID string) (bool, error) {
	if _, err := service.goalRepo.FindByID(ctx, userID, goalID); err != nil {
		return false, err
	}

	today := service.Today()

	exists, err := service.completionRepo.Exists(ctx, goalID, today)
	if err != nil {
		return false, err
	}
	if exists {
		if err := service.completionRepo.Delete(ctx, goalID, today); err != nil {
			return false, err
		}
		return false, nil
	}

	err = service.completionRepo.Insert(ctx, goalID, today)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost an insert race against a concurrent toggle; the completion
		// is present, which is the state this call was establishing.
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CalendarData aggregates scheduled/completed counts for every date in
// [start, end]. Goals and completions are each loaded once; completions are
// indexed by date. A goal is skipped on dates before its creation baseline
// so that creating a goal never rewrites history as "missed".
func (service *GoalService) CalendarData(ctx context.Context, userID string, start, end models.Date) ([]CalendarDay, error) {
	goals, err := service.goalRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	completions, err := service.completionRepo.FindByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	completedByDate := make(map[string]map[string]bool)
	for _, completion := range completions {
		key := completion.CompletedOn.String()
		if completedByDate[key] == nil {
			completedByDate[key] = make(map[string]bool)
		}
		completedByDate[key][completion.GoalID] = true
	}

	days := make([]CalendarDay, 0, end.DaysSince(start)+1)
	for date := start; !date.After(end); date = date.AddDays(1) {
		entry := CalendarDay{Date: date}
		completedGoals := completedByDate[date.String()]

		for _, goal := range goals {
			if date.Before(goal.Baseline()) {
				continue
			}
			if !IsDue(goal, date) {
				continue
			}
			entry.TotalScheduled++
			if completedGoals[goal.ID] {
				entry.Completed++
			}
		}
		days = append(days, entry)
	}
	return days, nil
}

// DayDetails resolves a single date into done and not-done goal lists,
// applying the same baseline and due filters as CalendarData and keeping
// the (sortOrder, createdAt) ordering within each list.
func (service *GoalService) DayDetails(ctx context.Context, userID string, date models.Date) (DayDetails, error) {
	goals, err := service.goalRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return DayDetails{}, fmt.Errorf("loading goals: %w", err)
	}
	completedGoals, err := service.completionRepo.FindGoalIDsOnDate(ctx, userID, date)
	if err != nil {
		return DayDetails{}, fmt.Errorf("loading completions: %w", err)
	}

	details := DayDetails{
		Date:    date,
		Done:    []models.Goal{},
		NotDone: []models.Goal{},
	}
	for _, goal := range goals {
		if date.Before(goal.Baseline()) {
			continue
		}
		if !IsDue(goal, date) {
			continue
		}
		if completedGoals[goal.ID] {
			details.Done = append(details.Done, goal)
		} else {
			details.NotDone = append(details.NotDone, goal)
		}
	}
	details.TotalScheduled = len(details.Done) + len(details.NotDone)
	details.Completed = len(details.Done)
	return details, nil
}

// Reorder assigns sortOrder by position for the listed goal IDs. IDs not
// owned by the user are silently ignored.
func (service *GoalService) Reorder(ctx context.Context, userID string, goalIDs []string) error {
	return service.goalRepo.UpdateSortOrders(ctx, userID, goalIDs)
}

// DueOccurrences projects the user's active goals over [from, from+days),
// returning each date a goal is due, in ascending date order. Used by the
// calendar export feed.
func (service *GoalService) DueOccurrences(ctx context.Context, userID string, from models.Date, days int) ([]Occurrence, error) {
	goals, err := service.goalRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	var occurrences []Occurrence
	for offset := 0; offset < days; offset++ {
		date := from.AddDays(offset)
		for _, goal := range goals {
			if date.Before(goal.Baseline()) {
				continue
			}
			if !IsDue(goal, date) {
				continue
			}
			occurrences = append(occurrences, Occurrence{Goal: goal, Date: date})
		}
	}
	return occurrences, nil
}
