package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pineacles/habit-pulse/internal/middleware"
	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/Pineacles/habit-pulse/internal/repository"
	"github.com/Pineacles/habit-pulse/internal/services"
	"github.com/go-chi/chi/v5"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type createGoalRequest struct {
	Name              string       `json:"name" validate:"required"`
	IsMeasurable      bool         `json:"isMeasurable"`
	TargetValue       int          `json:"targetValue" validate:"gte=0"`
	Unit              string       `json:"unit"`
	ScheduleDays      []int        `json:"scheduleDays" validate:"omitempty,dive,gte=0,lte=6"`
	IntervalDays      *int         `json:"intervalDays" validate:"omitempty,gte=1"`
	IntervalStartDate *models.Date `json:"intervalStartDate"`
	Description       *string      `json:"description"`
}

type updateGoalRequest struct {
	Name              *string                      `json:"name"`
	IsMeasurable      *bool                        `json:"isMeasurable"`
	TargetValue       *int                         `json:"targetValue"`
	Unit              *string                      `json:"unit"`
	ScheduleDays      []int                        `json:"scheduleDays" validate:"omitempty,dive,gte=0,lte=6"`
	IntervalDays      models.Optional[int]         `json:"intervalDays"`
	IntervalStartDate models.Optional[models.Date] `json:"intervalStartDate"`
	Description       models.Optional[string]      `json:"description"`
	SortOrder         *int                         `json:"sortOrder"`
	IsActive          *bool                        `json:"isActive"`
}

type reorderRequest struct {
	GoalIDs []string `json:"goalIds" validate:"required,min=1"`
}

type goalResponse struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	IsMeasurable      bool         `json:"isMeasurable"`
	TargetValue       int          `json:"targetValue"`
	Unit              string       `json:"unit"`
	TargetMinutes     int          `json:"targetMinutes"`
	ScheduleDays      []int        `json:"scheduleDays"`
	IntervalDays      *int         `json:"intervalDays"`
	IntervalStartDate *models.Date `json:"intervalStartDate"`
	Description       *string      `json:"description"`
	SortOrder         int          `json:"sortOrder"`
	IsActive          bool         `json:"isActive"`
	CreatedAt         time.Time    `json:"createdAt"`
}

type goalStatusResponse struct {
	goalResponse
	IsCompletedToday bool `json:"isCompletedToday"`
}

func toGoalResponse(goal models.Goal) goalResponse {
	// targetMinutes mirrors targetValue for minute-based goals; older
	// clients still read it.
	targetMinutes := 0
	if goal.Unit == "minutes" {
		targetMinutes = goal.TargetValue
	}
	return goalResponse{
		ID:                goal.ID,
		Name:              goal.Name,
		IsMeasurable:      goal.IsMeasurable,
		TargetValue:       goal.TargetValue,
		Unit:              goal.Unit,
		TargetMinutes:     targetMinutes,
		ScheduleDays:      goal.ScheduleDays,
		IntervalDays:      goal.IntervalDays,
		IntervalStartDate: goal.IntervalStart,
		Description:       goal.Description,
		SortOrder:         goal.SortOrder,
		IsActive:          goal.IsActive,
		CreatedAt:         goal.CreatedAt,
	}
}

func (handler *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	todayOnly := true
	if value := r.URL.Query().Get("todayOnly"); value != "" {
		todayOnly = value == "true"
	}

	statuses, err := handler.goalService.ListGoals(r.Context(), user.ID, todayOnly)
	if err != nil {
		slog.Error("listing goals", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load goals")
		return
	}

	responses := make([]goalStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		responses = append(responses, goalStatusResponse{
			goalResponse:     toGoalResponse(status.Goal),
			IsCompletedToday: status.IsCompletedToday,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func (handler *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	goal, err := handler.goalService.GetGoal(r.Context(), user.ID, chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("getting goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load goal")
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (handler *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var request createGoalRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if request.IsMeasurable && request.TargetValue <= 0 {
		writeError(w, http.StatusBadRequest, "Target value must be greater than 0 for measurable goals")
		return
	}

	goal, err := handler.goalService.CreateGoal(r.Context(), models.Goal{
		UserID:        user.ID,
		Name:          request.Name,
		IsMeasurable:  request.IsMeasurable,
		TargetValue:   request.TargetValue,
		Unit:          request.Unit,
		ScheduleDays:  request.ScheduleDays,
		IntervalDays:  request.IntervalDays,
		IntervalStart: request.IntervalStartDate,
		Description:   request.Description,
	})
	if err != nil {
		slog.Error("creating goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (handler *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var request updateGoalRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if request.Name != nil && *request.Name == "" {
		writeError(w, http.StatusBadRequest, "Name must not be empty")
		return
	}
	if request.IntervalDays.Set && request.IntervalDays.Valid && request.IntervalDays.Value < 1 {
		writeError(w, http.StatusBadRequest, "intervalDays must be a positive integer")
		return
	}

	goal, err := handler.goalService.UpdateGoal(r.Context(), user.ID, chi.URLParam(r, "id"), services.GoalPatch{
		Name:          request.Name,
		IsMeasurable:  request.IsMeasurable,
		TargetValue:   request.TargetValue,
		Unit:          request.Unit,
		ScheduleDays:  request.ScheduleDays,
		IntervalDays:  request.IntervalDays,
		IntervalStart: request.IntervalStartDate,
		Description:   request.Description,
		SortOrder:     request.SortOrder,
		IsActive:      request.IsActive,
	})
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("updating goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (handler *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	err := handler.goalService.DeleteGoal(r.Context(), user.ID, chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("deleting goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *GoalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	isCompleted, err := handler.goalService.ToggleCompletion(r.Context(), user.ID, chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("toggling completion", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to toggle completion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isCompleted": isCompleted})
}

func (handler *GoalHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var request reorderRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, "goalIds are required")
		return
	}

	if err := handler.goalService.Reorder(r.Context(), user.ID, request.GoalIDs); err != nil {
		slog.Error("reordering goals", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reorder goals")
		return
	}
	w.WriteHeader(http.StatusOK)
}
