package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Pineacles/habit-pulse/internal/middleware"
	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/Pineacles/habit-pulse/internal/services"
)

// maxCalendarRangeDays bounds the calendar query span to slightly over a
// year, matching what the client's year view can request.
const maxCalendarRangeDays = 366

type CalendarHandler struct {
	goalService *services.GoalService
}

func NewCalendarHandler(goalService *services.GoalService) *CalendarHandler {
	return &CalendarHandler{goalService: goalService}
}

type calendarDayResponse struct {
	Date           models.Date `json:"date"`
	TotalScheduled int         `json:"totalScheduled"`
	Completed      int         `json:"completed"`
}

type goalItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsMeasurable bool   `json:"isMeasurable"`
	TargetValue  int    `json:"targetValue"`
	Unit         string `json:"unit"`
}

type dayDetailsResponse struct {
	Date           models.Date        `json:"date"`
	TotalScheduled int                `json:"totalScheduled"`
	Completed      int                `json:"completed"`
	Done           []goalItemResponse `json:"done"`
	NotDone        []goalItemResponse `json:"notDone"`
}

func (handler *CalendarHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	startParam := r.URL.Query().Get("startDate")
	endParam := r.URL.Query().Get("endDate")
	if startParam == "" || endParam == "" {
		writeError(w, http.StatusBadRequest, "Both startDate and endDate are required")
		return
	}

	start, err := models.ParseDate(startParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate, use YYYY-MM-DD")
		return
	}
	end, err := models.ParseDate(endParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate, use YYYY-MM-DD")
		return
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "startDate must be before or equal to endDate")
		return
	}
	if end.DaysSince(start) > maxCalendarRangeDays {
		writeError(w, http.StatusBadRequest, "Date range must not exceed 366 days")
		return
	}

	days, err := handler.goalService.CalendarData(r.Context(), user.ID, start, end)
	if err != nil {
		slog.Error("loading calendar data", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load calendar data")
		return
	}

	responses := make([]calendarDayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, calendarDayResponse{
			Date:           day.Date,
			TotalScheduled: day.TotalScheduled,
			Completed:      day.Completed,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func (handler *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := models.ParseDate(dateParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD")
		return
	}

	details, err := handler.goalService.DayDetails(r.Context(), user.ID, date)
	if err != nil {
		slog.Error("loading day details", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load day details")
		return
	}

	writeJSON(w, http.StatusOK, dayDetailsResponse{
		Date:           details.Date,
		TotalScheduled: details.TotalScheduled,
		Completed:      details.Completed,
		Done:           toGoalItems(details.Done),
		NotDone:        toGoalItems(details.NotDone),
	})
}

func toGoalItems(goals []models.Goal) []goalItemResponse {
	items := make([]goalItemResponse, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalItemResponse{
			ID:           goal.ID,
			Name:         goal.Name,
			IsMeasurable: goal.IsMeasurable,
			TargetValue:  goal.TargetValue,
			Unit:         goal.Unit,
		})
	}
	return items
}
