package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Pineacles/habit-pulse/internal/middleware"
	"github.com/Pineacles/habit-pulse/internal/services"
)

type ICalHandler struct {
	goalService *services.GoalService
}

func NewICalHandler(goalService *services.GoalService) *ICalHandler {
	return &ICalHandler{goalService: goalService}
}

// Feed exports the caller's upcoming due occurrences as an iCalendar file,
// one all-day event per goal per due date.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	days := 30
	if value := r.URL.Query().Get("days"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 || parsed > 366 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = parsed
	}

	occurrences, err := handler.goalService.DueOccurrences(r.Context(), user.ID, handler.goalService.Today(), days)
	if err != nil {
		slog.Error("projecting due occurrences", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build calendar feed")
		return
	}

	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//HabitPulse//HabitPulse//EN")

	now := time.Now()
	for _, occurrence := range occurrences {
		event := calendar.AddEvent(fmt.Sprintf("%s-%s@habit-pulse", occurrence.Goal.ID, occurrence.Date))

		summary := occurrence.Goal.Name
		if occurrence.Goal.IsMeasurable {
			summary = fmt.Sprintf("%s (%d %s)", occurrence.Goal.Name, occurrence.Goal.TargetValue, occurrence.Goal.Unit)
		}
		event.SetSummary(summary)
		if occurrence.Goal.Description != nil {
			event.SetDescription(*occurrence.Goal.Description)
		}
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(occurrence.Date.Time())
		event.SetAllDayEndAt(occurrence.Date.AddDays(1).Time())
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=habit-pulse.ics")
	if err := calendar.SerializeTo(w); err != nil {
		slog.Error("serializing calendar feed", "error", err)
	}
}
