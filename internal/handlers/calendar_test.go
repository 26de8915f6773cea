package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func dateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func TestCalendar(t *testing.T) {
	testServer := newTestServer(t)
	token := registerAndLogin(t, testServer, "alice")

	goal := createGoal(t, testServer, token, map[string]any{"name": "Everyday"})
	toggleURL := fmt.Sprintf("%s/api/goals/%s/toggle", testServer.URL, goal["id"])
	if response := doRequest(t, http.MethodPost, toggleURL, token, nil); response.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", response.StatusCode)
	}

	today := time.Now()
	url := fmt.Sprintf("%s/api/goals/calendar?startDate=%s&endDate=%s",
		testServer.URL, dateString(today), dateString(today.AddDate(0, 0, 6)))
	response := doRequest(t, http.MethodGet, url, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}

	var days []map[string]any
	decodeBody(t, response, &days)
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	for i, day := range days {
		if day["totalScheduled"] != float64(1) {
			t.Errorf("day %d totalScheduled = %v, want 1", i, day["totalScheduled"])
		}
	}
	if days[0]["date"] != dateString(today) {
		t.Errorf("first date = %v, want %s", days[0]["date"], dateString(today))
	}
	if days[0]["completed"] != float64(1) {
		t.Errorf("today completed = %v, want 1", days[0]["completed"])
	}
	if days[1]["completed"] != float64(0) {
		t.Errorf("tomorrow completed = %v, want 0", days[1]["completed"])
	}
}

func TestCalendar_Validation(t *testing.T) {
	testServer := newTestServer(t)
	token := registerAndLogin(t, testServer, "alice")

	tests := []struct {
		name      string
		query     string
		wantError string
	}{
		{"missing params", "", "Both startDate and endDate are required"},
		{"missing end", "?startDate=2025-01-01", "Both startDate and endDate are required"},
		{"bad start", "?startDate=nope&endDate=2025-01-07", "Invalid startDate"},
		{"bad end", "?startDate=2025-01-01&endDate=nope", "Invalid endDate"},
		{"inverted range", "?startDate=2025-01-07&endDate=2025-01-01", "startDate must be before or equal to endDate"},
		{"range too wide", "?startDate=2024-01-01&endDate=2026-01-01", "must not exceed 366 days"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := doRequest(t, http.MethodGet, testServer.URL+"/api/goals/calendar"+test.query, token, nil)
			if response.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", response.StatusCode)
			}
			var body map[string]string
			decodeBody(t, response, &body)
			if !strings.Contains(body["error"], test.wantError) {
				t.Errorf("error = %q, want it to contain %q", body["error"], test.wantError)
			}
		})
	}
}

func TestCalendarDay(t *testing.T) {
	testServer := newTestServer(t)
	token := registerAndLogin(t, testServer, "alice")

	done := createGoal(t, testServer, token, map[string]any{"name": "Done"})
	createGoal(t, testServer, token, map[string]any{"name": "Pending"})
	toggleURL := fmt.Sprintf("%s/api/goals/%s/toggle", testServer.URL, done["id"])
	if response := doRequest(t, http.MethodPost, toggleURL, token, nil); response.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", response.StatusCode)
	}

	url := fmt.Sprintf("%s/api/goals/calendar/day?date=%s", testServer.URL, dateString(time.Now()))
	response := doRequest(t, http.MethodGet, url, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}

	var details struct {
		Date           string           `json:"date"`
		TotalScheduled int              `json:"totalScheduled"`
		Completed      int              `json:"completed"`
		Done           []map[string]any `json:"done"`
		NotDone        []map[string]any `json:"notDone"`
	}
	decodeBody(t, response, &details)

	if details.TotalScheduled != 2 {
		t.Errorf("totalScheduled = %d, want 2", details.TotalScheduled)
	}
	if details.Completed != 1 {
		t.Errorf("completed = %d, want 1", details.Completed)
	}
	if len(details.Done) != 1 || details.Done[0]["name"] != "Done" {
		t.Errorf("done = %v, want only Done", details.Done)
	}
	if len(details.NotDone) != 1 || details.NotDone[0]["name"] != "Pending" {
		t.Errorf("notDone = %v, want only Pending", details.NotDone)
	}
}

func TestCalendarDay_Validation(t *testing.T) {
	testServer := newTestServer(t)
	token := registerAndLogin(t, testServer, "alice")

	response := doRequest(t, http.MethodGet, testServer.URL+"/api/goals/calendar/day", token, nil)
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("missing date status = %d, want 400", response.StatusCode)
	}
	response = doRequest(t, http.MethodGet, testServer.URL+"/api/goals/calendar/day?date=yesterday", token, nil)
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", response.StatusCode)
	}
}
