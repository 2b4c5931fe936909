package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
	testutil "github.com/darasa-app/darasa/tests"
)

func Test_scheduleApi(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "sch.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "sch.member@test.cd", "", user.RoleUser, false)

	adminToken := getToken(t, admin)
	body := func(day, subject, start, end string) []byte {
		return marchallObj(t, schedule.NewSchedule{Day: day, Subject: subject, StartTime: start, EndTime: end, Teacher: "Mr. K"})
	}

	query := func(t *testing.T) []schedule.Schedule {
		req, rec := newRequest(http.MethodGet, "/v1/schedules")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var schedules []schedule.Schedule
		if err := json.Unmarshal(rec.Body.Bytes(), &schedules); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		return schedules
	}

	t.Run("empty timetable", func(t *testing.T) {
		if schedules := query(t); len(schedules) != 0 {
			t.Errorf("schedules = %d, want 0", len(schedules))
		}
	})

	t.Run("create requires admin", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedules", getToken(t, member), body("MONDAY", "Math", "08:00", "09:00"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("invalid day", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedules", adminToken, body("FUNDAY", "Math", "08:00", "09:00"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want %d; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("create, ordered read, delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedules", adminToken, body("TUESDAY", "History", "10:00", "11:00"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/schedules", adminToken, body("MONDAY", "Math", "08:00", "09:00"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		// the cached empty timetable must have been invalidated
		schedules := query(t)
		if len(schedules) != 2 {
			t.Fatalf("schedules = %d, want 2", len(schedules))
		}
		if schedules[0].Day != "MONDAY" || schedules[1].Day != "TUESDAY" {
			t.Errorf("ordering = %s, %s; want MONDAY, TUESDAY", schedules[0].Day, schedules[1].Day)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/v1/schedules/"+schedules[0].ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if schedules = query(t); len(schedules) != 1 {
			t.Errorf("schedules = %d, want 1", len(schedules))
		}
	})

	t.Run("update unknown schedule", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/schedules/9be10a7c-0000-0000-0000-000000000000", adminToken, body("FRIDAY", "Art", "13:00", "14:00"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "schedule not found"}),
		}, rec)
	})
}
