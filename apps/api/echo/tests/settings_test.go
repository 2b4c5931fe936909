package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
	testutil "github.com/darasa-app/darasa/tests"
)

func Test_settingsApi(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "set.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "set.member@test.cd", "", user.RoleUser, false)

	adminToken := getToken(t, admin)
	body := marchallObj(t, settings.UpdateSettings{
		SiteName:     "Class of 2027",
		Description:  "Senior class portal",
		ContactEmail: "class@test.cd",
	})

	t.Run("no settings yet", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/settings")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "settings not found"}),
		}, rec)
	})

	t.Run("update requires admin", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/settings", getToken(t, member), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("update then read back", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/settings", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated settings.Settings
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if updated.SiteName != "Class of 2027" || updated.ID == "" {
			t.Errorf("settings = %+v", updated)
		}

		req, rec = newRequest(http.MethodGet, "/v1/settings")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got settings.Settings
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if got.ID != updated.ID || got.SiteName != updated.SiteName {
			t.Errorf("settings = %+v, want %+v", got, updated)
		}
	})

	t.Run("second update keeps the row", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/settings")
		app.ServeHTTP(rec, req)
		var current settings.Settings
		if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}

		req, rec = newAuthRequest(http.MethodPut, "/v1/settings", adminToken, marchallObj(t, settings.UpdateSettings{SiteName: "Renamed"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated settings.Settings
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if updated.ID != current.ID {
			t.Errorf("settings ID = %s, want %s (single row)", updated.ID, current.ID)
		}

		// stale cache must not survive the update
		req, rec = newRequest(http.MethodGet, "/v1/settings")
		app.ServeHTTP(rec, req)
		var got settings.Settings
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if got.SiteName != "Renamed" {
			t.Errorf("site name = %q, want %q", got.SiteName, "Renamed")
		}
	})
}
