package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
	testutil "github.com/darasa-app/darasa/tests"
)

func Test_auditApi_query(t *testing.T) {
	super := testutil.CreateUser(t, usrRepo, "Super", "audit.super@test.cd", "", user.RoleSuperAdmin, false)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "audit.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "audit.member@test.cd", "", user.RoleUser, false)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/audit")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/audit", getToken(t, member))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("mutations land in the log, newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/"+member.ID+"/ban", getToken(t, super))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("ban code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/audit", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var entries []audit.Entry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if len(entries) == 0 {
			t.Fatal("expected at least one entry")
		}
		if entries[0].Action != audit.ActionBanUser || entries[0].ActorID != super.ID {
			t.Errorf("newest entry = %+v", entries[0])
		}
	})
}
