package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/darasa-app/darasa/apps/api/echo"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
	testutil "github.com/darasa-app/darasa/tests"
)

func auditCount(t *testing.T) int {
	entries, err := auditSvc.Query(context.Background())
	if err != nil {
		t.Fatalf("auditSvc.Query() failed: %v", err)
	}
	return len(entries)
}

func lastAuditAction(t *testing.T) string {
	entries, err := auditSvc.Query(context.Background())
	if err != nil {
		t.Fatalf("auditSvc.Query() failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no audit entries")
	}
	return entries[0].Action
}

func Test_userApi_login(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Login", "login@test.cd", "Str0ng#Pwd", user.RoleUser, false)
	testutil.CreateUser(t, usrRepo, "Banned", "banned.login@test.cd", "Str0ng#Pwd", user.RoleUser, true)

	body := func(email, pwd string) []byte {
		return marchallObj(t, LoginRequest{Email: email, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown email", body: body("ghost@test.cd", "Str0ng#Pwd"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: body("login@test.cd", "nope"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "banned account", body: body("banned.login@test.cd", "Str0ng#Pwd"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account banned"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body("login@test.cd", "Str0ng#Pwd"))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a signed token")
		}
	})
}

func Test_userApi_updateRole(t *testing.T) {
	super := testutil.CreateUser(t, usrRepo, "Super", "role.super@test.cd", "", user.RoleSuperAdmin, false)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "role.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "role.member@test.cd", "", user.RoleUser, false)
	boss := testutil.CreateUser(t, usrRepo, "Boss", protectedEmail, "", user.RoleSuperAdmin, false)

	superToken := getToken(t, super)
	path := func(id string) string { return "/v1/users/" + id + "/role" }
	body := func(role string) []byte { return marchallObj(t, user.UpdateUserRole{Role: role}) }

	promoted := member
	promoted.Role = user.RoleAdmin

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPut, path: path(member.ID), body: body(user.RoleAdmin),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Super admin required (user)", method: http.MethodPut, path: path(admin.ID), body: body(user.RoleUser),
			token: getToken(t, member), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Super admin required (admin)", method: http.MethodPut, path: path(member.ID), body: body(user.RoleAdmin),
			token: getToken(t, admin), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Cannot change own role", method: http.MethodPut, path: path(super.ID), body: body(user.RoleUser),
			token: superToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you cannot change your own role or ban state"}),
		},
		{
			name: "Protected account", method: http.MethodPut, path: path(boss.ID), body: body(user.RoleUser),
			token: superToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "this account is protected"}),
		},
		{
			name: "Target not found", method: http.MethodPut, path: path("4f9a2b1c-0000-0000-0000-000000000000"), body: body(user.RoleAdmin),
			token: superToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
		{
			name: "Invalid role", method: http.MethodPut, path: path(member.ID), body: body("GOD"),
			token: superToken, wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "Promote", method: http.MethodPut, path: path(member.ID), body: body(user.RoleAdmin),
			token: superToken, wantCode: http.StatusOK, wantData: marchallObj(t, promoted),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audits := auditCount(t)

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				if auditCount(t) != audits+1 {
					t.Error("expected exactly one new audit entry")
				}
				if action := lastAuditAction(t); action != audit.ActionUpdateRole {
					t.Errorf("audit action = %s, want %s", action, audit.ActionUpdateRole)
				}
			} else if auditCount(t) != audits {
				t.Error("rejected mutation must not append an audit entry")
			}
		})
	}
}

func Test_userApi_banToggle(t *testing.T) {
	super := testutil.CreateUser(t, usrRepo, "Super", "ban.super@test.cd", "", user.RoleSuperAdmin, false)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "ban.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "ban.member@test.cd", "", user.RoleUser, false)

	superToken := getToken(t, super)
	path := "/v1/users/" + member.ID + "/ban-toggle"

	banned := member
	banned.IsBanned = true

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: path,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Super admin required", method: http.MethodPost, path: path, token: getToken(t, admin),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Toggle on", method: http.MethodPost, path: path, token: superToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, BanResponse{Message: "User has been banned", User: banned}),
		},
		{
			name: "Toggle off", method: http.MethodPost, path: path, token: superToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, BanResponse{Message: "User has been unbanned", User: member}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("banned actor is rejected", func(t *testing.T) {
		// token was issued before the ban; the fresh DB check must reject it
		rogue := testutil.CreateUser(t, usrRepo, "Rogue", "ban.rogue@test.cd", "", user.RoleSuperAdmin, false)
		rogueToken := getToken(t, rogue)
		if _, err := usrRepo.SetUserBanned(context.Background(), rogue.ID, true); err != nil {
			t.Fatalf("SetUserBanned() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodPost, path, rogueToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account banned"}),
		}, rec)
	})
}

func Test_userApi_banUnban_idempotent(t *testing.T) {
	super := testutil.CreateUser(t, usrRepo, "Super", "idem.super@test.cd", "", user.RoleSuperAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "idem.member@test.cd", "", user.RoleUser, false)

	superToken := getToken(t, super)
	banPath := "/v1/users/" + member.ID + "/ban"
	unbanPath := "/v1/users/" + member.ID + "/unban"

	hit := func(t *testing.T, path, wantMsg string, wantNewAudit bool) {
		audits := auditCount(t)

		req, rec := newAuthRequest(http.MethodPost, path, superToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp BanResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Message != wantMsg {
			t.Errorf("message = %q, want %q", resp.Message, wantMsg)
		}

		wantAudits := audits
		if wantNewAudit {
			wantAudits++
		}
		if auditCount(t) != wantAudits {
			t.Errorf("audit entries = %d, want %d", auditCount(t), wantAudits)
		}
	}

	hit(t, banPath, "User has been banned", true)
	hit(t, banPath, "User has been banned", false) // repeat is a no-op
	hit(t, unbanPath, "User has been unbanned", true)
	hit(t, unbanPath, "User has been unbanned", false) // repeat is a no-op
}

func Test_userApi_query(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "query.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "query.member@test.cd", "", user.RoleUser, false)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users", getToken(t, member))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("Get all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var users []user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if len(users) == 0 {
			t.Error("expected at least the requesting admin")
		}
	})
}
