package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
	emailsvc "github.com/darasa-app/darasa/services/email"
	viewcache "github.com/darasa-app/darasa/storage/cache"
	inmemdb "github.com/darasa-app/darasa/storage/database/inmem"
	testutil "github.com/darasa-app/darasa/tests"
)

func setup(t *testing.T, protected ...string) (user.Service, user.Repository, audit.Service, core.ViewCache) {
	testutil.NewConfig()

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db), testutil.NopLogger{})
	cache := viewcache.NewMemory(16, time.Minute)
	svc := user.NewServiceMock(db, usrRepo, auditSvc, emailsvc.NewConsoleServiceMock(), cache, protected...)
	return svc, usrRepo, auditSvc, cache
}

func countAudit(t *testing.T, auditSvc audit.Service) int {
	entries, err := auditSvc.Query(context.Background())
	if err != nil {
		t.Fatalf("auditSvc.Query() failed: %v", err)
	}
	return len(entries)
}

func lastAudit(t *testing.T, auditSvc audit.Service) audit.Entry {
	entries, err := auditSvc.Query(context.Background())
	if err != nil {
		t.Fatalf("auditSvc.Query() failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no audit entries")
	}
	return entries[0]
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		actor    *user.User
		required string
		wantErr  error
	}{
		{name: "nil actor", required: user.RoleUser, wantErr: user.ErrUnauthorized},
		{name: "banned actor", actor: &user.User{Role: user.RoleSuperAdmin, IsBanned: true}, required: user.RoleUser, wantErr: user.ErrBanned},
		{name: "user wants admin", actor: &user.User{Role: user.RoleUser}, required: user.RoleAdmin, wantErr: user.ErrForbidden},
		{name: "admin wants super admin", actor: &user.User{Role: user.RoleAdmin}, required: user.RoleSuperAdmin, wantErr: user.ErrForbidden},
		{name: "user wants user", actor: &user.User{Role: user.RoleUser}, required: user.RoleUser},
		{name: "admin wants admin", actor: &user.User{Role: user.RoleAdmin}, required: user.RoleAdmin},
		{name: "super admin wants admin", actor: &user.User{Role: user.RoleSuperAdmin}, required: user.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := user.Authorize(tt.actor, tt.required); err != tt.wantErr {
				t.Errorf("Authorize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_service_UpdateRole(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, auditSvc, cache := setup(t, "Boss@Test.CD")

	super := testutil.CreateUser(t, usrRepo, "Super", "super@test.cd", "", user.RoleSuperAdmin, false)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "member@test.cd", "", user.RoleUser, false)
	boss := testutil.CreateUser(t, usrRepo, "Boss", "boss@test.cd", "", user.RoleSuperAdmin, false)
	bannedSuper := testutil.CreateUser(t, usrRepo, "Rogue", "rogue@test.cd", "", user.RoleSuperAdmin, true)
	// protected email only shields super admins
	impostor := testutil.CreateUser(t, usrRepo, "Impostor", "boss@test.cd", "", user.RoleUser, false)

	tests := []struct {
		name     string
		actor    user.User
		targetID string
		newRole  string
		wantErr  error
	}{
		{name: "admin cannot change roles", actor: admin, targetID: member.ID, newRole: user.RoleAdmin, wantErr: user.ErrForbidden},
		{name: "regular user cannot change roles", actor: member, targetID: admin.ID, newRole: user.RoleUser, wantErr: user.ErrForbidden},
		{name: "banned super admin cannot change roles", actor: bannedSuper, targetID: member.ID, newRole: user.RoleAdmin, wantErr: user.ErrBanned},
		{name: "cannot change own role", actor: super, targetID: super.ID, newRole: user.RoleUser, wantErr: user.ErrCannotTouchSelf},
		{name: "target not found", actor: super, targetID: "a2f9c3be-0000-0000-0000-000000000000", wantErr: user.ErrNotFound},
		{name: "protected account", actor: super, targetID: boss.ID, newRole: user.RoleUser, wantErr: user.ErrImmutableTarget},
		{name: "promote", actor: super, targetID: member.ID, newRole: user.RoleAdmin},
		{name: "demote", actor: super, targetID: admin.ID, newRole: user.RoleUser},
		{name: "non super admin with protected email", actor: super, targetID: impostor.ID, newRole: user.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audits := countAudit(t, auditSvc)
			cache.Set(core.ViewAdminUsers, []byte("cached"))

			updated, err := svc.UpdateRole(ctx, tt.actor, tt.targetID, tt.newRole)
			if err != tt.wantErr {
				t.Fatalf("UpdateRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if countAudit(t, auditSvc) != audits {
					t.Error("rejected mutation must not append an audit entry")
				}
				return
			}

			if updated.Role != tt.newRole {
				t.Errorf("role = %s, want %s", updated.Role, tt.newRole)
			}
			refreshed, err := usrRepo.GetUser(ctx, user.GetFilter{ID: tt.targetID})
			if err != nil {
				t.Fatalf("GetUser() failed: %v", err)
			}
			if refreshed.Role != tt.newRole {
				t.Errorf("persisted role = %s, want %s", refreshed.Role, tt.newRole)
			}
			if countAudit(t, auditSvc) != audits+1 {
				t.Error("expected exactly one new audit entry")
			}
			if entry := lastAudit(t, auditSvc); entry.Action != audit.ActionUpdateRole || entry.ActorID != tt.actor.ID {
				t.Errorf("audit entry = %+v", entry)
			}
			if _, ok := cache.Get(core.ViewAdminUsers); ok {
				t.Error("user views must be invalidated")
			}
		})
	}

	t.Run("invalid role", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, super, member.ID, "GOD")
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("UpdateRole() error = %v, want *core.ValidationError", err)
		}
	})
}

func Test_service_ToggleBan(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, auditSvc, cache := setup(t, "boss@test.cd")

	super := testutil.CreateUser(t, usrRepo, "Super", "super@test.cd", "", user.RoleSuperAdmin, false)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "member@test.cd", "", user.RoleUser, false)
	boss := testutil.CreateUser(t, usrRepo, "Boss", "boss@test.cd", "", user.RoleSuperAdmin, false)

	t.Run("admin cannot ban", func(t *testing.T) {
		if _, err := svc.ToggleBan(ctx, admin, member.ID); err != user.ErrForbidden {
			t.Errorf("ToggleBan() error = %v, wantErr %v", err, user.ErrForbidden)
		}
	})
	t.Run("cannot ban self", func(t *testing.T) {
		if _, err := svc.ToggleBan(ctx, super, super.ID); err != user.ErrCannotTouchSelf {
			t.Errorf("ToggleBan() error = %v, wantErr %v", err, user.ErrCannotTouchSelf)
		}
	})
	t.Run("cannot ban protected account", func(t *testing.T) {
		if _, err := svc.ToggleBan(ctx, super, boss.ID); err != user.ErrImmutableTarget {
			t.Errorf("ToggleBan() error = %v, wantErr %v", err, user.ErrImmutableTarget)
		}
	})
	t.Run("target not found", func(t *testing.T) {
		if _, err := svc.ToggleBan(ctx, super, "c7e1d2aa-0000-0000-0000-000000000000"); err != user.ErrNotFound {
			t.Errorf("ToggleBan() error = %v, wantErr %v", err, user.ErrNotFound)
		}
	})

	t.Run("toggle on then off", func(t *testing.T) {
		cache.Set(core.ViewAdminUsers, []byte("cached"))

		banned, err := svc.ToggleBan(ctx, super, member.ID)
		if err != nil {
			t.Fatalf("ToggleBan() failed: %v", err)
		}
		if !banned.IsBanned {
			t.Error("expected user to be banned")
		}
		if entry := lastAudit(t, auditSvc); entry.Action != audit.ActionBanUser {
			t.Errorf("audit action = %s, want %s", entry.Action, audit.ActionBanUser)
		}
		if _, ok := cache.Get(core.ViewAdminUsers); ok {
			t.Error("user views must be invalidated")
		}

		unbanned, err := svc.ToggleBan(ctx, super, member.ID)
		if err != nil {
			t.Fatalf("ToggleBan() failed: %v", err)
		}
		if unbanned.IsBanned {
			t.Error("expected user to be unbanned")
		}
		if entry := lastAudit(t, auditSvc); entry.Action != audit.ActionUnbanUser {
			t.Errorf("audit action = %s, want %s", entry.Action, audit.ActionUnbanUser)
		}
	})
}

func Test_service_BanUnban_idempotent(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, auditSvc, _ := setup(t)

	super := testutil.CreateUser(t, usrRepo, "Super", "super@test.cd", "", user.RoleSuperAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "member@test.cd", "", user.RoleUser, false)

	// first ban mutates and records
	banned, err := svc.Ban(ctx, super, member.ID)
	if err != nil {
		t.Fatalf("Ban() failed: %v", err)
	}
	if !banned.IsBanned {
		t.Error("expected user to be banned")
	}
	if countAudit(t, auditSvc) != 1 {
		t.Errorf("audit entries = %d, want 1", countAudit(t, auditSvc))
	}

	// second ban is a no-op
	banned, err = svc.Ban(ctx, super, member.ID)
	if err != nil {
		t.Fatalf("Ban() failed: %v", err)
	}
	if !banned.IsBanned {
		t.Error("expected user to stay banned")
	}
	if countAudit(t, auditSvc) != 1 {
		t.Error("repeated ban must not append an audit entry")
	}

	// first unban mutates and records
	unbanned, err := svc.Unban(ctx, super, member.ID)
	if err != nil {
		t.Fatalf("Unban() failed: %v", err)
	}
	if unbanned.IsBanned {
		t.Error("expected user to be unbanned")
	}
	if countAudit(t, auditSvc) != 2 {
		t.Errorf("audit entries = %d, want 2", countAudit(t, auditSvc))
	}

	// second unban is a no-op
	unbanned, err = svc.Unban(ctx, super, member.ID)
	if err != nil {
		t.Fatalf("Unban() failed: %v", err)
	}
	if unbanned.IsBanned {
		t.Error("expected user to stay unbanned")
	}
	if countAudit(t, auditSvc) != 2 {
		t.Error("repeated unban must not append an audit entry")
	}
}
