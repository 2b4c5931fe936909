package audit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/darasa-app/darasa/core/audit"
	inmemdb "github.com/darasa-app/darasa/storage/database/inmem"
	testutil "github.com/darasa-app/darasa/tests"
)

func Test_service_Prune(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewAuditRepository(inmemdb.Open())
	svc := audit.NewService(repo, testutil.NopLogger{})

	appendN := func(n int) {
		for i := 0; i < n; i++ {
			details := fmt.Sprintf("changed role of user%d@test.cd to ADMIN", i)
			if err := svc.Append(ctx, "actor", audit.ActionUpdateRole, details); err != nil {
				t.Fatalf("Append() failed: %v", err)
			}
		}
	}

	// under the cap: nothing to prune
	appendN(audit.RetentionCount - 1)
	svc.Prune(ctx)
	entries, err := svc.Query(ctx)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(entries) != audit.RetentionCount-1 {
		t.Errorf("entries = %d, want %d", len(entries), audit.RetentionCount-1)
	}

	// exactly at the cap: still nothing to prune
	appendN(1)
	svc.Prune(ctx)
	if entries, _ = svc.Query(ctx); len(entries) != audit.RetentionCount {
		t.Errorf("entries = %d, want %d", len(entries), audit.RetentionCount)
	}

	// over the cap: only the newest RetentionCount survive
	appendN(10)
	svc.Prune(ctx)
	entries, err = svc.Query(ctx)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(entries) != audit.RetentionCount {
		t.Errorf("entries = %d, want %d", len(entries), audit.RetentionCount)
	}

	// entries are returned newest first; the newest one is the last appended
	want := fmt.Sprintf("changed role of user%d@test.cd to ADMIN", 9)
	if entries[0].Details != want {
		t.Errorf("newest entry = %q, want %q", entries[0].Details, want)
	}
	// the oldest survivors are the ones right after the pruned prefix
	if entries[len(entries)-1].Details == "changed role of user0@test.cd to ADMIN" {
		t.Error("oldest entries must be pruned first")
	}
}

func Test_service_Append(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewAuditRepository(inmemdb.Open())
	svc := audit.NewService(repo, testutil.NopLogger{})

	if err := svc.Append(ctx, "actor-id", audit.ActionBanUser, "banned member@test.cd"); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	entries, err := svc.Query(ctx)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.ActorID != "actor-id" || entry.Action != audit.ActionBanUser || entry.Details != "banned member@test.cd" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry must be timestamped")
	}
}
