package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
)

const auditColumns = `id, actor_id, action, details, created_at`

type auditRow struct {
	ID        string    `db:"id"`
	ActorID   string    `db:"actor_id"`
	Action    string    `db:"action"`
	Details   string    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}

func (r auditRow) toEntry() audit.Entry {
	return audit.Entry(r)
}

type auditRepository struct {
	exec core.DBExecutor
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(exec core.DBExecutor) *auditRepository {
	return &auditRepository{exec: exec}
}

func (repo auditRepository) CreateEntry(ctx context.Context, entry audit.Entry, exec ...core.DBExecutor) (audit.Entry, error) {
	entry.ID = uuid.New().String()
	q := bind(`INSERT INTO audit_log (` + auditColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		entry.ID, entry.ActorID, entry.Action, entry.Details, entry.CreatedAt)
	if err != nil {
		return audit.Entry{}, errors.Wrap(err, "inserting audit entry")
	}
	return entry, nil
}

func (repo auditRepository) QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]audit.Entry, error) {
	q := `SELECT ` + auditColumns + ` FROM audit_log ORDER BY created_at DESC, id DESC`
	rows, err := getExec(repo.exec, exec).QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "querying audit entries")
	}
	defer func() { _ = rows.Close() }()

	var rws []auditRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning audit entries")
	}
	entries := make([]audit.Entry, 0, len(rws))
	for _, r := range rws {
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

func (repo auditRepository) CountEntries(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var count int
	err := getExec(repo.exec, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting audit entries")
	}
	return count, nil
}

func (repo auditRepository) PruneEntries(ctx context.Context, keep int, exec ...core.DBExecutor) (int, error) {
	q := bind(`DELETE FROM audit_log WHERE id NOT IN (
		SELECT id FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?
	)`)
	res, err := getExec(repo.exec, exec).ExecContext(ctx, q, keep)
	if err != nil {
		return 0, errors.Wrap(err, "pruning audit entries")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "pruning audit entries")
	}
	return int(cnt), nil
}
