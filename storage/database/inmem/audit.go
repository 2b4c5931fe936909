package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil)

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) CreateEntry(ctx context.Context, entry audit.Entry, exec ...core.DBExecutor) (audit.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	entry.ID = uuid.New().String()
	repo.db.entries = append(repo.db.entries, entry)
	return entry, nil
}

func (repo *auditRepository) QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]audit.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	// newest first
	entries := make([]audit.Entry, 0, len(repo.db.entries))
	for i := len(repo.db.entries) - 1; i >= 0; i-- {
		entries = append(entries, repo.db.entries[i])
	}
	return entries, nil
}

func (repo *auditRepository) CountEntries(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.entries), nil
}

func (repo *auditRepository) PruneEntries(ctx context.Context, keep int, exec ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	excess := len(repo.db.entries) - keep
	if excess <= 0 {
		return 0, nil
	}
	repo.db.entries = append([]audit.Entry(nil), repo.db.entries[excess:]...)
	return excess, nil
}
