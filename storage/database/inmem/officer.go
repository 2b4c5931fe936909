package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/officer"
)

type officerRepository struct {
	db *officerTable
}

var _ officer.Repository = (*officerRepository)(nil)

func NewOfficerRepository(db *DB) *officerRepository {
	return &officerRepository{db: db.officer}
}

func (repo *officerRepository) CreateOfficer(ctx context.Context, o officer.Officer, exec ...core.DBExecutor) (officer.Officer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	o.ID = uuid.New().String()
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *officerRepository) QueryAllOfficers(ctx context.Context, exec ...core.DBExecutor) ([]officer.Officer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	officers := make([]officer.Officer, 0, len(repo.db.table))
	for _, o := range repo.db.table {
		officers = append(officers, *o)
	}
	sort.Slice(officers, func(i, j int) bool {
		if officers[i].Rank != officers[j].Rank {
			return officers[i].Rank < officers[j].Rank
		}
		return officers[i].Name < officers[j].Name
	})
	return officers, nil
}

func (repo *officerRepository) GetOfficerByID(ctx context.Context, id string, exec ...core.DBExecutor) (officer.Officer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return officer.Officer{}, officer.ErrNotFound
}

func (repo *officerRepository) UpdateOfficer(ctx context.Context, o officer.Officer, exec ...core.DBExecutor) (officer.Officer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[o.ID]; !ok {
		return officer.Officer{}, officer.ErrNotFound
	}
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *officerRepository) DeleteOfficer(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return officer.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
