package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/broadcast"
)

type broadcastRepository struct {
	db *broadcastTable
}

var _ broadcast.Repository = (*broadcastRepository)(nil)

func NewBroadcastRepository(db *DB) *broadcastRepository {
	return &broadcastRepository{db: db.broadcast}
}

func (repo *broadcastRepository) CreateBroadcast(ctx context.Context, bc broadcast.Broadcast, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	bc.ID = uuid.New().String()
	repo.db.table[bc.ID] = &bc
	return bc, nil
}

func (repo *broadcastRepository) GetActiveBroadcast(ctx context.Context, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var found *broadcast.Broadcast
	for _, bc := range repo.db.table {
		if !bc.IsActive {
			continue
		}
		if found == nil || bc.UpdatedAt.After(found.UpdatedAt) {
			found = bc
		}
	}
	if found == nil {
		return broadcast.Broadcast{}, broadcast.ErrNotFound
	}
	return *found, nil
}

func (repo *broadcastRepository) QueryActiveBroadcasts(ctx context.Context, exec ...core.DBExecutor) ([]broadcast.Broadcast, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	bcs := make([]broadcast.Broadcast, 0)
	for _, bc := range repo.db.table {
		if bc.IsActive {
			bcs = append(bcs, *bc)
		}
	}
	return bcs, nil
}

func (repo *broadcastRepository) UpdateBroadcast(ctx context.Context, bc broadcast.Broadcast, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[bc.ID]; !ok {
		return broadcast.Broadcast{}, broadcast.ErrNotFound
	}
	repo.db.table[bc.ID] = &bc
	return bc, nil
}

func (repo *broadcastRepository) DeactivateBroadcasts(ctx context.Context, exceptIDs []string, exec ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	except := make(map[string]bool, len(exceptIDs))
	for _, id := range exceptIDs {
		except[id] = true
	}

	var cnt int
	for _, bc := range repo.db.table {
		if bc.IsActive && !except[bc.ID] {
			bc.IsActive = false
			cnt++
		}
	}
	return cnt, nil
}
