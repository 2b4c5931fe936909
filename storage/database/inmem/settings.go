package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings(ctx context.Context, exec ...core.DBExecutor) (settings.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.row == nil {
		return settings.Settings{}, settings.ErrNotFound
	}
	return *repo.db.row, nil
}

func (repo *settingsRepository) UpsertSettings(ctx context.Context, s settings.Settings, exec ...core.DBExecutor) (settings.Settings, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.row == nil {
		s.ID = uuid.New().String()
	} else {
		s.ID = repo.db.row.ID
	}
	repo.db.row = &s
	return s, nil
}
