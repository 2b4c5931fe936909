package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/settings"
)

const settingsColumns = `id, site_name, description, contact_email, updated_at`

type settingsRow struct {
	ID           string    `db:"id"`
	SiteName     string    `db:"site_name"`
	Description  string    `db:"description"`
	ContactEmail string    `db:"contact_email"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type settingsRepository struct {
	exec core.DBExecutor
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(exec core.DBExecutor) *settingsRepository {
	return &settingsRepository{exec: exec}
}

func (repo settingsRepository) get(ctx context.Context, exe core.DBExecutor) (settings.Settings, error) {
	q := `SELECT ` + settingsColumns + ` FROM settings ORDER BY updated_at DESC LIMIT 1`
	rows, err := exe.QueryContext(ctx, q)
	if err != nil {
		return settings.Settings{}, errors.Wrap(err, "querying settings")
	}
	defer func() { _ = rows.Close() }()

	var rws []settingsRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return settings.Settings{}, errors.Wrap(err, "scanning settings")
	}
	if len(rws) == 0 {
		return settings.Settings{}, settings.ErrNotFound
	}
	return settings.Settings(rws[0]), nil
}

func (repo settingsRepository) GetSettings(ctx context.Context, exec ...core.DBExecutor) (settings.Settings, error) {
	return repo.get(ctx, getExec(repo.exec, exec))
}

// UpsertSettings updates the single settings row, creating it on first use.
func (repo settingsRepository) UpsertSettings(ctx context.Context, s settings.Settings, exec ...core.DBExecutor) (settings.Settings, error) {
	exe := getExec(repo.exec, exec)

	current, err := repo.get(ctx, exe)
	if err != nil {
		if err != settings.ErrNotFound {
			return settings.Settings{}, err
		}
		s.ID = uuid.New().String()
		q := bind(`INSERT INTO settings (` + settingsColumns + `) VALUES (?, ?, ?, ?, ?)`)
		if _, err = exe.ExecContext(ctx, q, s.ID, s.SiteName, s.Description, s.ContactEmail, s.UpdatedAt); err != nil {
			return settings.Settings{}, errors.Wrap(err, "inserting settings")
		}
		return s, nil
	}

	s.ID = current.ID
	q := bind(`UPDATE settings SET site_name = ?, description = ?, contact_email = ?, updated_at = ? WHERE id = ?`)
	if _, err = exe.ExecContext(ctx, q, s.SiteName, s.Description, s.ContactEmail, s.UpdatedAt, s.ID); err != nil {
		return settings.Settings{}, errors.Wrap(err, "updating settings")
	}
	return s, nil
}
