package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/officer"
)

const officerColumns = `id, name, position, rank, created_at, updated_at`

type officerRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	Rank      int       `db:"rank"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type officerRepository struct {
	exec core.DBExecutor
}

var _ officer.Repository = (*officerRepository)(nil) // interface compliance check

func NewOfficerRepository(exec core.DBExecutor) *officerRepository {
	return &officerRepository{exec: exec}
}

func (repo officerRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]officer.Officer, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying officers")
	}
	defer func() { _ = rows.Close() }()

	var rws []officerRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning officers")
	}
	officers := make([]officer.Officer, 0, len(rws))
	for _, r := range rws {
		officers = append(officers, officer.Officer(r))
	}
	return officers, nil
}

func (repo officerRepository) CreateOfficer(ctx context.Context, o officer.Officer, exec ...core.DBExecutor) (officer.Officer, error) {
	o.ID = uuid.New().String()
	q := bind(`INSERT INTO officer (` + officerColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		o.ID, o.Name, o.Position, o.Rank, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return officer.Officer{}, errors.Wrap(err, "inserting officer")
	}
	return o, nil
}

func (repo officerRepository) QueryAllOfficers(ctx context.Context, exec ...core.DBExecutor) ([]officer.Officer, error) {
	q := `SELECT ` + officerColumns + ` FROM officer ORDER BY rank, name`
	return repo.queryRows(ctx, getExec(repo.exec, exec), q)
}

func (repo officerRepository) GetOfficerByID(ctx context.Context, id string, exec ...core.DBExecutor) (officer.Officer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return officer.Officer{}, officer.ErrNotFound
	}
	q := bind(`SELECT ` + officerColumns + ` FROM officer WHERE id = ?`)
	officers, err := repo.queryRows(ctx, getExec(repo.exec, exec), q, id)
	if err != nil {
		return officer.Officer{}, err
	}
	if len(officers) == 0 {
		return officer.Officer{}, officer.ErrNotFound
	}
	return officers[0], nil
}

func (repo officerRepository) UpdateOfficer(ctx context.Context, o officer.Officer, exec ...core.DBExecutor) (officer.Officer, error) {
	q := bind(`UPDATE officer
		SET name = ?, position = ?, rank = ?, updated_at = ?
		WHERE id = ? RETURNING ` + officerColumns)
	officers, err := repo.queryRows(ctx, getExec(repo.exec, exec), q,
		o.Name, o.Position, o.Rank, o.UpdatedAt, o.ID)
	if err != nil {
		return officer.Officer{}, err
	}
	if len(officers) == 0 {
		return officer.Officer{}, officer.ErrNotFound
	}
	return officers[0], nil
}

func (repo officerRepository) DeleteOfficer(ctx context.Context, id string, exec ...core.DBExecutor) error {
	q := bind(`DELETE FROM officer WHERE id = ?`)
	if _, err := getExec(repo.exec, exec).ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting officer")
	}
	return nil
}
