package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/broadcast"
)

const broadcastColumns = `id, title, content, author_id, is_active, created_at, updated_at`

type broadcastRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	AuthorID  string    `db:"author_id"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r broadcastRow) toBroadcast() broadcast.Broadcast {
	return broadcast.Broadcast(r)
}

type broadcastRepository struct {
	exec core.DBExecutor
}

var _ broadcast.Repository = (*broadcastRepository)(nil) // interface compliance check

func NewBroadcastRepository(exec core.DBExecutor) *broadcastRepository {
	return &broadcastRepository{exec: exec}
}

func (repo broadcastRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]broadcast.Broadcast, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying broadcasts")
	}
	defer func() { _ = rows.Close() }()

	var rws []broadcastRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning broadcasts")
	}
	bcs := make([]broadcast.Broadcast, 0, len(rws))
	for _, r := range rws {
		bcs = append(bcs, r.toBroadcast())
	}
	return bcs, nil
}

func (repo broadcastRepository) CreateBroadcast(ctx context.Context, bc broadcast.Broadcast, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	bc.ID = uuid.New().String()
	q := bind(`INSERT INTO broadcast (` + broadcastColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		bc.ID, bc.Title, bc.Content, bc.AuthorID, bc.IsActive, bc.CreatedAt, bc.UpdatedAt)
	if err != nil {
		return broadcast.Broadcast{}, errors.Wrap(err, "inserting broadcast")
	}
	return bc, nil
}

func (repo broadcastRepository) GetActiveBroadcast(ctx context.Context, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	q := `SELECT ` + broadcastColumns + ` FROM broadcast WHERE is_active ORDER BY updated_at DESC LIMIT 1`
	bcs, err := repo.queryRows(ctx, getExec(repo.exec, exec), q)
	if err != nil {
		return broadcast.Broadcast{}, err
	}
	if len(bcs) == 0 {
		return broadcast.Broadcast{}, broadcast.ErrNotFound
	}
	return bcs[0], nil
}

func (repo broadcastRepository) QueryActiveBroadcasts(ctx context.Context, exec ...core.DBExecutor) ([]broadcast.Broadcast, error) {
	q := `SELECT ` + broadcastColumns + ` FROM broadcast WHERE is_active ORDER BY updated_at DESC`
	return repo.queryRows(ctx, getExec(repo.exec, exec), q)
}

func (repo broadcastRepository) UpdateBroadcast(ctx context.Context, bc broadcast.Broadcast, exec ...core.DBExecutor) (broadcast.Broadcast, error) {
	q := bind(`UPDATE broadcast
		SET title = ?, content = ?, author_id = ?, is_active = ?, updated_at = ?
		WHERE id = ? RETURNING ` + broadcastColumns)
	bcs, err := repo.queryRows(ctx, getExec(repo.exec, exec), q,
		bc.Title, bc.Content, bc.AuthorID, bc.IsActive, bc.UpdatedAt, bc.ID)
	if err != nil {
		return broadcast.Broadcast{}, err
	}
	if len(bcs) == 0 {
		return broadcast.Broadcast{}, broadcast.ErrNotFound
	}
	return bcs[0], nil
}

func (repo broadcastRepository) DeactivateBroadcasts(ctx context.Context, exceptIDs []string, exec ...core.DBExecutor) (int, error) {
	q := `UPDATE broadcast SET is_active = FALSE, updated_at = ? WHERE is_active`
	args := []interface{}{time.Now().UTC()}
	if len(exceptIDs) > 0 {
		q += ` AND id NOT IN (?)`
		args = append(args, exceptIDs)
	}

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deactivating broadcasts")
	}
	res, err := getExec(repo.exec, exec).ExecContext(ctx, bind(q), inArgs...)
	if err != nil {
		return 0, errors.Wrap(err, "deactivating broadcasts")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deactivating broadcasts")
	}
	return int(cnt), nil
}
