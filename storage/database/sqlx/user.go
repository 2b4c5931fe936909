package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

const userColumns = `id, name, email, role, is_banned, password_hash, created_at, updated_at, last_login`

type userRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	IsBanned     bool       `db:"is_banned"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLogin    null.Time  `db:"last_login"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsBanned:     r.IsBanned,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]user.User, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer func() { _ = rows.Close() }()

	var rws []userRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning users")
	}
	users := make([]user.User, 0, len(rws))
	for _, r := range rws {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo userRepository) queryRow(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) (user.User, error) {
	users, err := repo.queryRows(ctx, exe, q, args...)
	if err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	q := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	q += `)`

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}

	var exists bool
	if err = getExec(repo.exec, exec).QueryRowContext(ctx, bind(q), inArgs...).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	q := bind(`INSERT INTO "user" (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Email, usr.Role, usr.IsBanned, null.BytesFrom(usr.PasswordHash),
		usr.CreatedAt, usr.UpdatedAt, null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM "user"`
	var clauses []string
	var args []interface{}

	if filter != nil {
		// users with Name or Email matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			clauses = append(clauses, `(name ILIKE ? OR email ILIKE ?)`)
			args = append(args, val, val)
		}
		if len(filter.Roles) > 0 {
			clauses = append(clauses, `role IN (?)`)
			args = append(args, filter.Roles)
		}
		if filter.IsBanned != nil {
			clauses = append(clauses, `is_banned = ?`)
			args = append(args, *filter.IsBanned)
		}
		if !filter.CreatedFrom.IsZero() {
			clauses = append(clauses, `created_at >= ?`)
			args = append(args, filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			clauses = append(clauses, `created_at <= ?`)
			args = append(args, filter.CreatedTo.UTC())
		}
	}
	if len(clauses) > 0 {
		q += ` WHERE ` + strings.Join(clauses, " AND ")
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += ` ORDER BY ` + strings.Join(orderList, ", ")
	} else {
		q += ` ORDER BY created_at DESC`
	}

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.queryRows(ctx, getExec(repo.exec, exec), bind(q), inArgs...)
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.exec, exec)

	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		q := bind(`SELECT ` + userColumns + ` FROM "user" WHERE id = ?`)
		return repo.queryRow(ctx, exe, q, filter.ID)
	}
	if filter.Email != "" {
		q := bind(`SELECT ` + userColumns + ` FROM "user" WHERE email = ?`)
		return repo.queryRow(ctx, exe, q, filter.Email)
	}
	return user.User{}, user.ErrNotFound
}

// UpdateUser only saves set fields.
func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	var sets []string
	var args []interface{}

	if usr.Name != "" {
		sets = append(sets, `name = ?`)
		args = append(args, usr.Name)
	}
	if usr.Email != "" {
		sets = append(sets, `email = ?`)
		args = append(args, usr.Email)
	}
	if usr.Role != "" {
		sets = append(sets, `role = ?`)
		args = append(args, usr.Role)
	}
	if usr.PasswordHash != nil {
		sets = append(sets, `password_hash = ?`)
		args = append(args, null.BytesFrom(usr.PasswordHash))
	}
	if !usr.UpdatedAt.IsZero() {
		sets = append(sets, `updated_at = ?`)
		args = append(args, usr.UpdatedAt.UTC())
	}
	if !usr.LastLogin.IsZero() {
		sets = append(sets, `last_login = ?`)
		args = append(args, usr.LastLogin.UTC())
	}
	if len(sets) == 0 {
		return repo.GetUser(ctx, user.GetFilter{ID: usr.ID}, exec...)
	}
	args = append(args, usr.ID)

	q := bind(`UPDATE "user" SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + userColumns)
	return repo.queryRow(ctx, getExec(repo.exec, exec), q, args...)
}

func (repo userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr, exec...)
	}
	return repo.UpdateUser(ctx, usr, exec...)
}

func (repo userRepository) SetUserRole(ctx context.Context, id, role string, exec ...core.DBExecutor) (user.User, error) {
	q := bind(`UPDATE "user" SET role = ?, updated_at = ? WHERE id = ? RETURNING ` + userColumns)
	return repo.queryRow(ctx, getExec(repo.exec, exec), q, role, time.Now().UTC(), id)
}

func (repo userRepository) SetUserBanned(ctx context.Context, id string, banned bool, exec ...core.DBExecutor) (user.User, error) {
	q := bind(`UPDATE "user" SET is_banned = ?, updated_at = ? WHERE id = ? RETURNING ` + userColumns)
	return repo.queryRow(ctx, getExec(repo.exec, exec), q, banned, time.Now().UTC(), id)
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	q, inArgs, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	res, err := getExec(repo.exec, exec).ExecContext(ctx, bind(q), inArgs...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	return int(cnt), nil
}
