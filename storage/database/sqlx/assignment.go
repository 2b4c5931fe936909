package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
)

const assignmentColumns = `id, title, description, subject, due_date, created_at, updated_at`

type assignmentRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Subject     string    `db:"subject"`
	DueDate     time.Time `db:"due_date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type assignmentRepository struct {
	exec core.DBExecutor
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{exec: exec}
}

func (repo assignmentRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]assignment.Assignment, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	defer func() { _ = rows.Close() }()

	var rws []assignmentRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rws))
	for _, r := range rws {
		assignments = append(assignments, assignment.Assignment(r))
	}
	return assignments, nil
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	a.ID = uuid.New().String()
	q := bind(`INSERT INTO assignment (` + assignmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.Subject, a.DueDate, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) QueryAllAssignments(ctx context.Context, exec ...core.DBExecutor) ([]assignment.Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM assignment ORDER BY due_date, created_at`
	return repo.queryRows(ctx, getExec(repo.exec, exec), q)
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (assignment.Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	q := bind(`SELECT ` + assignmentColumns + ` FROM assignment WHERE id = ?`)
	assignments, err := repo.queryRows(ctx, getExec(repo.exec, exec), q, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if len(assignments) == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return assignments[0], nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	q := bind(`UPDATE assignment
		SET title = ?, description = ?, subject = ?, due_date = ?, updated_at = ?
		WHERE id = ? RETURNING ` + assignmentColumns)
	assignments, err := repo.queryRows(ctx, getExec(repo.exec, exec), q,
		a.Title, a.Description, a.Subject, a.DueDate, a.UpdatedAt, a.ID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if len(assignments) == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return assignments[0], nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id string, exec ...core.DBExecutor) error {
	q := bind(`DELETE FROM assignment WHERE id = ?`)
	if _, err := getExec(repo.exec, exec).ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
