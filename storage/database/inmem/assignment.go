package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = uuid.New().String()
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context, exec ...core.DBExecutor) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		assignments = append(assignments, *a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].DueDate.Equal(assignments[j].DueDate) {
			return assignments[i].DueDate.Before(assignments[j].DueDate)
		}
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[a.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
