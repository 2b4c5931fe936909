package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db.schedule}
}

var dayOrder = func() map[string]int {
	order := make(map[string]int, len(schedule.Days))
	for i, day := range schedule.Days {
		order[day] = i
	}
	return order
}()

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sch schedule.Schedule, exec ...core.DBExecutor) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sch.ID = uuid.New().String()
	repo.db.table[sch.ID] = &sch
	return sch, nil
}

func (repo *scheduleRepository) QueryAllSchedules(ctx context.Context, exec ...core.DBExecutor) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schedules := make([]schedule.Schedule, 0, len(repo.db.table))
	for _, sch := range repo.db.table {
		schedules = append(schedules, *sch)
	}
	sort.Slice(schedules, func(i, j int) bool {
		if dayOrder[schedules[i].Day] != dayOrder[schedules[j].Day] {
			return dayOrder[schedules[i].Day] < dayOrder[schedules[j].Day]
		}
		return schedules[i].StartTime < schedules[j].StartTime
	})
	return schedules, nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sch, ok := repo.db.table[id]; ok {
		return *sch, nil
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpdateSchedule(ctx context.Context, sch schedule.Schedule, exec ...core.DBExecutor) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sch.ID]; !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	repo.db.table[sch.ID] = &sch
	return sch, nil
}

func (repo *scheduleRepository) DeleteSchedule(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
