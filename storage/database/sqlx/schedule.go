package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/schedule"
)

const scheduleColumns = `id, day, subject, start_time, end_time, teacher, created_at, updated_at`

type scheduleRow struct {
	ID        string    `db:"id"`
	Day       string    `db:"day"`
	Subject   string    `db:"subject"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Teacher   string    `db:"teacher"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type scheduleRepository struct {
	exec core.DBExecutor
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(exec core.DBExecutor) *scheduleRepository {
	return &scheduleRepository{exec: exec}
}

func (repo scheduleRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]schedule.Schedule, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	defer func() { _ = rows.Close() }()

	var rws []scheduleRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning schedules")
	}
	schedules := make([]schedule.Schedule, 0, len(rws))
	for _, r := range rws {
		schedules = append(schedules, schedule.Schedule(r))
	}
	return schedules, nil
}

func (repo scheduleRepository) CreateSchedule(ctx context.Context, sch schedule.Schedule, exec ...core.DBExecutor) (schedule.Schedule, error) {
	sch.ID = uuid.New().String()
	q := bind(`INSERT INTO schedule (` + scheduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		sch.ID, sch.Day, sch.Subject, sch.StartTime, sch.EndTime, sch.Teacher, sch.CreatedAt, sch.UpdatedAt)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return sch, nil
}

func (repo scheduleRepository) QueryAllSchedules(ctx context.Context, exec ...core.DBExecutor) ([]schedule.Schedule, error) {
	// weekdays first, in calendar order
	q := `SELECT ` + scheduleColumns + ` FROM schedule
		ORDER BY array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY'], day), start_time`
	return repo.queryRows(ctx, getExec(repo.exec, exec), q)
}

func (repo scheduleRepository) GetScheduleByID(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Schedule, error) {
	if _, err := uuid.Parse(id); err != nil {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	q := bind(`SELECT ` + scheduleColumns + ` FROM schedule WHERE id = ?`)
	schedules, err := repo.queryRows(ctx, getExec(repo.exec, exec), q, id)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if len(schedules) == 0 {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	return schedules[0], nil
}

func (repo scheduleRepository) UpdateSchedule(ctx context.Context, sch schedule.Schedule, exec ...core.DBExecutor) (schedule.Schedule, error) {
	q := bind(`UPDATE schedule
		SET day = ?, subject = ?, start_time = ?, end_time = ?, teacher = ?, updated_at = ?
		WHERE id = ? RETURNING ` + scheduleColumns)
	schedules, err := repo.queryRows(ctx, getExec(repo.exec, exec), q,
		sch.Day, sch.Subject, sch.StartTime, sch.EndTime, sch.Teacher, sch.UpdatedAt, sch.ID)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if len(schedules) == 0 {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	return schedules[0], nil
}

func (repo scheduleRepository) DeleteSchedule(ctx context.Context, id string, exec ...core.DBExecutor) error {
	q := bind(`DELETE FROM schedule WHERE id = ?`)
	if _, err := getExec(repo.exec, exec).ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	return nil
}
