package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
)

var ErrNotFound = errors.New("schedule not found")

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sch Schedule, exec ...core.DBExecutor) (Schedule, error)
		// QueryAllSchedules returns schedules ordered by day then start time.
		QueryAllSchedules(ctx context.Context, exec ...core.DBExecutor) ([]Schedule, error)
		GetScheduleByID(ctx context.Context, id string, exec ...core.DBExecutor) (Schedule, error)
		UpdateSchedule(ctx context.Context, sch Schedule, exec ...core.DBExecutor) (Schedule, error)
		DeleteSchedule(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		QueryAll(ctx context.Context) ([]Schedule, error)
		Create(ctx context.Context, actor user.User, ns NewSchedule) (Schedule, error)
		Update(ctx context.Context, actor user.User, id string, ns NewSchedule) (Schedule, error)
		Delete(ctx context.Context, actor user.User, id string) error
	}

	service struct {
		db       core.DB
		repo     Repository
		auditSvc audit.Service
		cache    core.ViewCache
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, auditSvc audit.Service, cache core.ViewCache) *service {
	return &service{db: db, repo: repo, auditSvc: auditSvc, cache: cache}
}

func (svc *service) QueryAll(ctx context.Context) ([]Schedule, error) {
	return svc.repo.QueryAllSchedules(ctx)
}

func (svc *service) Create(ctx context.Context, actor user.User, ns NewSchedule) (Schedule, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Schedule{}, err
	}

	var created Schedule
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		now := time.Now().UTC()
		sch := Schedule{
			Day:       ns.Day,
			Subject:   ns.Subject,
			StartTime: ns.StartTime,
			EndTime:   ns.EndTime,
			Teacher:   ns.Teacher,
			CreatedAt: now,
			UpdatedAt: now,
		}
		var txErr error
		if created, txErr = svc.repo.CreateSchedule(ctx, sch, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "creating schedule")
		}
		details := fmt.Sprintf("added %s to the %s timetable", created.Subject, created.Day)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionCreateSchedule, details, tx)
	})
	if err != nil {
		return Schedule{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewSchedules, core.ViewHome)
	return created, nil
}

func (svc *service) Update(ctx context.Context, actor user.User, id string, ns NewSchedule) (Schedule, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Schedule{}, err
	}
	sch, err := svc.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}

	var updated Schedule
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		sch.Day = ns.Day
		sch.Subject = ns.Subject
		sch.StartTime = ns.StartTime
		sch.EndTime = ns.EndTime
		sch.Teacher = ns.Teacher
		sch.UpdatedAt = time.Now().UTC()
		var txErr error
		if updated, txErr = svc.repo.UpdateSchedule(ctx, sch, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating schedule")
		}
		details := fmt.Sprintf("updated %s on the %s timetable", updated.Subject, updated.Day)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionUpdateSchedule, details, tx)
	})
	if err != nil {
		return Schedule{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewSchedules, core.ViewHome)
	return updated, nil
}

func (svc *service) Delete(ctx context.Context, actor user.User, id string) error {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return err
	}
	sch, err := svc.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return err
	}

	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if txErr := svc.repo.DeleteSchedule(ctx, sch.ID, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "deleting schedule")
		}
		details := fmt.Sprintf("removed %s from the %s timetable", sch.Subject, sch.Day)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionDeleteSchedule, details, tx)
	})
	if err != nil {
		return err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewSchedules, core.ViewHome)
	return nil
}
