// Package inmemdb provides map-backed repositories for tests.
package inmemdb

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/gallery"
	"github.com/darasa-app/darasa/core/officer"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
)

var errNotSupported = errors.New("inmemdb: raw SQL not supported")

type (
	DB struct {
		user       *userTable
		audit      *auditTable
		broadcast  *broadcastTable
		settings   *settingsTable
		schedule   *scheduleTable
		assignment *assignmentTable
		gallery    *galleryTable
		officer    *officerTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	auditTable struct {
		sync.RWMutex
		entries []audit.Entry // insertion order
	}

	broadcastTable struct {
		sync.RWMutex
		table map[string]*broadcast.Broadcast
	}

	settingsTable struct {
		sync.RWMutex
		row *settings.Settings
	}

	scheduleTable struct {
		sync.RWMutex
		table map[string]*schedule.Schedule
	}

	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
	}

	galleryTable struct {
		sync.RWMutex
		table map[string]*gallery.Photo
	}

	officerTable struct {
		sync.RWMutex
		table map[string]*officer.Officer
	}
)

var _ core.DB = (*DB)(nil)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		audit:      &auditTable{},
		broadcast:  &broadcastTable{table: make(map[string]*broadcast.Broadcast)},
		settings:   &settingsTable{},
		schedule:   &scheduleTable{table: make(map[string]*schedule.Schedule)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		gallery:    &galleryTable{table: make(map[string]*gallery.Photo)},
		officer:    &officerTable{table: make(map[string]*officer.Officer)},
	}
}

// BeginTx hands out a no-op transaction; writes apply immediately.
func (db *DB) BeginTx(context.Context, *sql.TxOptions) (core.DBTransactor, error) {
	return nopTx{db}, nil
}

type nopTx struct{ *DB }

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func (db *DB) Exec(string, ...interface{}) (sql.Result, error) { return nil, errNotSupported }
func (db *DB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNotSupported
}
func (db *DB) Query(string, ...interface{}) (*sql.Rows, error) { return nil, errNotSupported }
func (db *DB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNotSupported
}
func (db *DB) QueryRow(string, ...interface{}) *sql.Row                           { return nil }
func (db *DB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row   { return nil }
