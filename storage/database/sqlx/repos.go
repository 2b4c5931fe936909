// Package sqlxrepos implements the repositories on PostgreSQL via sqlx.
//
// Queries are written with `?` placeholders and rebound to the postgres
// bindvar style; slice arguments go through sqlx.In first.
package sqlxrepos

import (
	"github.com/jmoiron/sqlx"

	"github.com/darasa-app/darasa/core"
)

// getExec picks the service-provided executor (usually a transaction) over
// the repository default.
func getExec(def core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return def
}

func bind(q string) string {
	return sqlx.Rebind(sqlx.DOLLAR, q)
}
