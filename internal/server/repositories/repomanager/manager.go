package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hrkeeper/internal/dbx"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Attendance(db dbx.DBTX) attendance.Repository
	Employees() employees.Repository
}
