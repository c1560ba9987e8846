package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-tracker-api/internal/config"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.Config{
		DBDriver: "mysql", DBUser: "app", DBPass: "pw",
		DBHost: "db", DBPort: "3306", DBName: "todo",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:pw@tcp(db:3306)/todo")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "clientFoundRows=true")

	dsn, err = DSN(config.Config{DBDriver: "sqlite3", SQLitePath: "./todo_api.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:./todo_api.db?_foreign_keys=on&_busy_timeout=5000", dsn)

	_, err = DSN(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_RunsEveryStatement(t *testing.T) {
	for _, driver := range []string{"mysql", "sqlite3"} {
		t.Run(driver, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			stmts := mysqlSchema
			if driver == "sqlite3" {
				stmts = sqliteSchema
			}
			for range stmts {
				mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
			}

			require.NoError(t, Migrate(context.Background(), db, driver))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db, "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate step 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
