package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*SqlxDatabase, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual), sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return NewSqlxDatabase(sqlx.NewDb(db, "godror")), mock
}

func TestSqlxDatabaseExec(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("BEGIN p(x_a => :1); END;").
		WithArgs("A").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := db.ExecContext(ctx, "BEGIN p(x_a => :1); END;", "A")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "godror", db.DriverName())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlxDatabasePrepare(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	prep := mock.ExpectPrepare("BEGIN p(x_a => :1); END;")
	prep.ExpectExec().WithArgs("A").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.WillBeClosed()

	stmt, err := db.PrepareContext(ctx, "BEGIN p(x_a => :1); END;")
	require.NoError(t, err)
	_, err = stmt.ExecContext(ctx, "A")
	require.NoError(t, err)
	require.NoError(t, stmt.Close())

	mock.ExpectPing()
	require.NoError(t, db.PingContext(ctx))

	mock.ExpectClose()
	require.NoError(t, db.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxDatabasePrepareUnsupported(t *testing.T) {
	var db PgxDatabase
	_, err := db.PrepareContext(context.Background(), "CALL p()")
	assert.ErrorIs(t, err, ErrPrepareUnsupported)
}
