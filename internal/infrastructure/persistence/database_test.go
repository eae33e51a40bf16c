package persistence

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appinventory "github.com/smallerp/backend/internal/application/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestOpen_TranslatesErrors(t *testing.T) {
	db := newSQLiteDB(t)
	assert.True(t, db.Config.TranslateError)
	assert.True(t, db.Config.SkipDefaultTransaction)
}

func TestDatabase_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing() // gorm.Open pings once
	db, err := Open(postgres.New(postgres.Config{Conn: mockDB}), nil)
	require.NoError(t, err)
	d, err := wrap(db)
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, d.Ping(t.Context()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.ErrorContains(t, d.Ping(t.Context()), "connection refused")
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDB(t)
	d, err := wrap(db)
	require.NoError(t, err)

	mock.ExpectClose()
	assert.NoError(t, d.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := NewGormTransactionScope(db).Execute(t.Context(), func(repos appinventory.TransactionalRepositories) error {
			assert.NotNil(t, repos.ProductRepo())
			assert.NotNil(t, repos.MovementRepo())
			assert.NotNil(t, repos.SalesOrderRepo())
			assert.NotNil(t, repos.PurchaseOrderRepo())
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := NewGormTransactionScope(db).Execute(t.Context(), func(appinventory.TransactionalRepositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
