package database

import (
	"context"
	"errors"
	"testing"

	"todo-app/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateOrCreateSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "todos"`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, MigrateOrCreateSchema(context.Background(), db, "todos"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateOrCreateSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))
	err = MigrateOrCreateSchema(context.Background(), db, "todos")
	assert.ErrorContains(t, err, "permission denied")
}

func TestOpenPostgres_RequiresURL(t *testing.T) {
	_, err := OpenPostgres(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
