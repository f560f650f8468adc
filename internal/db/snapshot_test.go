package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/slashbot/internal/store"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRunMigrations(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	err := NewFromPool(mock).RunMigrations(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Error(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").
		WillReturnError(errors.New("permission denied"))

	err := NewFromPool(mock).RunMigrations(context.Background())

	assert.ErrorContains(t, err, "failed to create snapshots table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshot_Read(t *testing.T) {
	tests := []struct {
		name        string
		mockRows    *pgxmock.Rows
		mockError   error
		expected    string
		expectedErr error
		wantErr     bool
	}{
		{
			name:     "found",
			mockRows: pgxmock.NewRows([]string{"body"}).AddRow(`{"alice":2}`),
			expected: `{"alice":2}`,
		},
		{
			name:        "missing row",
			mockError:   pgx.ErrNoRows,
			expectedErr: store.ErrNotFound,
			wantErr:     true,
		},
		{
			name:      "query failure",
			mockError: errors.New("connection reset"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)

			query := mock.ExpectQuery("SELECT body FROM snapshots WHERE name = \\$1").WithArgs("coffee")
			if tt.mockError != nil {
				query.WillReturnError(tt.mockError)
			} else {
				query.WillReturnRows(tt.mockRows)
			}

			data, err := NewFromPool(mock).Snapshot("coffee").Read(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				} else {
					assert.NotErrorIs(t, err, store.ErrNotFound)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, string(data))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSnapshot_Write(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs("meme", `{"k":"v"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs("meme", `{}`).
		WillReturnError(errors.New("read-only transaction"))

	s := NewFromPool(mock).Snapshot("meme")

	assert.NoError(t, s.Write(context.Background(), []byte(`{"k":"v"}`)))
	assert.Error(t, s.Write(context.Background(), []byte(`{}`)))
	assert.Equal(t, "postgres:snapshots/meme", s.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}
