package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/outagetracker/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewStoreWithDB(db), mock
}

func TestStore_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		want    string
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(model.KeyAuthToken).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))
			},
			want: "tok",
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(model.KeyAuthToken).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(model.KeyAuthToken).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("failed to get value"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			got, err := s.Get(context.Background(), model.KeyAuthToken)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case errors.Is(tt.wantErr, model.ErrNotFound):
				assert.ErrorIs(t, err, model.ErrNotFound)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
		})
	}
}

func TestStore_Set(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (key, value, updated_at)`)).
		WithArgs(model.KeyOnboardingCompleted, "true").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), model.KeyOnboardingCompleted, "true"))
}

func TestStore_Set_Error(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store`)).
		WillReturnError(errors.New("read-only transaction"))

	err := s.Set(context.Background(), model.KeyOnboardingCompleted, "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set value")
}

func TestStore_Delete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs(model.KeyUserData).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), model.KeyUserData))
}

func TestStore_Close(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectClose()

	require.NoError(t, s.Close())
	assert.NoError(t, (&Store{}).Close())
}
