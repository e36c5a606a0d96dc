package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{
			name:   "no rows maps to not found",
			err:    sql.ErrNoRows,
			wantIs: store.ErrNotFound,
		},
		{
			name:   "wrapped no rows maps to not found",
			err:    fmt.Errorf("query: %w", sql.ErrNoRows),
			wantIs: store.ErrNotFound,
		},
		{
			name:   "unique violation maps to duplicate",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"},
			wantIs: store.ErrDuplicate,
		},
		{
			name:   "foreign key violation maps to invalid entity",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_user_id_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check violation maps to invalid entity",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "not null violation maps to invalid entity",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			wantIs: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.wantIs)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	assert.NoError(t, MapError(nil))

	unknown := errors.New("network unreachable")
	assert.Equal(t, unknown, MapError(unknown))

	otherPg := &pgconn.PgError{Code: "42P01"} // undefined_table
	assert.Equal(t, error(otherPg), MapError(otherPg))
}

func TestIsViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
}

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrUserNotFound))

	err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrUserNotFound)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	assert.Error(t, CheckRowsAffected(nil, store.ErrUserNotFound))
}
