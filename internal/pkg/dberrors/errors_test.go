package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "portal_sessions_pkey"})

	assert.True(t, IsDuplicateConstraintError(err, "portal_sessions_pkey"))
	assert.False(t, IsDuplicateConstraintError(err, "other"))
	assert.False(t, IsDuplicateConstraintError(errors.New("plain"), "portal_sessions_pkey"))
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, IsUndefinedTable(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsUndefinedTable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUndefinedTable(nil))
}
