package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SeverityFatal, MapSeverity("fatal"))
	assert.Equal(t, SeverityError, MapSeverity("something"))
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "USER_ALREADY_EXISTS", generateErrorCode("users", UniqueViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
	assert.Equal(t, "First Name", humanizeText("first_name"))
	assert.Equal(t, "User", getEntityName("orders", "user_id"))
	assert.Equal(t, "User", getEntityName("users", ""))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Empty(t, extractColumnForUniqueViolation("pk_users"))
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "check violation",
			err:        &pgconn.PgError{Code: "23514", Severity: "ERROR", TableName: "users", ColumnName: "name"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "USER_INVALID",
		},
		{
			name:       "unique violation is a conflict",
			err:        fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_name_key"}),
			wantStatus: http.StatusConflict,
			wantCode:   "USER_ALREADY_EXISTS",
		},
		{
			name:       "not null violation",
			err:        &pgconn.PgError{Code: "23502", TableName: "users", ColumnName: "address"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "USER_REQUIRED",
		},
		{
			name:       "connection failure",
			err:        &pgconn.PgError{Code: "08006"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "no rows",
			err:        fmt.Errorf("select: %w", sql.ErrNoRows),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var problem *errs.ProblemDetails
			require.ErrorAs(t, HandleError(tc.err), &problem)
			assert.Equal(t, tc.wantStatus, problem.Status)
			assert.Equal(t, tc.wantCode, problem.Code)
		})
	}
}

func TestHandleError_PassesThroughApplicationErrors(t *testing.T) {
	t.Parallel()

	failure := errs.NewNotFoundFailure("User.NotFound", "missing")
	assert.Same(t, failure, HandleError(failure))

	problem := errs.NewProblem(http.StatusTeapot, "")
	assert.Same(t, problem, HandleError(fmt.Errorf("wrapped: %w", problem)))
}

func TestErrCode(t *testing.T) {
	t.Parallel()

	pgerr := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, ForeignKeyViolation, ErrCode(ConvertPgError(pgerr)))
	assert.Equal(t, ForeignKeyViolation, ErrCode(pgerr))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}
