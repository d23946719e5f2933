package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstate classes the posts store can run into
var sqlStates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation: a referenced persona or project is gone
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation, e.g. a malformed uuid
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// contention states are worth one more attempt of the whole transaction
var contention = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

// driver text for the same conditions when no PgError survives, e.g. on commit
var transientText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// DBErrorCode classifies a postgres error; ok is false when err carries no PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pe, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if code, known := sqlStates[pe.Code]; known {
		return code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres codes a store error and prefixes it with msg; nil stays nil
// already coded errors, like ErrNotFound from store.One, keep their code
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
		if e, coded := As(err); coded {
			code = e.code
		}
	}
	return Wrap(err, code, msg)
}

func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// FromPostgresWithField is FromPostgres plus the offending column when postgres reports one
func FromPostgresWithField(err error, msg string) error {
	err = FromPostgres(err, msg)
	pe, ok := pgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pe.ColumnName); col != "" {
		return WithField(err, col)
	}
	// artifacts_persona_id_fkey -> persona_id
	c := strings.TrimPrefix(pe.ConstraintName, pe.TableName+"_")
	c = strings.TrimSuffix(strings.TrimSuffix(c, "_fkey"), "_key")
	if c != "" && c != pe.ConstraintName {
		return WithField(err, c)
	}
	return err
}

// IsRetryable reports a transient database condition; context cancellation never is
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		return contention[pe.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range transientText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
