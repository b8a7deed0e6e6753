package repository

import (
	"errors"

	"roomsense/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

// classifyPgErr maps driver-level failures onto repository error kinds so
// the usecase layer never string-matches engine messages.
func classifyPgErr(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.KindDuplicateKey
		case pgErrCodeForeignKeyViolated:
			return infra.KindForeignKeyViolated
		case pgErrCodeExclusionViolation:
			return infra.KindConflict
		}
	}
	return infra.KindDBFailure
}

func wrapPgErr(msg string, err error) error {
	return infra.WrapRepoErr(msg, err, classifyPgErr(err))
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
