package readstore

import (
	"errors"

	"roomsense/internal/infra"

	"github.com/jackc/pgx/v5"
)

func wrapReadErr(msg string, err error) error {
	return infra.WrapRepoErr(msg, err, infra.KindDBFailure)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
