package repository

import (
	"roomsense/internal/infra"
)

func infraNotFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}
