package repository

import (
	"context"
	"time"

	"roomsense/internal/infra/db"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

const createNotificationJobSQL = `
INSERT INTO notification_jobs (kind, topic, payload, run_at)
VALUES ($1, $2, $3, $4)`

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if _, err := dbtx.Exec(ctx, createNotificationJobSQL, kind, topic, payload, runAt); err != nil {
		return wrapPgErr("failed to enqueue notification job", err)
	}

	return nil
}
