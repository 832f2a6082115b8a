package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"layanan_publik_tracker/internal/domain/notification"

	"github.com/google/uuid"
)

type PostgresNotificationLogRepository struct {
	db *sql.DB
}

func NewPostgresNotificationLogRepository(db *sql.DB) *PostgresNotificationLogRepository {
	return &PostgresNotificationLogRepository{db: db}
}

func (r *PostgresNotificationLogRepository) Create(ctx context.Context, l *notification.Log) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	payload, err := json.Marshal(l.Payload)
	if err != nil {
		return fmt.Errorf("error encoding notification payload: %w", err)
	}

	query := `INSERT INTO notification_logs (id, submission_id, channel, send_status, payload)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query, l.ID, l.SubmissionID, l.Channel, l.SendStatus, payload).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification log: %w", err)
	}
	return nil
}

func (r *PostgresNotificationLogRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*notification.Log, error) {
	query := `SELECT id, submission_id, channel, send_status, payload, created_at
               FROM notification_logs
               WHERE submission_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("error listing notification logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*notification.Log, 0)
	for rows.Next() {
		l := new(notification.Log)
		var payload []byte
		if err := rows.Scan(&l.ID, &l.SubmissionID, &l.Channel, &l.SendStatus, &payload, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification log row: %w", err)
		}
		if err := json.Unmarshal(payload, &l.Payload); err != nil {
			return nil, fmt.Errorf("error decoding notification payload: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification log rows: %w", err)
	}
	return logs, nil
}
