package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrilog/internal/activity/models"
	id "agrilog/pkg/domain"
)

// PostgresStore implements ports.HistoryStore on pgx. Records are append-only;
// there is deliberately no update or delete surface.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is applied by the operator (or the integration test); kept here so
// the store and its table stay in one file.
const Schema = `
CREATE TABLE IF NOT EXISTS activities (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	category TEXT NOT NULL,
	crop TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	accuracy_meters DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	credits INTEGER NOT NULL,
	verification_status TEXT NOT NULL,
	fraud_score INTEGER NOT NULL,
	reasons TEXT[] NOT NULL DEFAULT '{}',
	flagged BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS activities_user_created_idx ON activities (user_id, created_at DESC);
`

func (s *PostgresStore) Append(ctx context.Context, record *models.ActivityRecord) error {
	var lat, lon, acc *float64
	if record.Location != nil {
		lat = &record.Location.Latitude
		lon = &record.Location.Longitude
		acc = &record.Location.AccuracyMeters
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (
			id, user_id, category, crop, area,
			latitude, longitude, accuracy_meters,
			created_at, credits, verification_status, fraud_score, reasons, flagged
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		uuid.UUID(record.ID), uuid.UUID(record.UserID), record.Category, record.Crop, record.Area,
		lat, lon, acc,
		record.CreatedAt, record.Credits, record.Status, record.FraudScore, record.Reasons, record.Flagged,
	)
	return err
}

func (s *PostgresStore) ListByUserSince(ctx context.Context, userID id.UserID, since time.Time) ([]*models.ActivityRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, category, crop, area,
		       latitude, longitude, accuracy_meters,
		       created_at, credits, verification_status, fraud_score, reasons, flagged
		FROM activities
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`,
		uuid.UUID(userID), since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresStore) CountByUserSince(ctx context.Context, userID id.UserID, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM activities WHERE user_id = $1 AND created_at >= $2`,
		uuid.UUID(userID), since,
	).Scan(&count)
	return count, err
}

func (s *PostgresStore) ListRecent(ctx context.Context, userID id.UserID, limit int) ([]*models.ActivityRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, category, crop, area,
		       latitude, longitude, accuracy_meters,
		       created_at, credits, verification_status, fraud_score, reasons, flagged
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		uuid.UUID(userID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*models.ActivityRecord, error) {
	var out []*models.ActivityRecord
	for rows.Next() {
		var (
			record        models.ActivityRecord
			recordID      uuid.UUID
			recordUserID  uuid.UUID
			lat, lon, acc *float64
		)
		if err := rows.Scan(
			&recordID, &recordUserID, &record.Category, &record.Crop, &record.Area,
			&lat, &lon, &acc,
			&record.CreatedAt, &record.Credits, &record.Status, &record.FraudScore, &record.Reasons, &record.Flagged,
		); err != nil {
			return nil, err
		}
		record.ID = id.ActivityID(recordID)
		record.UserID = id.UserID(recordUserID)
		if lat != nil && lon != nil {
			record.Location = &models.Location{Latitude: *lat, Longitude: *lon}
			if acc != nil {
				record.Location.AccuracyMeters = *acc
			}
		}
		out = append(out, &record)
	}
	return out, rows.Err()
}
