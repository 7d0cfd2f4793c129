package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventops/internal/redemption"
	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code raised by the partial unique
// index when a second non-forced record is inserted for the same pair.
const uniqueViolation = "23505"

// Schema for the usage-record table. The partial unique index is the
// correctness guarantee for concurrent identical scans across stations; no
// client-side locking backs it up.
const Schema = `
CREATE TABLE IF NOT EXISTS usage_records (
	id              UUID PRIMARY KEY,
	event_id        UUID        NOT NULL,
	registration_id UUID        NOT NULL,
	option_id       UUID        NOT NULL,
	resource_type   TEXT        NOT NULL,
	ts              TIMESTAMPTZ NOT NULL,
	actor_id        UUID        NOT NULL,
	station_id      TEXT        NOT NULL DEFAULT '',
	station_device  TEXT        NOT NULL DEFAULT '',
	forced          BOOLEAN     NOT NULL DEFAULT FALSE
);

CREATE UNIQUE INDEX IF NOT EXISTS usage_records_once_per_pair
	ON usage_records (registration_id, option_id)
	WHERE NOT forced;

CREATE INDEX IF NOT EXISTS usage_records_by_option
	ON usage_records (event_id, option_id, ts);
`

// PostgresStore persists usage records via pgx. This is the hot path of the
// scan pipeline, so it talks to the pool directly instead of database/sql.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the usage-record table and indexes if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure usage_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *redemption.UsageRecord) error {
	query := `
		INSERT INTO usage_records (
			id, event_id, registration_id, option_id, resource_type,
			ts, actor_id, station_id, station_device, forced
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.pool.Exec(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.EventID),
		uuid.UUID(rec.RegistrationID),
		uuid.UUID(rec.OptionID),
		rec.Type.String(),
		rec.Timestamp,
		uuid.UUID(rec.ActorID),
		rec.StationID,
		rec.StationDevice,
		rec.Forced,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

const recordColumns = `
	id, event_id, registration_id, option_id, resource_type,
	ts, actor_id, station_id, station_device, forced
`

func (s *PostgresStore) FindNonForced(ctx context.Context, registrationID domain.RegistrationID, optionID domain.OptionID) (*redemption.UsageRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM usage_records
		WHERE registration_id = $1 AND option_id = $2 AND NOT forced
	`
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, uuid.UUID(registrationID), uuid.UUID(optionID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find non-forced record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByOption(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) ([]*redemption.UsageRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM usage_records
		WHERE event_id = $1 AND option_id = $2
		ORDER BY ts
	`
	rows, err := s.pool.Query(ctx, query, uuid.UUID(eventID), uuid.UUID(optionID))
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	defer rows.Close()

	var out []*redemption.UsageRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage records: %w", err)
	}
	return out, nil
}

// Aggregate computes statistics in a single query; records are never trusted
// to a client-side counter.
func (s *PostgresStore) Aggregate(ctx context.Context, eventID domain.EventID, optionID domain.OptionID, todayStart time.Time) (*redemption.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE ts >= $3),
			COUNT(DISTINCT registration_id)
		FROM usage_records
		WHERE event_id = $1 AND option_id = $2
	`
	stats := &redemption.Stats{}
	err := s.pool.QueryRow(ctx, query, uuid.UUID(eventID), uuid.UUID(optionID), todayStart).
		Scan(&stats.Count, &stats.Today, &stats.UniqueAttendees)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage records: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*redemption.UsageRecord, error) {
	var (
		rec                                  redemption.UsageRecord
		recID, eventID, regID, optID, actID  uuid.UUID
		rawType                              string
	)
	err := row.Scan(
		&recID, &eventID, &regID, &optID, &rawType,
		&rec.Timestamp, &actID, &rec.StationID, &rec.StationDevice, &rec.Forced,
	)
	if err != nil {
		return nil, err
	}
	rec.ID = domain.RecordID(recID)
	rec.EventID = domain.EventID(eventID)
	rec.RegistrationID = domain.RegistrationID(regID)
	rec.OptionID = domain.OptionID(optID)
	rec.Type = domain.ResourceType(rawType)
	rec.ActorID = domain.ActorID(actID)
	return &rec, nil
}
