package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"eventops/pkg/domain"
)

// Schema for the audit-event table. Append-only; the registration index
// serves the per-attendee trail query.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id              UUID PRIMARY KEY,
	action          TEXT        NOT NULL,
	event_id        UUID        NOT NULL,
	registration_id UUID        NOT NULL,
	option_id       UUID,
	record_id       TEXT        NOT NULL DEFAULT '',
	actor_id        UUID        NOT NULL,
	station_id      TEXT        NOT NULL DEFAULT '',
	station_device  TEXT        NOT NULL DEFAULT '',
	ts              TIMESTAMPTZ NOT NULL,
	detail          TEXT        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_by_registration
	ON audit_events (registration_id, ts);
`

// PostgresStore persists audit events in an append-only table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table and index if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure audit_events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (
			id, action, event_id, registration_id, option_id, record_id,
			actor_id, station_id, station_device, ts, detail
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	var optionID any
	if !event.OptionID.IsNil() {
		optionID = uuid.UUID(event.OptionID)
	}
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Action),
		uuid.UUID(event.EventID),
		uuid.UUID(event.RegistrationID),
		optionID,
		event.RecordID,
		uuid.UUID(event.ActorID),
		event.StationID,
		event.StationDevice,
		event.Timestamp,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRegistration(ctx context.Context, registrationID domain.RegistrationID) ([]Event, error) {
	query := `
		SELECT id, action, event_id, registration_id, option_id, record_id,
			actor_id, station_id, station_device, ts, detail
		FROM audit_events
		WHERE registration_id = $1
		ORDER BY ts
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(registrationID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e                      Event
			rawAction              string
			eventID, regID, actID  uuid.UUID
			optionID               uuid.NullUUID
		)
		err := rows.Scan(&e.ID, &rawAction, &eventID, &regID, &optionID, &e.RecordID,
			&actID, &e.StationID, &e.StationDevice, &e.Timestamp, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(rawAction)
		e.EventID = domain.EventID(eventID)
		e.RegistrationID = domain.RegistrationID(regID)
		e.ActorID = domain.ActorID(actID)
		if optionID.Valid {
			e.OptionID = domain.OptionID(optionID.UUID)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
