package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// PostgresStore reads templates from PostgreSQL. Field bindings live in a
// jsonb column; the configuration screens that write them are external.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindTemplate(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID) (*Template, error) {
	query := `
		SELECT id, event_id, name, fields
		FROM certificate_templates
		WHERE event_id = $1 AND id = $2
	`
	var (
		tmplUUID, eventUUID uuid.UUID
		name                string
		rawFields           []byte
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(templateID)).
		Scan(&tmplUUID, &eventUUID, &name, &rawFields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find certificate template: %w", err)
	}

	var fields []TemplateField
	if err := json.Unmarshal(rawFields, &fields); err != nil {
		return nil, fmt.Errorf("decode template fields: %w", err)
	}

	return &Template{
		ID:      domain.TemplateID(tmplUUID),
		EventID: domain.EventID(eventUUID),
		Name:    name,
		Fields:  fields,
	}, nil
}
