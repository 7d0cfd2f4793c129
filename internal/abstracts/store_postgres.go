package abstracts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// PostgresStore reads abstracts from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const abstractColumns = `
	id, event_id, registration_id, status, title, authors, category
`

func (s *PostgresStore) ListApproved(ctx context.Context, eventID domain.EventID, registrationID domain.RegistrationID) ([]*Abstract, error) {
	query := `
		SELECT ` + abstractColumns + `
		FROM abstracts
		WHERE event_id = $1 AND registration_id = $2 AND status = $3
		ORDER BY title
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID), uuid.UUID(registrationID), string(StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("list approved abstracts: %w", err)
	}
	defer rows.Close()

	var out []*Abstract
	for rows.Next() {
		a, err := scanAbstract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan abstract: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate abstracts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindApproved(ctx context.Context, eventID domain.EventID, abstractID domain.AbstractID) (*Abstract, error) {
	query := `
		SELECT ` + abstractColumns + `
		FROM abstracts
		WHERE event_id = $1 AND id = $2 AND status = $3
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(abstractID), string(StatusApproved))
	a, err := scanAbstract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find approved abstract: %w", err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAbstract(row rowScanner) (*Abstract, error) {
	var (
		a                    Abstract
		absID, eventID, regID uuid.UUID
		rawStatus            string
	)
	err := row.Scan(&absID, &eventID, &regID, &rawStatus, &a.Title, &a.Authors, &a.Category)
	if err != nil {
		return nil, err
	}
	a.ID = domain.AbstractID(absID)
	a.EventID = domain.EventID(eventID)
	a.RegistrationID = domain.RegistrationID(regID)
	a.Status = Status(rawStatus)
	return &a, nil
}
