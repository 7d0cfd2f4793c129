package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"eventops/pkg/domain"
	"eventops/pkg/platform/sentinel"
)

// PostgresStore resolves registrations and their category entitlements from
// PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const registrationColumns = `
	r.id, r.event_id, r.code, r.full_name, r.email, c.id, c.name
`

func (s *PostgresStore) FindByCode(ctx context.Context, eventID domain.EventID, code string) (*Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations r
		JOIN categories c ON c.id = r.category_id
		WHERE r.event_id = $1 AND r.code = $2
	`
	return s.findOne(ctx, query, uuid.UUID(eventID), code)
}

func (s *PostgresStore) FindByID(ctx context.Context, eventID domain.EventID, regID domain.RegistrationID) (*Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations r
		JOIN categories c ON c.id = r.category_id
		WHERE r.event_id = $1 AND r.id = $2
	`
	return s.findOne(ctx, query, uuid.UUID(eventID), uuid.UUID(regID))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*Registration, error) {
	var (
		reg        Registration
		regUUID    uuid.UUID
		eventUUID  uuid.UUID
		categoryID string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&regUUID, &eventUUID, &reg.Code, &reg.FullName, &reg.Email,
		&categoryID, &reg.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	reg.ID = domain.RegistrationID(regUUID)
	reg.EventID = domain.EventID(eventUUID)
	reg.CategoryID = categoryID

	entitlements, err := s.loadEntitlements(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	reg.Entitlements = entitlements
	return &reg, nil
}

// loadEntitlements reads the category's per-type option allowlists.
// A category with no rows for a type is unrestricted for that type.
func (s *PostgresStore) loadEntitlements(ctx context.Context, categoryID string) (map[domain.ResourceType][]domain.OptionID, error) {
	query := `
		SELECT resource_type, option_id
		FROM category_entitlements
		WHERE category_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load entitlements: %w", err)
	}
	defer rows.Close()

	entitlements := make(map[domain.ResourceType][]domain.OptionID)
	for rows.Next() {
		var (
			rawType    string
			optionUUID uuid.UUID
		)
		if err := rows.Scan(&rawType, &optionUUID); err != nil {
			return nil, fmt.Errorf("scan entitlement: %w", err)
		}
		resourceType := domain.ResourceType(rawType)
		entitlements[resourceType] = append(entitlements[resourceType], domain.OptionID(optionUUID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entitlements: %w", err)
	}
	return entitlements, nil
}
