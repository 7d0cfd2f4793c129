//go:build integration

package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"eventops/pkg/domain"
	"eventops/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite

	ctx   context.Context
	db    *sql.DB
	store *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	pg := containers.NewPostgresContainer(s.T())

	db, err := sql.Open("postgres", pg.DSN)
	require.NoError(s.T(), err)
	s.db = db
	s.store = NewPostgresStore(db)
	require.NoError(s.T(), s.store.EnsureSchema(s.ctx))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *PostgresStoreSuite) event(registrationID domain.RegistrationID, action Action, ts time.Time) Event {
	return Event{
		ID:             uuid.New(),
		Action:         action,
		EventID:        domain.EventID(uuid.New()),
		RegistrationID: registrationID,
		OptionID:       domain.OptionID(uuid.New()),
		ActorID:        domain.ActorID(uuid.New()),
		StationID:      "station-it",
		StationDevice:  "Firefox on Linux",
		Timestamp:      ts.UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestAppendAndListRoundtrip() {
	registrationID := domain.RegistrationID(uuid.New())
	base := time.Now()

	later := s.event(registrationID, ActionForcedReissue, base.Add(time.Minute))
	earlier := s.event(registrationID, ActionUsageRecorded, base)
	require.NoError(s.T(), s.store.Append(s.ctx, later))
	require.NoError(s.T(), s.store.Append(s.ctx, earlier))

	events, err := s.store.ListByRegistration(s.ctx, registrationID)
	require.NoError(s.T(), err)
	require.Len(s.T(), events, 2)
	require.Equal(s.T(), ActionUsageRecorded, events[0].Action, "events come back in timestamp order")
	require.Equal(s.T(), ActionForcedReissue, events[1].Action)
	require.Equal(s.T(), earlier.StationDevice, events[0].StationDevice)
	require.Equal(s.T(), earlier.OptionID, events[0].OptionID)
}

func (s *PostgresStoreSuite) TestAppendIsIdempotentOnID() {
	registrationID := domain.RegistrationID(uuid.New())
	event := s.event(registrationID, ActionDuplicateDetected, time.Now())

	require.NoError(s.T(), s.store.Append(s.ctx, event))
	require.NoError(s.T(), s.store.Append(s.ctx, event))

	events, err := s.store.ListByRegistration(s.ctx, registrationID)
	require.NoError(s.T(), err)
	require.Len(s.T(), events, 1)
}

func (s *PostgresStoreSuite) TestListUnknownRegistrationIsEmpty() {
	events, err := s.store.ListByRegistration(s.ctx, domain.RegistrationID(uuid.New()))
	require.NoError(s.T(), err)
	require.Empty(s.T(), events)
}

func (s *PostgresStoreSuite) TestNilOptionIDRoundtrip() {
	registrationID := domain.RegistrationID(uuid.New())
	event := s.event(registrationID, ActionIssuanceBlocked, time.Now())
	event.OptionID = domain.OptionID{}

	require.NoError(s.T(), s.store.Append(s.ctx, event))

	events, err := s.store.ListByRegistration(s.ctx, registrationID)
	require.NoError(s.T(), err)
	require.Len(s.T(), events, 1)
	require.True(s.T(), events[0].OptionID.IsNil())
}
