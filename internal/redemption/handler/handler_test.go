package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"eventops/internal/platform/metrics"
	"eventops/internal/redemption"
	"eventops/internal/redemption/handler/mocks"
	"eventops/internal/redemption/service"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/testutil"
)

type RedemptionHandlerSuite struct {
	suite.Suite

	eventID  domain.EventID
	optionID domain.OptionID
	actorID  string
}

func TestRedemptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(RedemptionHandlerSuite))
}

func (s *RedemptionHandlerSuite) SetupTest() {
	s.eventID = domain.EventID(uuid.New())
	s.optionID = domain.OptionID(uuid.New())
	s.actorID = uuid.NewString()
}

func (s *RedemptionHandlerSuite) newHandler() (*Handler, *mocks.MockService) {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(mockService, logger, metrics.NewWithRegistry(prometheus.NewRegistry()), nil)
	return h, mockService
}

func (s *RedemptionHandlerSuite) postJSON(path string, body any) *http.Request {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, body)
	return testutil.WithOperator(req, s.actorID, "station-3")
}

func (s *RedemptionHandlerSuite) TestHandleValidateAllowed() {
	h, mockService := s.newHandler()
	mockService.EXPECT().
		ValidateScan(gomock.Any(), s.eventID, domain.ResourceFood, s.optionID, "QR-1").
		Return(&service.ValidateResult{Allowed: true}, nil)

	req := s.postJSON("/scan/validate", scanRequest{
		EventID:      s.eventID,
		ResourceType: domain.ResourceFood,
		OptionID:     s.optionID,
		Code:         "QR-1",
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleValidate), req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[service.ValidateResult](s.T(), rr)
	assert.True(s.T(), resp.Allowed)
}

func (s *RedemptionHandlerSuite) TestHandleValidateUnresolvedCode() {
	h, mockService := s.newHandler()
	mockService.EXPECT().
		ValidateScan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnresolvedCode, "code does not map to a known registration"))

	req := s.postJSON("/scan/validate", scanRequest{
		EventID:      s.eventID,
		ResourceType: domain.ResourceFood,
		OptionID:     s.optionID,
		Code:         "QR-unknown",
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleValidate), req)

	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	resp := testutil.UnmarshalErrorResponse(s.T(), rr)
	assert.Equal(s.T(), string(dErrors.CodeUnresolvedCode), resp["error"])
}

func (s *RedemptionHandlerSuite) TestHandleValidateRejectsBadType() {
	h, _ := s.newHandler()

	req := s.postJSON("/scan/validate", map[string]any{
		"event_id":      s.eventID,
		"resource_type": "swag",
		"option_id":     s.optionID,
		"code":          "QR-1",
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleValidate), req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *RedemptionHandlerSuite) TestHandleRecordCreated() {
	h, mockService := s.newHandler()
	record := &redemption.UsageRecord{ID: domain.NewRecordID()}
	mockService.EXPECT().
		Record(gomock.Any(), service.RecordByCode{
			EventID:  s.eventID,
			Type:     domain.ResourceKit,
			OptionID: s.optionID,
			Code:     "QR-2",
		}).
		Return(&redemption.RecordResult{Status: redemption.StatusRecorded, Record: record}, nil)

	req := s.postJSON("/scan/record", scanRequest{
		EventID:      s.eventID,
		ResourceType: domain.ResourceKit,
		OptionID:     s.optionID,
		Code:         "QR-2",
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleRecord), req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
}

func (s *RedemptionHandlerSuite) TestHandleRecordDuplicateIsConflict() {
	h, mockService := s.newHandler()
	existing := &redemption.UsageRecord{ID: domain.NewRecordID()}
	mockService.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		Return(&redemption.RecordResult{Status: redemption.StatusDuplicate, Existing: existing}, nil)

	req := s.postJSON("/scan/record", scanRequest{
		EventID:      s.eventID,
		ResourceType: domain.ResourceKit,
		OptionID:     s.optionID,
		Code:         "QR-3",
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleRecord), req)

	testutil.AssertStatus(s.T(), rr, http.StatusConflict)
	resp := testutil.UnmarshalResponse[redemption.RecordResult](s.T(), rr)
	assert.Equal(s.T(), redemption.StatusDuplicate, resp.Status)
	assert.Equal(s.T(), existing.ID, resp.Existing.ID)
}

func (s *RedemptionHandlerSuite) TestHandleRecordForcedFlagPassedThrough() {
	h, mockService := s.newHandler()
	mockService.EXPECT().
		Record(gomock.Any(), service.RecordByCode{
			EventID:  s.eventID,
			Type:     domain.ResourceKit,
			OptionID: s.optionID,
			Code:     "QR-4",
			Force:    true,
		}).
		Return(&redemption.RecordResult{Status: redemption.StatusRecorded, Record: &redemption.UsageRecord{ID: domain.NewRecordID(), Forced: true}}, nil)

	req := s.postJSON("/scan/record", scanRequest{
		EventID:      s.eventID,
		ResourceType: domain.ResourceKit,
		OptionID:     s.optionID,
		Code:         "QR-4",
		Force:        true,
	})
	rr := testutil.DoRequest(http.HandlerFunc(h.handleRecord), req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
}

func (s *RedemptionHandlerSuite) TestHandleStatistics() {
	h, mockService := s.newHandler()
	mockService.EXPECT().
		Statistics(gomock.Any(), s.eventID, s.optionID).
		Return(&redemption.Stats{Count: 42, Today: 7, UniqueAttendees: 40}, nil)

	req := s.statisticsRequest(s.optionID.String())
	rr := testutil.DoRequest(http.HandlerFunc(h.handleStatistics), req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	stats := testutil.UnmarshalResponse[redemption.Stats](s.T(), rr)
	assert.Equal(s.T(), 42, stats.Count)
	assert.Equal(s.T(), 7, stats.Today)
	assert.Equal(s.T(), 40, stats.UniqueAttendees)
}

func (s *RedemptionHandlerSuite) TestHandleStatisticsBadOptionID() {
	h, _ := s.newHandler()

	req := s.statisticsRequest("not-a-uuid")
	rr := testutil.DoRequest(http.HandlerFunc(h.handleStatistics), req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

// statisticsRequest builds a GET with the chi route param the handler reads.
func (s *RedemptionHandlerSuite) statisticsRequest(optionID string) *http.Request {
	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/options/"+optionID+"/statistics?event_id="+s.eventID.String())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("optionID", optionID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
