package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/middleware"
	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/repository"
	"github.com/gymstack/studio-ops-api/internal/service"
)

const (
	testStudio  = "studio-1"
	testSession = "6f1e3e0a-32aa-4b5e-9f10-43cbb57b7a01"
	testMember  = "0b7ce45d-91f8-4f68-b7d2-d3a4f5f1c202"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeAttendanceRepo struct {
	checkInErr error
}

func (f *fakeAttendanceRepo) CheckIn(ctx context.Context, att *models.Attendance, decrementContractID string) error {
	if f.checkInErr != nil {
		return f.checkInErr
	}
	att.ID = "att-1"
	att.Status = models.AttendanceStatusCheckedIn
	return nil
}

func (f *fakeAttendanceRepo) FindDetailByKey(ctx context.Context, studioID, sessionID, memberID string) (*models.AttendanceDetail, error) {
	return &models.AttendanceDetail{Attendance: models.Attendance{ID: "att-existing", StudioID: studioID, SessionID: sessionID, MemberID: memberID, Status: models.AttendanceStatusCheckedIn}}, nil
}

func (f *fakeAttendanceRepo) FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	return &models.AttendanceDetail{Attendance: models.Attendance{ID: id, StudioID: studioID}}, nil
}

type fakeSessionReader struct{}

func (fakeSessionReader) FindByID(ctx context.Context, studioID, id string) (*models.Session, error) {
	return &models.Session{ID: id, StudioID: studioID, Status: models.SessionStatusScheduled}, nil
}

type fakeMemberReader struct{}

func (fakeMemberReader) FindByID(ctx context.Context, studioID, id string) (*models.Member, error) {
	return &models.Member{ID: id, StudioID: studioID, Status: models.MemberStatusActive}, nil
}

type fakeContractLister struct{}

func (fakeContractLister) ListActiveByMember(ctx context.Context, studioID, memberID string) ([]models.Contract, error) {
	return []models.Contract{{ID: "con-1", StudioID: studioID, MemberID: memberID, Status: models.ContractStatusActive, PlanTypeSnapshot: models.PlanTypeUnlimited}}, nil
}

func newCheckInHandler(repo *fakeAttendanceRepo) *AttendanceHandler {
	checkIns := service.NewCheckInService(repo, fakeSessionReader{}, fakeMemberReader{}, fakeContractLister{}, nil, nil, zap.NewNop())
	attendance := service.NewAttendanceService(&stubAttendanceRepo{}, zap.NewNop())
	return NewAttendanceHandler(checkIns, attendance)
}

type stubAttendanceRepo struct {
	lastFilter models.AttendanceFilter
}

func (s *stubAttendanceRepo) List(ctx context.Context, studioID string, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	s.lastFilter = filter
	return nil, 0, nil
}

func (s *stubAttendanceRepo) FindByID(ctx context.Context, studioID, id string) (*models.Attendance, error) {
	return &models.Attendance{ID: id, StudioID: studioID, Status: models.AttendanceStatusCheckedIn}, nil
}

func (s *stubAttendanceRepo) FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	return &models.AttendanceDetail{Attendance: models.Attendance{ID: id, StudioID: studioID}}, nil
}

func (s *stubAttendanceRepo) UpdateStatus(ctx context.Context, studioID, id string, status models.AttendanceStatus) error {
	return nil
}

func checkInContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextStudioKey, testStudio)
	return c, rec
}

func TestAttendanceHandlerCheckInCreated(t *testing.T) {
	handler := newCheckInHandler(&fakeAttendanceRepo{})

	c, rec := checkInContext(t, `{"session_id":"`+testSession+`","member_id":"`+testMember+`"}`)
	handler.CheckIn(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Meta)
}

func TestAttendanceHandlerCheckInDuplicateReturnsOK(t *testing.T) {
	handler := newCheckInHandler(&fakeAttendanceRepo{checkInErr: repository.ErrDuplicateCheckIn})

	c, rec := checkInContext(t, `{"session_id":"`+testSession+`","member_id":"`+testMember+`"}`)
	handler.CheckIn(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["already_checked_in"])
	assert.Equal(t, "att-existing", envelope.Data["id"])
}

func TestAttendanceHandlerCheckInNoCredit(t *testing.T) {
	handler := newCheckInHandler(&fakeAttendanceRepo{checkInErr: repository.ErrNoClassesRemaining})

	c, rec := checkInContext(t, `{"session_id":"`+testSession+`","member_id":"`+testMember+`"}`)
	handler.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NO_CLASSES_REMAINING", envelope.Error["code"])
}

func TestAttendanceHandlerCheckInInvalidBody(t *testing.T) {
	handler := newCheckInHandler(&fakeAttendanceRepo{})

	c, rec := checkInContext(t, `{"session_id":`)
	handler.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func listContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Set(middleware.ContextStudioKey, testStudio)
	return c, rec
}

func newAttendanceListHandler(stub *stubAttendanceRepo) *AttendanceHandler {
	checkIns := service.NewCheckInService(&fakeAttendanceRepo{}, fakeSessionReader{}, fakeMemberReader{}, fakeContractLister{}, nil, nil, zap.NewNop())
	return NewAttendanceHandler(checkIns, service.NewAttendanceService(stub, zap.NewNop()))
}

func TestAttendanceHandlerListRejectsBadStatus(t *testing.T) {
	handler := newCheckInHandler(&fakeAttendanceRepo{})

	c, rec := listContext(t, "/attendance?status=WRONG")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerListAppliesDocumentedFilters(t *testing.T) {
	stub := &stubAttendanceRepo{}
	handler := newAttendanceListHandler(stub)

	c, rec := listContext(t, "/attendance?session_id="+testSession+"&member_id="+testMember+"&status=checked_in")
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSession, stub.lastFilter.SessionID)
	assert.Equal(t, testMember, stub.lastFilter.MemberID)
	assert.Equal(t, models.AttendanceStatusCheckedIn, stub.lastFilter.Status)
}

func TestAttendanceHandlerListRejectsMalformedSessionID(t *testing.T) {
	stub := &stubAttendanceRepo{}
	handler := newAttendanceListHandler(stub)

	c, rec := listContext(t, "/attendance?session_id=not-a-uuid")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
	assert.Empty(t, stub.lastFilter.SessionID)
}

func TestAttendanceHandlerExportRejectsMalformedMemberID(t *testing.T) {
	stub := &stubAttendanceRepo{}
	handler := newAttendanceListHandler(stub)

	c, rec := listContext(t, "/attendance/export?format=csv&member_id=42")
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
}
