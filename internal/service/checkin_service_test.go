package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/repository"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

const (
	testStudio  = "studio-1"
	testSession = "6f1e3e0a-32aa-4b5e-9f10-43cbb57b7a01"
	testMember  = "0b7ce45d-91f8-4f68-b7d2-d3a4f5f1c202"
)

type mockCheckInRepo struct {
	checkInErr  error
	lastAtt     *models.Attendance
	lastDecrID  string
	checkInHits int
}

func (m *mockCheckInRepo) CheckIn(ctx context.Context, att *models.Attendance, decrementContractID string) error {
	m.checkInHits++
	m.lastAtt = att
	m.lastDecrID = decrementContractID
	if m.checkInErr != nil {
		return m.checkInErr
	}
	att.ID = "att-1"
	att.Status = models.AttendanceStatusCheckedIn
	return nil
}

func (m *mockCheckInRepo) FindDetailByKey(ctx context.Context, studioID, sessionID, memberID string) (*models.AttendanceDetail, error) {
	return &models.AttendanceDetail{Attendance: models.Attendance{ID: "att-existing", StudioID: studioID, SessionID: sessionID, MemberID: memberID, Status: models.AttendanceStatusCheckedIn}}, nil
}

func (m *mockCheckInRepo) FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	return &models.AttendanceDetail{Attendance: models.Attendance{ID: id, StudioID: studioID}}, nil
}

type mockSessionReader struct {
	sessions map[string]*models.Session
}

func (m *mockSessionReader) FindByID(ctx context.Context, studioID, id string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockMemberReader struct {
	members map[string]*models.Member
}

func (m *mockMemberReader) FindByID(ctx context.Context, studioID, id string) (*models.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, sql.ErrNoRows
}

type mockContractLister struct {
	contracts []models.Contract
}

func (m *mockContractLister) ListActiveByMember(ctx context.Context, studioID, memberID string) ([]models.Contract, error) {
	return m.contracts, nil
}

type mockObserver struct {
	results []string
}

func (m *mockObserver) ObserveCheckIn(result string) {
	m.results = append(m.results, result)
}

func limitedContract(remaining int) models.Contract {
	limit := 10
	return models.Contract{
		ID:                 "con-1",
		StudioID:           testStudio,
		MemberID:           testMember,
		Status:             models.ContractStatusActive,
		PlanTypeSnapshot:   models.PlanTypeLimited,
		ClassLimitSnapshot: &limit,
		RemainingClasses:   &remaining,
	}
}

func newCheckInFixture(repo *mockCheckInRepo, contracts ...models.Contract) (*CheckInService, *mockObserver) {
	sessions := &mockSessionReader{sessions: map[string]*models.Session{
		testSession: {ID: testSession, StudioID: testStudio, Status: models.SessionStatusScheduled},
	}}
	members := &mockMemberReader{members: map[string]*models.Member{
		testMember: {ID: testMember, StudioID: testStudio, Status: models.MemberStatusActive},
	}}
	observer := &mockObserver{}
	svc := NewCheckInService(repo, sessions, members, &mockContractLister{contracts: contracts}, observer, validator.New(), zap.NewNop())
	return svc, observer
}

func TestCheckInDecrementsLimitedContract(t *testing.T) {
	repo := &mockCheckInRepo{}
	svc, observer := newCheckInFixture(repo, limitedContract(5))

	detail, already, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.NoError(t, err)
	assert.False(t, already)
	assert.NotNil(t, detail)
	assert.Equal(t, "con-1", repo.lastDecrID)
	assert.Equal(t, []string{"created"}, observer.results)
}

func TestCheckInUnlimitedSkipsDecrement(t *testing.T) {
	repo := &mockCheckInRepo{}
	contract := limitedContract(0)
	contract.PlanTypeSnapshot = models.PlanTypeUnlimited
	contract.ClassLimitSnapshot = nil
	contract.RemainingClasses = nil
	svc, _ := newCheckInFixture(repo, contract)

	_, already, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.NoError(t, err)
	assert.False(t, already)
	assert.Empty(t, repo.lastDecrID)
}

func TestCheckInDuplicateIsIdempotent(t *testing.T) {
	repo := &mockCheckInRepo{checkInErr: repository.ErrDuplicateCheckIn}
	svc, observer := newCheckInFixture(repo, limitedContract(5))

	detail, already, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, "att-existing", detail.ID)
	assert.Equal(t, []string{"duplicate"}, observer.results)
}

func TestCheckInNoClassesRemaining(t *testing.T) {
	repo := &mockCheckInRepo{checkInErr: repository.ErrNoClassesRemaining}
	svc, observer := newCheckInFixture(repo, limitedContract(0))

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoClassesRemaining.Code, appErr.Code)
	assert.Equal(t, []string{"no_credit"}, observer.results)
}

func TestCheckInRejectsCancelledSession(t *testing.T) {
	repo := &mockCheckInRepo{}
	svc, observer := newCheckInFixture(repo, limitedContract(5))
	svc.sessions.(*mockSessionReader).sessions[testSession].Status = models.SessionStatusCancelled

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
	assert.Zero(t, repo.checkInHits)
	assert.Equal(t, []string{"rejected"}, observer.results)
}

func TestCheckInRejectsInactiveMember(t *testing.T) {
	repo := &mockCheckInRepo{}
	svc, _ := newCheckInFixture(repo, limitedContract(5))
	svc.members.(*mockMemberReader).members[testMember].Status = models.MemberStatusFrozen

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.checkInHits)
}

func TestCheckInRejectsWithoutActiveContract(t *testing.T) {
	repo := &mockCheckInRepo{}
	svc, _ := newCheckInFixture(repo)

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.checkInHits)
}

func TestCheckInRejectsMultipleActiveContracts(t *testing.T) {
	repo := &mockCheckInRepo{}
	second := limitedContract(3)
	second.ID = "con-2"
	svc, _ := newCheckInFixture(repo, limitedContract(5), second)

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: testSession, MemberID: testMember})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.checkInHits)
}

func TestCheckInValidatesPayload(t *testing.T) {
	repo := &mockCheckInRepo{}
	svc, _ := newCheckInFixture(repo, limitedContract(5))

	_, _, err := svc.CheckIn(context.Background(), testStudio, CheckInRequest{SessionID: "not-a-uuid", MemberID: testMember})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
