package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	"github.com/gymstack/studio-ops-api/internal/repository"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type checkInRepository interface {
	CheckIn(ctx context.Context, att *models.Attendance, decrementContractID string) error
	FindDetailByKey(ctx context.Context, studioID, sessionID, memberID string) (*models.AttendanceDetail, error)
	FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error)
}

type sessionReader interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Session, error)
}

type memberReader interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Member, error)
}

type activeContractLister interface {
	ListActiveByMember(ctx context.Context, studioID, memberID string) ([]models.Contract, error)
}

type checkInObserver interface {
	ObserveCheckIn(result string)
}

// CheckInRequest is the payload for a member check-in.
type CheckInRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	MemberID  string `json:"member_id" validate:"required,uuid"`
}

// CheckInService gates entry to, and drives, the check-in transaction.
type CheckInService struct {
	attendance checkInRepository
	sessions   sessionReader
	members    memberReader
	contracts  activeContractLister
	observer   checkInObserver
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCheckInService constructs CheckInService.
func NewCheckInService(attendance checkInRepository, sessions sessionReader, members memberReader, contracts activeContractLister, observer checkInObserver, validate *validator.Validate, logger *zap.Logger) *CheckInService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckInService{attendance: attendance, sessions: sessions, members: members, contracts: contracts, observer: observer, validator: validate, logger: logger}
}

// CheckIn records a member's attendance at a session. The returned bool is
// true when the member was already checked in: that path is an idempotent
// success, not an error, and leaves the credit balance untouched.
//
// Eligibility runs as a plain read path; the invariants it cannot pin down
// (duplicate check-in, credit exhaustion, contract no longer ACTIVE) are
// re-enforced inside the storage transaction, where concurrent requests are
// actually serialized.
func (s *CheckInService) CheckIn(ctx context.Context, studioID string, req CheckInRequest) (*models.AttendanceDetail, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}

	contract, err := s.checkEligibility(ctx, studioID, req)
	if err != nil {
		s.observe("rejected")
		return nil, false, err
	}

	att := &models.Attendance{
		StudioID:  studioID,
		SessionID: req.SessionID,
		MemberID:  req.MemberID,
	}

	decrementContractID := ""
	if contract.PlanTypeSnapshot == models.PlanTypeLimited {
		decrementContractID = contract.ID
	}

	if err := s.attendance.CheckIn(ctx, att, decrementContractID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCheckIn):
			existing, fetchErr := s.attendance.FindDetailByKey(ctx, studioID, req.SessionID, req.MemberID)
			if fetchErr != nil {
				return nil, false, appErrors.Wrap(fetchErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing attendance")
			}
			s.observe("duplicate")
			return existing, true, nil
		case errors.Is(err, repository.ErrNoClassesRemaining):
			s.observe("no_credit")
			return nil, false, appErrors.Clone(appErrors.ErrNoClassesRemaining, "")
		default:
			s.observe("error")
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check in")
		}
	}

	detail, err := s.attendance.FindDetailByID(ctx, studioID, att.ID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance detail")
	}

	s.logger.Info("member checked in",
		zap.String("studio_id", studioID),
		zap.String("session_id", req.SessionID),
		zap.String("member_id", req.MemberID),
		zap.Bool("credit_decremented", decrementContractID != ""),
	)
	s.observe("created")
	return detail, false, nil
}

// checkEligibility validates session, member and contract state and resolves
// the single ACTIVE contract. More than one ACTIVE contract is a
// data-integrity problem for staff to untangle, never silently picked from.
func (s *CheckInService) checkEligibility(ctx context.Context, studioID string, req CheckInRequest) (*models.Contract, error) {
	session, err := s.sessions.FindByID(ctx, studioID, req.SessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.Status == models.SessionStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is cancelled")
	}

	member, err := s.members.FindByID(ctx, studioID, req.MemberID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	if member.Status != models.MemberStatusActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "member is not active")
	}

	contracts, err := s.contracts.ListActiveByMember(ctx, studioID, req.MemberID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contracts")
	}
	if len(contracts) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "no active contract for this member")
	}
	if len(contracts) > 1 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "multiple active contracts for this member")
	}
	return &contracts[0], nil
}

func (s *CheckInService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveCheckIn(result)
	}
}
