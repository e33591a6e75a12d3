package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, studioID string, filter models.PaymentFilter) ([]models.Payment, int, error)
	Create(ctx context.Context, payment *models.Payment) error
}

type contractReader interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Contract, error)
}

// RecordPaymentRequest describes a payment bookkeeping entry.
type RecordPaymentRequest struct {
	MemberID    string     `json:"member_id" validate:"required,uuid"`
	ContractID  string     `json:"contract_id" validate:"omitempty,uuid"`
	AmountCents int        `json:"amount_cents" validate:"required,gt=0"`
	PaidAt      *time.Time `json:"paid_at"`
	Note        string     `json:"note"`
}

// PaymentService records and lists payment rows. It never touches
// attendance or credit state.
type PaymentService struct {
	repo      paymentRepository
	members   memberReader
	contracts contractReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, members memberReader, contracts contractReader, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, members: members, contracts: contracts, validator: validate, logger: logger}
}

// List returns payments with pagination metadata.
func (s *PaymentService) List(ctx context.Context, studioID string, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return payments, pagination, nil
}

// Record persists one payment row. A referenced contract must belong to
// the same member within the studio.
func (s *PaymentService) Record(ctx context.Context, studioID string, req RecordPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	if _, err := s.members.FindByID(ctx, studioID, req.MemberID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}

	payment := &models.Payment{
		StudioID:    studioID,
		MemberID:    req.MemberID,
		AmountCents: req.AmountCents,
		Status:      models.PaymentStatusRecorded,
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}
	if req.Note != "" {
		payment.Note = &req.Note
	}
	if req.ContractID != "" {
		contract, err := s.contracts.FindByID(ctx, studioID, req.ContractID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
		}
		if contract.MemberID != req.MemberID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "contract does not belong to this member")
		}
		payment.ContractID = &req.ContractID
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	s.logger.Info("payment recorded",
		zap.String("studio_id", studioID),
		zap.String("member_id", req.MemberID),
		zap.Int("amount_cents", req.AmountCents),
	)
	return payment, nil
}
