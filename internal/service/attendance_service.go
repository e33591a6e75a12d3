package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
	"github.com/gymstack/studio-ops-api/pkg/export"
)

type attendanceRepository interface {
	List(ctx context.Context, studioID string, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	FindByID(ctx context.Context, studioID, id string) (*models.Attendance, error)
	FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error)
	UpdateStatus(ctx context.Context, studioID, id string, status models.AttendanceStatus) error
}

// AttendanceService serves attendance queries and status transitions.
type AttendanceService struct {
	repo   attendanceRepository
	logger *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, logger: logger}
}

// List returns attendance records with pagination metadata, newest first.
func (s *AttendanceService) List(ctx context.Context, studioID string, filter models.AttendanceFilter) ([]models.AttendanceDetail, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return records, pagination, nil
}

// Cancel transitions a record to CANCELLED. The associated contract's
// remaining_classes is deliberately NOT restored: a second mutation path on
// the credit balance would reopen the race the check-in transaction closes,
// so credit corrections stay a manual administrative action.
func (s *AttendanceService) Cancel(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	return s.transition(ctx, studioID, id, models.AttendanceStatusCancelled)
}

// MarkNoShow transitions a CHECKED_IN record to NO_SHOW.
func (s *AttendanceService) MarkNoShow(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	return s.transition(ctx, studioID, id, models.AttendanceStatusNoShow)
}

func (s *AttendanceService) transition(ctx context.Context, studioID, id string, target models.AttendanceStatus) (*models.AttendanceDetail, error) {
	att, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if att.Status == target {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("attendance is already %s", target))
	}
	if target == models.AttendanceStatusNoShow && att.Status != models.AttendanceStatusCheckedIn {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only checked-in attendance can be marked no-show")
	}

	if err := s.repo.UpdateStatus(ctx, studioID, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}

	detail, err := s.repo.FindDetailByID(ctx, studioID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance detail")
	}

	s.logger.Info("attendance transitioned",
		zap.String("studio_id", studioID),
		zap.String("attendance_id", id),
		zap.String("status", string(target)),
	)
	return detail, nil
}

// Export renders the filtered attendance list as CSV or PDF bytes. The full
// filtered set is exported, paged through in max-size chunks.
func (s *AttendanceService) Export(ctx context.Context, studioID string, filter models.AttendanceFilter, format string) ([]byte, string, error) {
	filter.Page = 1
	filter.PageSize = models.MaxPageSize

	var records []models.AttendanceDetail
	for {
		batch, total, err := s.repo.List(ctx, studioID, filter)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance for export")
		}
		records = append(records, batch...)
		if len(batch) == 0 || len(records) >= total {
			break
		}
		filter.Page++
	}

	dataset := export.Dataset{
		Headers: []string{"Member", "Class", "Session Start", "Status", "Checked In At"},
	}
	for _, rec := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Member":        rec.MemberName,
			"Class":         rec.ClassType,
			"Session Start": rec.SessionStartsAt.UTC().Format(time.RFC3339),
			"Status":        string(rec.Status),
			"Checked In At": rec.CheckedInAt.UTC().Format(time.RFC3339),
		})
	}

	switch format {
	case "csv":
		payload, err := export.CSV(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.PDF(dataset, "Attendance Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "invalid export format, expected: csv, pdf")
	}
}
