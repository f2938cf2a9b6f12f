package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cvb-admin/fire-company-api/internal/dto"
	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/pkg/export"
	appErrors "github.com/cvb-admin/fire-company-api/pkg/errors"
)

type attendanceRepository interface {
	Set(ctx context.Context, eventID, firefighterID string, attended *bool, notes *string) (*models.AttendanceEntry, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceEntryDetail, error)
	Summary(ctx context.Context, eventID string) (*models.AttendanceSummary, error)
}

type eventReader interface {
	FindByID(ctx context.Context, id string) (*models.EventDetail, error)
}

// SheetFormat selects the output encoding of an attendance sheet.
type SheetFormat string

const (
	SheetFormatPDF SheetFormat = "pdf"
	SheetFormatCSV SheetFormat = "csv"
)

// AttendanceService records attendance outcomes for event rosters. The
// attended flag is tri-state: pending until recorded, then present or absent,
// and re-recordable any number of times.
type AttendanceService struct {
	repo      attendanceRepository
	events    eventReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, events eventReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, events: events, validator: validate, logger: logger}
}

// Set records the outcome for one roster member. The firefighter must already
// be on the event roster; attendance never adds to the roster.
func (s *AttendanceService) Set(ctx context.Context, eventID, firefighterID string, req dto.SetAttendanceRequest) (*models.AttendanceEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return s.set(ctx, eventID, firefighterID, req.Attended, req.Notes)
}

// BulkSet applies many outcomes in one call. Entries are independent: a
// failing entry is reported and skipped, the rest still apply.
func (s *AttendanceService) BulkSet(ctx context.Context, eventID string, req dto.BulkAttendanceRequest) (*dto.BulkAttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	result := &dto.BulkAttendanceResult{Failures: []dto.BulkAttendanceFailure{}}
	for _, entry := range req.Entries {
		if _, err := s.set(ctx, eventID, entry.FirefighterID, entry.Attended, entry.Notes); err != nil {
			appErr := appErrors.FromError(err)
			result.Failures = append(result.Failures, dto.BulkAttendanceFailure{
				FirefighterID: entry.FirefighterID,
				Code:          appErr.Code,
				Message:       appErr.Message,
			})
			continue
		}
		result.Applied++
	}
	if len(result.Failures) > 0 {
		s.logger.Info("bulk attendance completed with failures",
			zap.String("event_id", eventID),
			zap.Int("applied", result.Applied),
			zap.Int("failed", len(result.Failures)))
	}
	return result, nil
}

func (s *AttendanceService) set(ctx context.Context, eventID, firefighterID string, attended *bool, notes string) (*models.AttendanceEntry, error) {
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	entry, err := s.repo.Set(ctx, eventID, firefighterID, attended, notesPtr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotOnRoster, "firefighter is not on the event roster")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return entry, nil
}

// List returns the full roster of the event with recorded outcomes.
func (s *AttendanceService) List(ctx context.Context, eventID string) ([]models.AttendanceEntryDetail, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return entries, nil
}

// Summary derives attendance totals for the event by scanning the roster.
// Nothing is stored; the figures are always consistent with the entries.
func (s *AttendanceService) Summary(ctx context.Context, eventID string) (*models.AttendanceSummary, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	summary, err := s.repo.Summary(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	return summary, nil
}

// Sheet renders the printable attendance roll for an event.
func (s *AttendanceService) Sheet(ctx context.Context, eventID string, format SheetFormat) ([]byte, string, error) {
	detail, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	sheet := export.Sheet{
		Title:    detail.Title,
		Date:     detail.Date.Format("2006-01-02"),
		Time:     detail.Time,
		Location: detail.Location,
		Rows:     make([]export.SheetRow, 0, len(detail.Attendees)),
	}
	for _, attendee := range detail.Attendees {
		row := export.SheetRow{
			FullName: strings.TrimSpace(attendee.FirstName + " " + attendee.LastName),
			Rank:     attendee.Rank,
			Outcome:  sheetOutcome(attendee.Attended),
		}
		if attendee.Notes != nil {
			row.Notes = *attendee.Notes
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	switch format {
	case SheetFormatCSV:
		data, err := export.RenderCSV(sheet)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance sheet")
		}
		return data, "text/csv", nil
	case SheetFormatPDF, "":
		data, err := export.RenderPDF(sheet)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance sheet")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported sheet format")
	}
}

func sheetOutcome(attended *bool) string {
	switch {
	case attended == nil:
		return "Pending"
	case *attended:
		return "Present"
	default:
		return "Absent"
	}
}
