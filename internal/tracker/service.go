// Package tracker implements the page level operations of the attendance tracker on top of the
// record store and the worklog computations.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput marks validation failures of caller supplied values.
	ErrInvalidInput = errors.New("tracker: invalid input")
	// ErrNotFound marks updates or deletes addressing a missing record.
	ErrNotFound = errors.New("tracker: record not found")
	// ErrNoAttendance is returned when clearing a date that has no attendance.
	ErrNoAttendance = fmt.Errorf("%w: no attendance for date", ErrNotFound)
	// ErrAlreadyArchived is returned when a month already has a wage history snapshot.
	ErrAlreadyArchived = errors.New("tracker: month already archived")

	errMissingStore      = errors.New("record store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew       = "tracker.service.new"
	opHomeOverview     = "tracker.home_overview"
	opSetAttendance    = "tracker.set_attendance"
	opClearAttendance  = "tracker.clear_attendance"
	opPersonalInfo     = "tracker.personal_info"
	opSavePersonalInfo = "tracker.save_personal_info"
	opListProjects     = "tracker.list_projects"
	opSaveProject      = "tracker.save_project"
	opDeleteProject    = "tracker.delete_project"
	opListContacts     = "tracker.list_contacts"
	opSaveContact      = "tracker.save_contact"
	opDeleteContact    = "tracker.delete_contact"
	opListHolidays     = "tracker.list_holidays"
	opSaveHoliday      = "tracker.save_holiday"
	opDeleteHoliday    = "tracker.delete_holiday"
	opImportHolidays   = "tracker.import_holidays"
	opArchiveMonth     = "tracker.archive_month"
	opWageHistory      = "tracker.wage_history"
	opQueryOptions     = "tracker.query_options"
	opQueryWages       = "tracker.query_wages"
	opCompareMonths    = "tracker.compare_months"
	opSalaryTrend      = "tracker.salary_trend"
	opAttendanceStats  = "tracker.attendance_stats"
	opStats            = "tracker.stats"
	opExport           = "tracker.export"
	opExportContacts   = "tracker.export_contacts"
	opImport           = "tracker.import"
	opExportWorkbook   = "tracker.export_workbook"
	opWipeAll          = "tracker.wipe_all"
)

const (
	reasonStoreFailed   = "store_failed"
	reasonInvalidInput  = "invalid_input"
	reasonNotFound      = "not_found"
	reasonIDGeneration  = "id_generation_failed"
	reasonArchived      = "already_archived"
	reasonInvalidRecord = "invalid_record"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

func invalidInput(operation string, cause error) error {
	return newServiceError(operation, reasonInvalidInput, fmt.Errorf("%w: %w", ErrInvalidInput, cause))
}

func notFound(operation, collection, id string) error {
	return newServiceError(operation, reasonNotFound, fmt.Errorf("%w: %s %q", ErrNotFound, collection, id))
}

// storeFailure wraps a store error. The store has already logged it.
func storeFailure(operation string, cause error) error {
	return newServiceError(operation, reasonStoreFailed, cause)
}

type ServiceConfig struct {
	Store      *store.Store
	Clock      func() time.Time
	IDProvider records.IDProvider
	Logger     *zap.Logger
	Bus        *events.Bus
	// Location is the zone calendar dates are interpreted in. Defaults to time.Local.
	Location *time.Location
}

type Service struct {
	store      *store.Store
	clock      func() time.Time
	idProvider records.IDProvider
	logger     *zap.Logger
	bus        *events.Bus
	location   *time.Location

	projects     *store.Collection[records.Project]
	attendance   *store.Collection[records.AttendanceRecord]
	contacts     *store.Collection[records.Contact]
	personalInfo *store.Collection[records.PersonalInfo]
	wageHistory  *store.Collection[records.WageHistoryRecord]
	holidays     *store.Collection[records.Holiday]
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	return &Service{
		store:        cfg.Store,
		clock:        clock,
		idProvider:   cfg.IDProvider,
		logger:       logger,
		bus:          cfg.Bus,
		location:     location,
		projects:     store.Bind[records.Project](cfg.Store, records.CollectionProjects),
		attendance:   store.Bind[records.AttendanceRecord](cfg.Store, records.CollectionAttendance),
		contacts:     store.Bind[records.Contact](cfg.Store, records.CollectionContacts),
		personalInfo: store.Bind[records.PersonalInfo](cfg.Store, records.CollectionPersonalInfo),
		wageHistory:  store.Bind[records.WageHistoryRecord](cfg.Store, records.CollectionWageHistory),
		holidays:     store.Bind[records.Holiday](cfg.Store, records.CollectionHolidays),
	}, nil
}

// now returns the current time in the service location.
func (s *Service) now() time.Time {
	return s.clock().In(s.location)
}

func (s *Service) newID(operation string) (string, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, reasonIDGeneration, err)
		return "", newServiceError(operation, reasonIDGeneration, err)
	}
	return id, nil
}

func (s *Service) publishChange(collection, key string) {
	s.bus.Publish(events.Message{
		Topic:      events.TopicDataChanged,
		Collection: collection,
		Value:      key,
		Timestamp:  s.clock().UTC(),
	})
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("tracker service error", attrs...)
}

// requireID trims and bounds an identifier taken from a caller.
func requireID(operation, raw string) (string, error) {
	id, err := records.ValidateID(raw)
	if err != nil {
		return "", invalidInput(operation, err)
	}
	return id, nil
}
