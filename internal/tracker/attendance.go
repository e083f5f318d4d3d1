package tracker

import (
	"context"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
)

// SetAttendance records status for date. A date keeps a single record: an existing record's id
// is reused and stray duplicates are removed.
func (s *Service) SetAttendance(ctx context.Context, date, status string) (records.AttendanceRecord, error) {
	normalized, err := records.NormalizeDate(date)
	if err != nil {
		return records.AttendanceRecord{}, invalidInput(opSetAttendance, err)
	}
	parsed, err := records.ParseAttendanceStatus(status)
	if err != nil {
		return records.AttendanceRecord{}, invalidInput(opSetAttendance, err)
	}

	existing, err := s.attendanceOn(ctx, opSetAttendance, normalized)
	if err != nil {
		return records.AttendanceRecord{}, err
	}

	record := records.AttendanceRecord{
		Date:      normalized,
		Status:    parsed,
		UpdatedAt: s.clock().UTC(),
	}
	if len(existing) > 0 {
		record.ID = existing[0].ID
	} else if record.ID, err = s.newID(opSetAttendance); err != nil {
		return records.AttendanceRecord{}, err
	}

	if _, err := s.attendance.Put(ctx, record); err != nil {
		return records.AttendanceRecord{}, storeFailure(opSetAttendance, err)
	}
	for _, duplicate := range existing[min(1, len(existing)):] {
		if err := s.attendance.Delete(ctx, duplicate.ID); err != nil {
			return records.AttendanceRecord{}, storeFailure(opSetAttendance, err)
		}
	}
	s.publishChange(records.CollectionAttendance, normalized)
	return record, nil
}

// ClearAttendance removes the attendance recorded for date. It returns ErrNoAttendance when the
// date has none.
func (s *Service) ClearAttendance(ctx context.Context, date string) error {
	normalized, err := records.NormalizeDate(date)
	if err != nil {
		return invalidInput(opClearAttendance, err)
	}
	existing, err := s.attendanceOn(ctx, opClearAttendance, normalized)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return newServiceError(opClearAttendance, reasonNotFound, ErrNoAttendance)
	}
	for _, record := range existing {
		if err := s.attendance.Delete(ctx, record.ID); err != nil {
			return storeFailure(opClearAttendance, err)
		}
	}
	s.publishChange(records.CollectionAttendance, normalized)
	return nil
}

func (s *Service) attendanceOn(ctx context.Context, operation, date string) ([]records.AttendanceRecord, error) {
	all, err := s.attendance.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(operation, err)
	}
	var matches []records.AttendanceRecord
	for _, record := range all {
		if record.Date == date {
			matches = append(matches, record)
		}
	}
	return matches, nil
}
