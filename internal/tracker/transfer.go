package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"go.uber.org/zap"
)

// ExportDocument is the backup format: a verbatim dump of the contacts, projects and attendance
// collections. Import accepts the same shape.
type ExportDocument struct {
	ExportDate time.Time         `json:"exportDate"`
	Contacts   []json.RawMessage `json:"contacts"`
	Projects   []json.RawMessage `json:"projects"`
	Attendance []json.RawMessage `json:"attendance"`
}

// ImportResult counts the records written per collection.
type ImportResult struct {
	Contacts   int `json:"contacts"`
	Projects   int `json:"projects"`
	Attendance int `json:"attendance"`
}

// DataStats counts records per collection.
type DataStats struct {
	Contacts    int `json:"contacts"`
	Projects    int `json:"projects"`
	Attendance  int `json:"attendance"`
	WageHistory int `json:"wageHistory"`
	Holidays    int `json:"holidays"`
}

func (s *Service) Stats(ctx context.Context) (DataStats, error) {
	counts := make(map[string]int, 5)
	for _, name := range []string{
		records.CollectionContacts,
		records.CollectionProjects,
		records.CollectionAttendance,
		records.CollectionWageHistory,
		records.CollectionHolidays,
	} {
		payloads, err := s.store.GetAll(ctx, name)
		if err != nil {
			return DataStats{}, storeFailure(opStats, err)
		}
		counts[name] = len(payloads)
	}
	return DataStats{
		Contacts:    counts[records.CollectionContacts],
		Projects:    counts[records.CollectionProjects],
		Attendance:  counts[records.CollectionAttendance],
		WageHistory: counts[records.CollectionWageHistory],
		Holidays:    counts[records.CollectionHolidays],
	}, nil
}

// Export dumps contacts, projects and attendance as stored.
func (s *Service) Export(ctx context.Context) (ExportDocument, error) {
	document := ExportDocument{ExportDate: s.clock().UTC()}
	targets := []struct {
		name string
		dest *[]json.RawMessage
	}{
		{name: records.CollectionContacts, dest: &document.Contacts},
		{name: records.CollectionProjects, dest: &document.Projects},
		{name: records.CollectionAttendance, dest: &document.Attendance},
	}
	for _, target := range targets {
		payloads, err := s.store.GetAll(ctx, target.name)
		if err != nil {
			return ExportDocument{}, storeFailure(opExport, err)
		}
		*target.dest = payloads
	}
	return document, nil
}

// ExportContacts returns the phonebook in storage order.
func (s *Service) ExportContacts(ctx context.Context) ([]records.Contact, error) {
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opExportContacts, err)
	}
	return contacts, nil
}

// Import writes every record of document with its original id, overwriting records that share
// it. Each record must decode as its collection's record type before it is written. Records are
// written one at a time: a failure stops the import and leaves earlier records committed. Absent
// arrays import nothing.
func (s *Service) Import(ctx context.Context, document ExportDocument) (ImportResult, error) {
	var result ImportResult
	sources := []struct {
		name    string
		records []json.RawMessage
		count   *int
		decode  func(json.RawMessage) error
	}{
		{name: records.CollectionContacts, records: document.Contacts, count: &result.Contacts, decode: decodeAs[records.Contact]},
		{name: records.CollectionProjects, records: document.Projects, count: &result.Projects, decode: decodeAs[records.Project]},
		{name: records.CollectionAttendance, records: document.Attendance, count: &result.Attendance, decode: decodeAs[records.AttendanceRecord]},
	}
	for _, source := range sources {
		for index, payload := range source.records {
			err := source.decode(payload)
			if err != nil {
				err = newServiceError(opImport, reasonInvalidRecord,
					fmt.Errorf("%w: %s record %d: %w", store.ErrInvalidRecord, source.name, index, err))
			} else if _, putErr := s.store.Put(ctx, source.name, payload); putErr != nil {
				err = storeFailure(opImport, putErr)
			}
			if err != nil {
				s.loggerOrDefault().Warn("import stopped",
					zap.String("collection", source.name),
					zap.Int("index", index),
					zap.Int("contacts", result.Contacts),
					zap.Int("projects", result.Projects),
					zap.Int("attendance", result.Attendance),
					zap.Error(err))
				if *source.count > 0 {
					s.publishChange(source.name, "")
				}
				return result, err
			}
			*source.count++
		}
		if *source.count > 0 {
			s.publishChange(source.name, "")
		}
	}
	s.loggerOrDefault().Info("data imported",
		zap.Int("contacts", result.Contacts),
		zap.Int("projects", result.Projects),
		zap.Int("attendance", result.Attendance))
	return result, nil
}

// decodeAs reports whether payload decodes as T, so typed reads of the collection keep working.
func decodeAs[T any](payload json.RawMessage) error {
	var record T
	return json.Unmarshal(payload, &record)
}

// WipeAll empties every collection. It cannot be undone.
func (s *Service) WipeAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return storeFailure(opWipeAll, err)
	}
	s.publishChange("", "")
	return nil
}
