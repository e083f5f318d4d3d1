package tracker

import (
	"context"
	"sort"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
)

// HolidayInput is the editable part of a holiday.
type HolidayInput struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// HolidaySeed is one entry of a holiday seed file.
type HolidaySeed struct {
	Name string `yaml:"name" json:"name"`
	Date string `yaml:"date" json:"date"`
}

// ListHolidays returns holidays ordered by date, then name.
func (s *Service) ListHolidays(ctx context.Context) ([]records.Holiday, error) {
	holidays, err := s.holidays.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opListHolidays, err)
	}
	sortHolidays(holidays)
	return holidays, nil
}

func (s *Service) CreateHoliday(ctx context.Context, input HolidayInput) (records.Holiday, error) {
	holiday, err := holidayFromInput(opSaveHoliday, input)
	if err != nil {
		return records.Holiday{}, err
	}
	if holiday.ID, err = s.newID(opSaveHoliday); err != nil {
		return records.Holiday{}, err
	}
	holiday.CreatedAt = s.clock().UTC()
	if _, err := s.holidays.Put(ctx, holiday); err != nil {
		return records.Holiday{}, storeFailure(opSaveHoliday, err)
	}
	s.publishChange(records.CollectionHolidays, holiday.ID)
	return holiday, nil
}

func (s *Service) UpdateHoliday(ctx context.Context, id string, input HolidayInput) (records.Holiday, error) {
	id, err := requireID(opSaveHoliday, id)
	if err != nil {
		return records.Holiday{}, err
	}
	updated, err := holidayFromInput(opSaveHoliday, input)
	if err != nil {
		return records.Holiday{}, err
	}
	existing, found, err := s.holidays.Get(ctx, id)
	if err != nil {
		return records.Holiday{}, storeFailure(opSaveHoliday, err)
	}
	if !found {
		return records.Holiday{}, notFound(opSaveHoliday, records.CollectionHolidays, id)
	}
	updatedAt := s.clock().UTC()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = &updatedAt
	if _, err := s.holidays.Put(ctx, updated); err != nil {
		return records.Holiday{}, storeFailure(opSaveHoliday, err)
	}
	s.publishChange(records.CollectionHolidays, updated.ID)
	return updated, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	id, err := requireID(opDeleteHoliday, id)
	if err != nil {
		return err
	}
	if _, found, err := s.holidays.Get(ctx, id); err != nil {
		return storeFailure(opDeleteHoliday, err)
	} else if !found {
		return notFound(opDeleteHoliday, records.CollectionHolidays, id)
	}
	if err := s.holidays.Delete(ctx, id); err != nil {
		return storeFailure(opDeleteHoliday, err)
	}
	s.publishChange(records.CollectionHolidays, id)
	return nil
}

// ImportHolidays merges seeds into the holiday list. A seed whose date and name match an existing
// holiday is skipped; the others are created. All seeds are validated before anything is written.
// It returns the number of holidays created.
func (s *Service) ImportHolidays(ctx context.Context, seeds []HolidaySeed) (int, error) {
	incoming := make([]records.Holiday, 0, len(seeds))
	for _, seed := range seeds {
		holiday, err := holidayFromInput(opImportHolidays, HolidayInput(seed))
		if err != nil {
			return 0, err
		}
		incoming = append(incoming, holiday)
	}

	existing, err := s.holidays.GetAll(ctx)
	if err != nil {
		return 0, storeFailure(opImportHolidays, err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, holiday := range existing {
		known[holiday.Date+"\x00"+holiday.Name] = struct{}{}
	}

	created := 0
	for _, holiday := range incoming {
		key := holiday.Date + "\x00" + holiday.Name
		if _, ok := known[key]; ok {
			continue
		}
		if holiday.ID, err = s.newID(opImportHolidays); err != nil {
			return created, err
		}
		holiday.CreatedAt = s.clock().UTC()
		if _, err := s.holidays.Put(ctx, holiday); err != nil {
			return created, storeFailure(opImportHolidays, err)
		}
		known[key] = struct{}{}
		created++
	}
	if created > 0 {
		s.publishChange(records.CollectionHolidays, "")
	}
	return created, nil
}

func holidayFromInput(operation string, input HolidayInput) (records.Holiday, error) {
	name := records.NormalizeText(input.Name)
	if name == "" {
		return records.Holiday{}, invalidInput(operation, records.ErrMissingName)
	}
	date, err := records.NormalizeDate(input.Date)
	if err != nil {
		return records.Holiday{}, invalidInput(operation, err)
	}
	return records.Holiday{Name: name, Date: date}, nil
}

func sortHolidays(holidays []records.Holiday) {
	sort.SliceStable(holidays, func(i, j int) bool {
		if holidays[i].Date != holidays[j].Date {
			return holidays[i].Date < holidays[j].Date
		}
		return compareNames(holidays[i].Name, holidays[j].Name) < 0
	})
}
