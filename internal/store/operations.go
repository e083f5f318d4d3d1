package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Get returns the payload stored under key. A missing key yields found == false and no error.
func (s *Store) Get(ctx context.Context, collection, key string) (json.RawMessage, bool, error) {
	if s != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	db, definition, err := s.session(ctx, opGet, collection)
	if err != nil {
		return nil, false, err
	}

	var row document
	err = db.Table(tableName(definition.Name)).Where("record_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.logError(opGet, "read_failed", collection, err, zap.String("key", key))
		return nil, false, newError(opGet, "read_failed", ErrIO, err)
	}
	return json.RawMessage(row.Payload), true, nil
}

// GetAll returns every payload in the collection ordered by first insertion.
func (s *Store) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if s != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	db, definition, err := s.session(ctx, opGetAll, collection)
	if err != nil {
		return nil, err
	}

	var rows []document
	if err := db.Table(tableName(definition.Name)).Order("seq ASC").Find(&rows).Error; err != nil {
		s.logError(opGetAll, "read_failed", collection, err)
		return nil, newError(opGetAll, "read_failed", ErrIO, err)
	}
	payloads := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, json.RawMessage(row.Payload))
	}
	return payloads, nil
}

// Put inserts or replaces the payload keyed by its key path field and returns that key.
// Replacing a record keeps its original position in GetAll order.
func (s *Store) Put(ctx context.Context, collection string, payload []byte) (string, error) {
	if s != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	db, definition, err := s.session(ctx, opPut, collection)
	if err != nil {
		return "", err
	}

	key, compacted, err := extractKey(payload, definition.KeyPath)
	if err != nil {
		return "", newError(opPut, "invalid_payload", ErrInvalidRecord, err)
	}

	table := tableName(definition.Name)
	err = db.Transaction(func(tx *gorm.DB) error {
		var maxSequence int64
		if err := tx.Table(table).Select("COALESCE(MAX(seq), 0)").Scan(&maxSequence).Error; err != nil {
			return err
		}
		row := document{
			Key:              key,
			Sequence:         maxSequence + 1,
			Payload:          datatypes.JSON(compacted),
			WrittenAtSeconds: s.clock().UTC().Unix(),
		}
		return tx.Table(table).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload_json", "written_at_s"}),
		}).Create(&row).Error
	})
	if err != nil {
		s.logError(opPut, "write_failed", collection, err, zap.String("key", key))
		return "", newError(opPut, "write_failed", ErrIO, err)
	}
	return key, nil
}

// Delete removes the record under key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if s != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	db, definition, err := s.session(ctx, opDelete, collection)
	if err != nil {
		return err
	}

	if err := db.Table(tableName(definition.Name)).Where("record_key = ?", key).Delete(&document{}).Error; err != nil {
		s.logError(opDelete, "write_failed", collection, err, zap.String("key", key))
		return newError(opDelete, "write_failed", ErrIO, err)
	}
	return nil
}

// Clear removes every record in one collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	if s != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	db, definition, err := s.session(ctx, opClear, collection)
	if err != nil {
		return err
	}

	if err := clearTable(db, tableName(definition.Name)); err != nil {
		s.logError(opClear, "write_failed", collection, err)
		return newError(opClear, "write_failed", ErrIO, err)
	}
	return nil
}

// ClearAll empties every collection of the open version in a single transaction. It backs the
// explicit "wipe data" action and cannot be undone.
func (s *Store) ClearAll(ctx context.Context) error {
	if s == nil {
		return newError(opClearAll, "not_open", ErrCollectionUnavailable, errNotOpen)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.Collections()
	if len(names) == 0 {
		return nil
	}
	db, _, err := s.session(ctx, opClearAll, names[0])
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if err := clearTable(tx, tableName(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logError(opClearAll, "write_failed", "*", err)
		return newError(opClearAll, "write_failed", ErrIO, err)
	}
	s.loggerOrDefault().Warn("store cleared", zap.String("store", s.name), zap.Strings("collections", names))
	return nil
}

func clearTable(db *gorm.DB, table string) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Table(table).Delete(&document{}).Error
}
