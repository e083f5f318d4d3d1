package store

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errVersionDowngrade = errors.New("store: requested version is lower than stored version")

type schemaRecord struct {
	Name              string `gorm:"column:name;primaryKey;size:190;not null"`
	Version           int    `gorm:"column:version;not null"`
	UpgradedAtSeconds int64  `gorm:"column:upgraded_at_s;not null"`
}

func (schemaRecord) TableName() string {
	return "store_schema"
}

// applySchema brings the named store up to version. Only missing collection tables are created;
// existing tables and their rows are never rewritten.
func applySchema(db *gorm.DB, name string, schema Schema, version int, now time.Time, logger *zap.Logger) (int, error) {
	if err := db.AutoMigrate(&schemaRecord{}); err != nil {
		return 0, err
	}

	previousVersion := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var record schemaRecord
		err := tx.Where("name = ?", name).Take(&record).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			previousVersion = record.Version
		}
		if previousVersion > version {
			return fmt.Errorf("%w: stored %d, requested %d", errVersionDowngrade, previousVersion, version)
		}

		for _, definition := range schema.CollectionsAt(version) {
			table := tableName(definition.Name)
			if tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Table(table).Migrator().CreateTable(&document{}); err != nil {
				return fmt.Errorf("create collection %s: %w", definition.Name, err)
			}
			logger.Info("store collection created",
				zap.String("store", name),
				zap.String("collection", definition.Name),
				zap.Int("version", version))
		}

		if previousVersion == version {
			return nil
		}
		return tx.Save(&schemaRecord{
			Name:              name,
			Version:           version,
			UpgradedAtSeconds: now.UTC().Unix(),
		}).Error
	})
	if err != nil {
		return previousVersion, err
	}

	if previousVersion != version {
		logger.Info("store schema upgraded",
			zap.String("store", name),
			zap.Int("from_version", previousVersion),
			zap.Int("to_version", version))
	}
	return previousVersion, nil
}
