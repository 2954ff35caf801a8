package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationBackfillTopDigitsMode = "2026-07-21_backfill_top_digits_mode"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillTopDigitsMode, apply: backfillTopDigitsMode},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// Rows written before mode and top_digits_mode became dedicated columns carry
// those values only inside the config blob. Lift them out so list queries and
// responses see consistent classification fields.
func backfillTopDigitsMode(db *gorm.DB) error {
	const liftTopDigits = `UPDATE histories
		SET top_digits_mode = COALESCE(json_extract(config, '$.topDigitsMode'), top_digits_mode)
		WHERE top_digits_mode = 0 AND json_valid(config);`
	if err := db.Exec(liftTopDigits).Error; err != nil {
		return err
	}
	const liftMode = `UPDATE histories
		SET mode = COALESCE(json_extract(config, '$.mode'), mode)
		WHERE mode = '' AND json_valid(config);`
	return db.Exec(liftMode).Error
}
