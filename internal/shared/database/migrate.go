package database

import (
	"gamespace/internal/games"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&games.Game{}); err != nil {
		return err
	}
	return MigrateIndexes(db)
}
