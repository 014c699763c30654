package database

import (
	"gorm.io/gorm"
)

// MigrateIndexes adds the indexes AutoMigrate cannot express
func MigrateIndexes(db *gorm.DB) error {
	// category filter on the inventory page
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_games_categories
		ON games USING GIN (categories);
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_games_bgg_ranking
		ON games (bgg_overall_ranking)
		WHERE bgg_overall_ranking IS NOT NULL;
	`).Error
}
