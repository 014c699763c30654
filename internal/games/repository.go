package games

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	List(ctx context.Context, search string) ([]Game, error)
	Upsert(ctx context.Context, games []Game) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, search string) ([]Game, error) {
	var games []Game
	query := r.db.WithContext(ctx).Model(&Game{})
	if search != "" {
		query = query.Where("game ILIKE ?", "%"+search+"%")
	}
	if err := query.Order("game ASC").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// Upsert inserts games, updating rows whose title already exists
func (r *repository) Upsert(ctx context.Context, games []Game) error {
	if len(games) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"players_min", "players_max", "play_time_mins", "age_group",
			"bgg_rating", "bgg_overall_ranking", "categories", "mechanisms", "updated_at",
		}),
	}).CreateInBatches(games, 100).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Game{}).Count(&n).Error
	return n, err
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Game{}).Error
}
