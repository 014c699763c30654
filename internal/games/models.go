package games

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotAvailable is shown for any attribute the inventory does not know
const NotAvailable = "N/A"

// Game is one title on the shelves of the venue
type Game struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Game              string    `json:"game" gorm:"not null;size:255;uniqueIndex"`
	PlayersMin        *int      `json:"players_min" gorm:"check:players_min > 0"`
	PlayersMax        *int      `json:"players_max"`
	PlayTimeMins      *int      `json:"play_time_mins"`
	AgeGroup          *int      `json:"age_group"`
	BGGRating         *float64  `json:"bgg_rating" gorm:"column:bgg_rating"`
	BGGOverallRanking *int      `json:"bgg_overall_ranking" gorm:"column:bgg_overall_ranking"`
	Categories        []string  `json:"categories" gorm:"type:jsonb;serializer:json"`
	Mechanisms        []string  `json:"mechanisms" gorm:"type:jsonb;serializer:json"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Card is a game as the inventory page renders it
type Card struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Players    string   `json:"players"`
	PlayTime   string   `json:"play_time"`
	Age        string   `json:"age"`
	BGG        string   `json:"bgg,omitempty"`
	Categories []string `json:"categories"`
	Mechanisms []string `json:"mechanisms"`
}

// NewCard renders g. Players show as "2-4" only when both bounds are
// known; BGG is omitted without a rating.
func NewCard(g Game) Card {
	card := Card{
		ID:         g.ID.String(),
		Title:      g.Game,
		Players:    NotAvailable,
		PlayTime:   orNA(g.PlayTimeMins) + " mins",
		Age:        orNA(g.AgeGroup) + "+",
		Categories: nonEmpty(g.Categories),
		Mechanisms: nonEmpty(g.Mechanisms),
	}
	if g.PlayersMin != nil && g.PlayersMax != nil && *g.PlayersMin > 0 && *g.PlayersMax > 0 {
		card.Players = strconv.Itoa(*g.PlayersMin) + "-" + strconv.Itoa(*g.PlayersMax)
	}
	if g.BGGRating != nil && *g.BGGRating > 0 {
		card.BGG = strconv.FormatFloat(*g.BGGRating, 'f', -1, 64)
		if g.BGGOverallRanking != nil && *g.BGGOverallRanking > 0 {
			card.BGG += " (#" + strconv.Itoa(*g.BGGOverallRanking) + ")"
		}
	}
	return card
}

func NewCards(gs []Game) []Card {
	cards := make([]Card, 0, len(gs))
	for _, g := range gs {
		cards = append(cards, NewCard(g))
	}
	return cards
}

// Fits reports whether the game can be played by n people
func (g Game) Fits(n int) bool {
	if g.PlayersMin != nil && n < *g.PlayersMin {
		return false
	}
	if g.PlayersMax != nil && n > *g.PlayersMax {
		return false
	}
	return true
}

func (g Game) HasCategory(category string) bool {
	for _, c := range g.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func orNA(v *int) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var ErrInventoryUnavailable = errors.New("games inventory is not available")
