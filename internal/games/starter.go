package games

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

// Starter is the inventory a fresh database is seeded with
func Starter() []Game {
	return []Game{
		{Game: "Catan", PlayersMin: intp(3), PlayersMax: intp(4), PlayTimeMins: intp(90), AgeGroup: intp(10),
			BGGRating: floatp(7.1), BGGOverallRanking: intp(517),
			Categories: []string{"Economic", "Negotiation"}, Mechanisms: []string{"Dice Rolling", "Trading", "Network and Route Building"}},
		{Game: "Ticket to Ride", PlayersMin: intp(2), PlayersMax: intp(5), PlayTimeMins: intp(60), AgeGroup: intp(8),
			BGGRating: floatp(7.4), BGGOverallRanking: intp(229),
			Categories: []string{"Trains"}, Mechanisms: []string{"Set Collection", "Hand Management"}},
		{Game: "Pandemic", PlayersMin: intp(2), PlayersMax: intp(4), PlayTimeMins: intp(45), AgeGroup: intp(8),
			BGGRating: floatp(7.5), BGGOverallRanking: intp(155),
			Categories: []string{"Medical"}, Mechanisms: []string{"Cooperative Game", "Action Points", ""}},
		{Game: "Wingspan", PlayersMin: intp(1), PlayersMax: intp(5), PlayTimeMins: intp(70), AgeGroup: intp(10),
			BGGRating: floatp(8.0), BGGOverallRanking: intp(27),
			Categories: []string{"Animals", "Card Game"}, Mechanisms: []string{"Engine Building", "Dice Rolling"}},
		{Game: "Codenames", PlayersMin: intp(2), PlayersMax: intp(8), PlayTimeMins: intp(15), AgeGroup: intp(14),
			BGGRating: floatp(7.6), BGGOverallRanking: intp(131),
			Categories: []string{"Party Game", "Word Game"}, Mechanisms: []string{"Team-Based Game"}},
		{Game: "Azul", PlayersMin: intp(2), PlayersMax: intp(4), PlayTimeMins: intp(45), AgeGroup: intp(8),
			BGGRating: floatp(7.7), BGGOverallRanking: intp(88),
			Categories: []string{"Abstract Strategy"}, Mechanisms: []string{"Pattern Building", "Tile Placement"}},
		{Game: "Gloomhaven", PlayersMin: intp(1), PlayersMax: intp(4), PlayTimeMins: intp(120), AgeGroup: intp(14),
			BGGRating: floatp(8.6), BGGOverallRanking: intp(3),
			Categories: []string{"Adventure", "Fantasy"}, Mechanisms: []string{"Campaign", "Hand Management"}},
		{Game: "Dixit", PlayersMin: intp(3), PlayersMax: intp(6), PlayTimeMins: intp(30), AgeGroup: intp(8),
			Categories: []string{"Party Game"}, Mechanisms: []string{"Storytelling"}},
		{Game: "House Chess Set"},
	}
}
