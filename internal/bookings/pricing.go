package bookings

import (
	"strconv"
)

// Full table pricing policies
const (
	PricingFlat      = "flat"
	PricingPerPlayer = "per_player"
)

// Pricing produces the illustrative price shown in the modal. The API
// decides what is actually charged.
type Pricing struct {
	Mode           string
	SeatPrice      float64
	FullTableFlat  float64
	PerPlayerPrice float64
}

type Quote struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
	Note   string  `json:"note"`
}

const quoteNote = "Includes table/seat, basic game library access, and refreshments"

func (p Pricing) Quote(d Draft, players int) Quote {
	q := Quote{Label: "Seat reservation (2 hours)", Amount: p.SeatPrice, Note: quoteNote}
	if d.IsFullTable {
		q.Label = "Table reservation (2 hours)"
		q.Amount = p.FullTableFlat
		if p.Mode == PricingPerPlayer {
			q.Amount = float64(players) * p.PerPlayerPrice
		}
	}
	q.Text = "$" + strconv.FormatFloat(q.Amount, 'f', -1, 64)
	return q
}
