package bookings

import "strconv"

// BookingResponse decorates a booking with display fields
type BookingResponse struct {
	Booking
	TimeRange   string `json:"timeRange"`
	Cancellable bool   `json:"cancellable"`
}

func NewBookingResponse(b Booking) BookingResponse {
	return BookingResponse{
		Booking:     b,
		TimeRange:   b.TimeRange(),
		Cancellable: b.Status.CanBeCancelled(),
	}
}

func NewBookingResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

// SlotOption is one entry of the slot picker
type SlotOption struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// ModalView is the booking modal as the page renders it
type ModalView struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	SubmitLabel          string       `json:"submitLabel"`
	Draft                Draft        `json:"draft"`
	Phase                Phase        `json:"phase"`
	MinDate              string       `json:"minDate"`
	MaxDate              string       `json:"maxDate"`
	Date                 string       `json:"date,omitempty"`
	SlotPlaceholder      string       `json:"slotPlaceholder"`
	SlotSelectorDisabled bool         `json:"slotSelectorDisabled"`
	Slots                []SlotOption `json:"slots"`
	SelectedSlot         string       `json:"selectedSlot,omitempty"`
	PlayerOptions        []string     `json:"playerOptions"`
	Players              string       `json:"players,omitempty"`
	CanSubmit            bool         `json:"canSubmit"`
	Submitting           bool         `json:"submitting"`
	Price                Quote        `json:"price"`
	Error                string       `json:"error,omitempty"`
	Notice               string       `json:"notice,omitempty"`
}

func NewModalView(m *Modal, pricing Pricing) ModalView {
	players, _ := strconv.Atoi(m.Players)
	return ModalView{
		Title:                m.Draft.Title(),
		Description:          m.Draft.Description(),
		SubmitLabel:          m.Draft.SubmitLabel(),
		Draft:                m.Draft,
		Phase:                m.Phase,
		MinDate:              m.MinDate,
		MaxDate:              m.MaxDate,
		Date:                 m.Date,
		SlotPlaceholder:      m.SlotPlaceholder(),
		SlotSelectorDisabled: m.SlotsLoading || m.Submitting || m.Date == "",
		Slots:                m.SlotOptions(),
		SelectedSlot:         m.SlotKey,
		PlayerOptions:        m.Draft.PlayerOptions(),
		Players:              m.Players,
		CanSubmit:            m.CanSubmit(),
		Submitting:           m.Submitting,
		Price:                pricing.Quote(m.Draft, players),
		Error:                m.Error,
		Notice:               m.Notice,
	}
}
