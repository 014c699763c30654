package bookings

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

type Phase string

const (
	PhaseSelectingDate Phase = "selecting-date"
	PhaseLoadingSlots  Phase = "loading-slots"
	PhaseSlotsLoaded   Phase = "slots-loaded"
	PhaseSubmitting    Phase = "submitting"
	PhaseConfirmed     Phase = "confirmed"
	PhaseFailed        Phase = "failed"
)

const (
	LoadingSlotsLabel   = "Loading slots..."
	ChooseSlotLabel     = "Choose time slot"
	NoSlotsLabel        = "No slots available"
	CreateFailedMessage = "Failed to create booking. Please try again."
	SlotsFailedMessage  = "Failed to load time slots"
	DefaultMaxDaysAhead = 30
	dateLayout          = "2006-01-02"
)

var (
	ErrDateOutOfRange  = errors.New("date outside the booking window")
	ErrSlotUnavailable = errors.New("time slot is not available")
	ErrInvalidPlayers  = errors.New("player count not offered for this booking")
	ErrFormIncomplete  = errors.New("booking form incomplete")
	ErrNotSubmitting   = errors.New("no submission in flight")
	ErrSubmitInFlight  = errors.New("booking submission in flight")
)

// Modal is the booking modal's state. It is plain data so a session can
// store it between requests; every transition is a method.
type Modal struct {
	Draft        Draft      `json:"draft"`
	Phase        Phase      `json:"phase"`
	MinDate      string     `json:"minDate"`
	MaxDate      string     `json:"maxDate"`
	Date         string     `json:"date,omitempty"`
	Slots        []TimeSlot `json:"slots,omitempty"`
	SlotsLoading bool       `json:"slotsLoading"`
	SlotKey      string     `json:"slotKey,omitempty"`
	Players      string     `json:"players,omitempty"`
	Submitting   bool       `json:"submitting"`
	Error        string     `json:"error,omitempty"`
	Notice       string     `json:"notice,omitempty"`
	Booking      *Booking   `json:"booking,omitempty"`
}

// OpenModal starts a modal for d with the date window [today, today+maxDaysAhead]
func OpenModal(d Draft, today time.Time, maxDaysAhead int) (*Modal, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if maxDaysAhead <= 0 {
		maxDaysAhead = DefaultMaxDaysAhead
	}
	return &Modal{
		Draft:   d,
		Phase:   PhaseSelectingDate,
		MinDate: today.Format(dateLayout),
		MaxDate: today.AddDate(0, 0, maxDaysAhead).Format(dateLayout),
		Players: d.DefaultPlayers(),
	}, nil
}

// DateSelectable reports whether date (YYYY-MM-DD) lies inside the window;
// both ends are selectable
func (m *Modal) DateSelectable(date string) bool {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false
	}
	return date >= m.MinDate && date <= m.MaxDate
}

// SelectDate moves to loading-slots for date and drops any chosen slot
func (m *Modal) SelectDate(date string) error {
	if m.Submitting {
		return ErrSubmitInFlight
	}
	if !m.DateSelectable(date) {
		return fmt.Errorf("%w: %s", ErrDateOutOfRange, date)
	}
	m.Date = date
	m.Slots = nil
	m.SlotKey = ""
	m.SlotsLoading = true
	m.Error = ""
	m.Phase = PhaseLoadingSlots
	return nil
}

// SlotsLoaded records the slot fetch for date. A result for a date that is
// no longer selected is dropped.
func (m *Modal) SlotsLoaded(date string, slots []TimeSlot, err error) bool {
	if date != m.Date || !m.SlotsLoading {
		return false
	}
	m.SlotsLoading = false
	m.Phase = PhaseSlotsLoaded
	if err != nil {
		m.Slots = []TimeSlot{}
		m.Error = SlotsFailedMessage
		return true
	}
	m.Slots = slots
	return true
}

func (m *Modal) SelectSlot(key string) error {
	if m.Submitting {
		return ErrSubmitInFlight
	}
	if m.SlotsLoading {
		return ErrSlotUnavailable
	}
	slot, ok := m.slot(key)
	if !ok || !slot.IsAvailable {
		return ErrSlotUnavailable
	}
	m.SlotKey = key
	return nil
}

func (m *Modal) SelectPlayers(players string) error {
	if m.Submitting {
		return ErrSubmitInFlight
	}
	for _, opt := range m.Draft.PlayerOptions() {
		if opt == players {
			m.Players = players
			return nil
		}
	}
	return ErrInvalidPlayers
}

func (m *Modal) slot(key string) (TimeSlot, bool) {
	if key == "" {
		return TimeSlot{}, false
	}
	for _, s := range m.Slots {
		if s.Key() == key {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// CanSubmit is true iff a date, an available slot and a player count are set
// and nothing is in flight
func (m *Modal) CanSubmit() bool {
	if m.Submitting || m.SlotsLoading || m.Date == "" || m.Players == "" {
		return false
	}
	slot, ok := m.slot(m.SlotKey)
	return ok && slot.IsAvailable
}

// BeginSubmit marks the submission in flight and returns the request to send
func (m *Modal) BeginSubmit() (CreateBookingRequest, error) {
	if !m.CanSubmit() {
		return CreateBookingRequest{}, ErrFormIncomplete
	}
	players, err := strconv.Atoi(m.Players)
	if err != nil {
		return CreateBookingRequest{}, ErrInvalidPlayers
	}
	slot, _ := m.slot(m.SlotKey)

	m.Submitting = true
	m.Error = ""
	m.Phase = PhaseSubmitting
	return CreateBookingRequest{
		TableID:         m.Draft.TableID,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		NumberOfPlayers: players,
		SeatID:          m.Draft.SeatID,
	}, nil
}

// Complete finishes the in-flight submission. message is the text shown on
// failure. The returned bool is true when the booking was confirmed.
func (m *Modal) Complete(booking *Booking, message string) (bool, error) {
	if !m.Submitting {
		return false, ErrNotSubmitting
	}
	m.Submitting = false

	if booking == nil {
		if message == "" {
			message = CreateFailedMessage
		}
		m.Error = message
		m.Phase = PhaseFailed
		return false, nil
	}

	m.Booking = booking
	m.Phase = PhaseConfirmed
	m.Notice = "Booking confirmed for " + booking.TimeRange()
	return true, nil
}

// SlotOptions renders the slot picker; every option is disabled while
// loading or submitting
func (m *Modal) SlotOptions() []SlotOption {
	opts := make([]SlotOption, 0, len(m.Slots))
	for _, s := range m.Slots {
		opts = append(opts, SlotOption{
			Key:      s.Key(),
			Label:    s.Label(),
			Disabled: !s.IsAvailable || m.SlotsLoading || m.Submitting,
		})
	}
	return opts
}

// SlotPlaceholder is the text the slot selector shows when nothing is chosen
func (m *Modal) SlotPlaceholder() string {
	switch {
	case m.SlotsLoading:
		return LoadingSlotsLabel
	case m.Date != "" && !m.hasAvailableSlot():
		return NoSlotsLabel
	default:
		return ChooseSlotLabel
	}
}

func (m *Modal) hasAvailableSlot() bool {
	for _, s := range m.Slots {
		if s.IsAvailable {
			return true
		}
	}
	return false
}

// AbortSubmit clears an in-flight flag whose request never completed, for
// instance when the process serving it went away
func (m *Modal) AbortSubmit() {
	if !m.Submitting {
		return
	}
	m.Submitting = false
	m.Error = CreateFailedMessage
	m.Phase = PhaseFailed
}
