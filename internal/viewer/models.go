package viewer

import (
	"errors"
	"time"

	"gamespace/internal/bookings"
	"gamespace/internal/rooms"
	"gamespace/internal/scene"
)

// stateKey is where the viewer keeps its state inside the session
const stateKey = "viewer"

// State is the room viewer's per-session state. Draft and Modal are set
// together: a draft exists exactly while its modal is open.
type State struct {
	RoomID      string            `json:"roomId,omitempty"`
	Mode        scene.Mode        `json:"mode,omitempty"`
	Draft       *bookings.Draft   `json:"draft,omitempty"`
	Modal       *bookings.Modal   `json:"modal,omitempty"`
	LastBooking *bookings.Booking `json:"lastBooking,omitempty"`
	Notice      string            `json:"notice,omitempty"`

	// SubmitStartedAt is set while Modal.Submitting is
	SubmitStartedAt time.Time `json:"submitStartedAt"`
}

func (st *State) closeModal() {
	st.Draft = nil
	st.Modal = nil
}

// Snapshot is everything the room viewer page renders
type Snapshot struct {
	RoomID      string                `json:"roomId,omitempty"`
	Room        *rooms.DetailResponse `json:"room,omitempty"`
	Layout      *scene.RoomView       `json:"layout,omitempty"`
	Stats       *scene.Stats          `json:"stats,omitempty"`
	Draft       *bookings.Draft       `json:"draft,omitempty"`
	Modal       *bookings.ModalView   `json:"modal,omitempty"`
	LastBooking *bookings.Booking     `json:"lastBooking,omitempty"`
	Notice      string                `json:"notice,omitempty"`
}

// SubmitResult is the outcome of a modal submission
type SubmitResult struct {
	Confirmed bool                `json:"confirmed"`
	Booking   *bookings.Booking   `json:"booking,omitempty"`
	Notice    string              `json:"notice,omitempty"`
	Modal     *bookings.ModalView `json:"modal,omitempty"`
}

var (
	ErrNoRoom           = errors.New("no room selected")
	ErrUnknownTable     = errors.New("table not in this room")
	ErrSeatUnavailable  = errors.New("seat is not available")
	ErrTableUnavailable = errors.New("table is not available")
	ErrNoModal          = errors.New("no booking in progress")
)
