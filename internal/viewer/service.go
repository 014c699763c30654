package viewer

import (
	"context"
	"fmt"
	"time"

	"gamespace/internal/bookings"
	"gamespace/internal/rooms"
	"gamespace/internal/scene"
	"gamespace/internal/session"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"
)

// viewerLock serialises the writes of one session's viewer state
const viewerLock = "viewer"

type Config struct {
	MaxDaysAhead int
	Pricing      bookings.Pricing
}

// Service drives the room viewer and its booking modal for one session
type Service interface {
	Snapshot(ctx context.Context, s *session.Session) (*Snapshot, error)
	EnterRoom(ctx context.Context, s *session.Session, roomID string, mode scene.Mode) (*Snapshot, error)
	LeaveRoom(ctx context.Context, s *session.Session) error

	SeatClick(ctx context.Context, s *session.Session, tableID string, seatNumber int) (*bookings.ModalView, error)
	TableClick(ctx context.Context, s *session.Session, tableID string) (*bookings.ModalView, error)

	Modal(ctx context.Context, s *session.Session) (*bookings.ModalView, error)
	CloseModal(ctx context.Context, s *session.Session) error
	SelectDate(ctx context.Context, s *session.Session, date string) (*bookings.ModalView, error)
	SelectSlot(ctx context.Context, s *session.Session, key string) (*bookings.ModalView, error)
	SelectPlayers(ctx context.Context, s *session.Session, players string) (*bookings.ModalView, error)
	// Submit returns the upstream error alongside a result carrying the
	// modal with the message to show
	Submit(ctx context.Context, s *session.Session) (*SubmitResult, error)
}

type service struct {
	rooms    rooms.Service
	scene    scene.Service
	bookings bookings.Service
	sessions *session.Manager
	cfg      Config
	now      func() time.Time
}

func NewService(roomService rooms.Service, sceneService scene.Service, bookingService bookings.Service, sessions *session.Manager, cfg Config) Service {
	return &service{
		rooms:    roomService,
		scene:    sceneService,
		bookings: bookingService,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (v *service) load(s *session.Session) (*State, error) {
	var st State
	if _, err := s.Load(stateKey, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (v *service) save(ctx context.Context, s *session.Session, st *State) error {
	if err := s.Put(stateKey, st); err != nil {
		return err
	}
	if err := v.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("save viewer state: %w", err)
	}
	return nil
}

// lock takes the session's viewer lock and reloads the session from the
// store, so the caller sees every write made by earlier holders. The returned
// context expires before the lock does.
func (v *service) lock(ctx context.Context, s *session.Session) (context.Context, *State, func(), error) {
	release, err := v.sessions.TryLock(ctx, s, viewerLock)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, v.sessions.LockTTL()*3/4)
	unlock := func() {
		cancel()
		release()
	}

	if err := v.sessions.Reload(ctx, s); err != nil {
		unlock()
		return nil, nil, nil, err
	}
	st, err := v.load(s)
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}
	v.expireSubmit(s, st)
	return ctx, st, unlock, nil
}

// expireSubmit clears a submission flag older than the lock. Its owner
// never finished, since a finished submission always clears it.
func (v *service) expireSubmit(s *session.Session, st *State) {
	if st.Modal == nil || !st.Modal.Submitting {
		return
	}
	if v.now().Sub(st.SubmitStartedAt) < v.sessions.LockTTL() {
		return
	}
	logger.GetDefault().WithSessionID(s.ID).Warn("Clearing abandoned booking submission",
		"table_id", st.Modal.Draft.TableID,
		"started_at", st.SubmitStartedAt,
	)
	st.Modal.AbortSubmit()
	st.SubmitStartedAt = time.Time{}
}

func (v *service) today() string {
	return rooms.Today(v.now())
}

func (v *service) modalView(st *State) *bookings.ModalView {
	if st.Modal == nil {
		return nil
	}
	view := bookings.NewModalView(st.Modal, v.cfg.Pricing)
	return &view
}

func (v *service) Snapshot(ctx context.Context, s *session.Session) (*Snapshot, error) {
	st, err := v.load(s)
	if err != nil {
		return nil, err
	}
	return v.snapshot(ctx, st)
}

func (v *service) snapshot(ctx context.Context, st *State) (*Snapshot, error) {
	snap := &Snapshot{
		RoomID:      st.RoomID,
		Draft:       st.Draft,
		Modal:       v.modalView(st),
		LastBooking: st.LastBooking,
		Notice:      st.Notice,
	}
	if st.RoomID == "" {
		return snap, nil
	}

	room, err := v.rooms.GetRoom(ctx, st.RoomID)
	if err != nil {
		return nil, err
	}
	date := v.today()
	avail, err := v.rooms.GetAvailability(ctx, date)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to load room availability", err, map[string]interface{}{
			"room_id": st.RoomID,
		})
	}
	detail := rooms.NewDetailResponse(*room, date, avail)
	snap.Room = &detail

	layout := v.scene.Layout(ctx, st.RoomID, scene.ParseMode(string(st.Mode)))
	snap.Layout = &layout
	snap.Stats = &layout.Stats
	return snap, nil
}

func (v *service) EnterRoom(ctx context.Context, s *session.Session, roomID string, mode scene.Mode) (*Snapshot, error) {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if st.Modal != nil && st.Modal.Submitting {
		return nil, bookings.ErrSubmitInFlight
	}

	next := &State{RoomID: roomID, Mode: mode}
	snap, err := v.snapshot(ctx, next)
	if err != nil {
		return nil, err
	}
	if err := v.save(ctx, s, next); err != nil {
		return nil, err
	}
	return snap, nil
}

func (v *service) LeaveRoom(ctx context.Context, s *session.Session) error {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return err
	}
	defer unlock()
	if st.Modal != nil && st.Modal.Submitting {
		return bookings.ErrSubmitInFlight
	}
	return v.save(ctx, s, &State{})
}

func (v *service) layout(ctx context.Context, st *State) (scene.RoomView, error) {
	if st.RoomID == "" {
		return scene.RoomView{}, ErrNoRoom
	}
	view := v.scene.Layout(ctx, st.RoomID, scene.ParseMode(string(st.Mode)))
	if view.State == scene.StateError {
		return view, fmt.Errorf("room layout: %s", view.Message)
	}
	return view, nil
}

func (v *service) SeatClick(ctx context.Context, s *session.Session, tableID string, seatNumber int) (*bookings.ModalView, error) {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()
	view, err := v.layout(ctx, st)
	if err != nil {
		return nil, err
	}

	sel, ok := view.SeatClick(tableID, seatNumber)
	if !ok {
		if _, _, known := view.TableClick(tableID); !known {
			return nil, ErrUnknownTable
		}
		return nil, ErrSeatUnavailable
	}
	return v.open(ctx, s, st, bookings.NewSeatDraft(sel.TableID, sel.TableName, sel.SeatNumber))
}

func (v *service) TableClick(ctx context.Context, s *session.Session, tableID string) (*bookings.ModalView, error) {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()
	view, err := v.layout(ctx, st)
	if err != nil {
		return nil, err
	}

	sel, status, ok := view.TableClick(tableID)
	if !ok {
		return nil, ErrUnknownTable
	}
	if !status.IsAvailable() {
		return nil, ErrTableUnavailable
	}
	return v.open(ctx, s, st, bookings.NewTableDraft(sel.TableID, sel.TableName))
}

// open replaces any open modal with one for d, preset to today's slots
func (v *service) open(ctx context.Context, s *session.Session, st *State, d bookings.Draft) (*bookings.ModalView, error) {
	if st.Modal != nil && st.Modal.Submitting {
		return nil, bookings.ErrSubmitInFlight
	}
	modal, err := bookings.OpenModal(d, v.now(), v.cfg.MaxDaysAhead)
	if err != nil {
		return nil, err
	}
	st.Draft = &d
	st.Modal = modal
	st.Notice = ""

	v.loadSlots(ctx, modal, v.today())
	if err := v.save(ctx, s, st); err != nil {
		return nil, err
	}
	return v.modalView(st), nil
}

// loadSlots selects date and fetches its slots; fetch failures end up on
// the modal
func (v *service) loadSlots(ctx context.Context, m *bookings.Modal, date string) error {
	if err := m.SelectDate(date); err != nil {
		return err
	}
	slots, err := v.bookings.GetAvailableSlots(ctx, m.Draft.TableID, date)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to load time slots", err, map[string]interface{}{
			"table_id": m.Draft.TableID,
			"date":     date,
		})
	}
	m.SlotsLoaded(date, slots, err)
	return nil
}

func (v *service) withModal(ctx context.Context, s *session.Session, fn func(context.Context, *State) error) (*bookings.ModalView, error) {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if st.Modal == nil {
		return nil, ErrNoModal
	}
	if err := fn(ctx, st); err != nil {
		return nil, err
	}
	if err := v.save(ctx, s, st); err != nil {
		return nil, err
	}
	return v.modalView(st), nil
}

func (v *service) Modal(ctx context.Context, s *session.Session) (*bookings.ModalView, error) {
	st, err := v.load(s)
	if err != nil {
		return nil, err
	}
	if st.Modal == nil {
		return nil, ErrNoModal
	}
	return v.modalView(st), nil
}

func (v *service) CloseModal(ctx context.Context, s *session.Session) error {
	_, err := v.withModal(ctx, s, func(_ context.Context, st *State) error {
		if st.Modal.Submitting {
			return bookings.ErrSubmitInFlight
		}
		st.closeModal()
		return nil
	})
	return err
}

func (v *service) SelectDate(ctx context.Context, s *session.Session, date string) (*bookings.ModalView, error) {
	return v.withModal(ctx, s, func(ctx context.Context, st *State) error {
		return v.loadSlots(ctx, st.Modal, date)
	})
}

func (v *service) SelectSlot(ctx context.Context, s *session.Session, key string) (*bookings.ModalView, error) {
	return v.withModal(ctx, s, func(_ context.Context, st *State) error {
		return st.Modal.SelectSlot(key)
	})
}

func (v *service) SelectPlayers(ctx context.Context, s *session.Session, players string) (*bookings.ModalView, error) {
	return v.withModal(ctx, s, func(_ context.Context, st *State) error {
		return st.Modal.SelectPlayers(players)
	})
}

func (v *service) Submit(ctx context.Context, s *session.Session) (*SubmitResult, error) {
	ctx, st, unlock, err := v.lock(ctx, s)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if st.Modal == nil {
		return nil, ErrNoModal
	}
	if st.Modal.Submitting {
		return nil, bookings.ErrSubmitInFlight
	}

	req, err := st.Modal.BeginSubmit()
	if err != nil {
		return nil, err
	}
	st.SubmitStartedAt = v.now()
	if err := v.save(ctx, s, st); err != nil {
		return nil, err
	}

	booking, createErr := v.bookings.CreateBooking(ctx, s.Username(), req)
	message := ""
	if createErr != nil {
		message = apiclient.MessageOf(createErr, "")
	}
	confirmed, err := st.Modal.Complete(booking, message)
	if err != nil {
		return nil, err
	}
	st.SubmitStartedAt = time.Time{}

	result := &SubmitResult{Confirmed: confirmed}
	if confirmed {
		result.Booking = booking
		result.Notice = st.Modal.Notice
		st.LastBooking = booking
		st.Notice = st.Modal.Notice
		st.closeModal()
	} else {
		result.Modal = v.modalView(st)
	}

	// the outcome is recorded even when the request or its deadline is gone
	if err := v.save(context.WithoutCancel(ctx), s, st); err != nil {
		return nil, err
	}
	return result, createErr
}
