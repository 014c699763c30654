package viewer

type EnterRoomRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	View   string `json:"view" validate:"omitempty,oneof=2d 3d 2D 3D"`
}

type SeatClickRequest struct {
	TableID    string `json:"tableId" validate:"required"`
	SeatNumber int    `json:"seatNumber" validate:"required,min=1"`
}

type TableClickRequest struct {
	TableID string `json:"tableId" validate:"required"`
}

type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type SelectSlotRequest struct {
	Slot string `json:"slot" validate:"required"`
}

type SelectPlayersRequest struct {
	Players string `json:"players" validate:"required,numeric"`
}
