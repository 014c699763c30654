package rooms

// DetailResponse is the room viewer header: one room plus its availability
type DetailResponse struct {
	Room         Room          `json:"room"`
	Date         string        `json:"date"`
	Availability *Availability `json:"availability,omitempty"`
	TablesLabel  string        `json:"tablesLabel"`
	StatusLabel  string        `json:"statusLabel"`
}

func NewDetailResponse(room Room, date string, avail []Availability) DetailResponse {
	resp := DetailResponse{
		Room:        room,
		Date:        date,
		TablesLabel: NoData,
		StatusLabel: room.Status.Label(),
	}
	for i := range avail {
		if avail[i].RoomID == room.ID {
			a := avail[i]
			resp.Availability = &a
			resp.TablesLabel = newCard(room, a, true).TablesLabel
			break
		}
	}
	return resp
}
