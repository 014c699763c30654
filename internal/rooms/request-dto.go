package rooms

// DateQuery picks the day the availability is read for; empty means today
type DateQuery struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}
