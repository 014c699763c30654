package games

// ListQuery narrows the inventory; zero values match everything
type ListQuery struct {
	Category string `form:"category" validate:"omitempty,max=100"`
	Players  int    `form:"players" validate:"omitempty,min=1,max=20"`
	Search   string `form:"search" validate:"omitempty,max=100"`
}
