package tables

// query for GET /tables/available
type AvailableTablesQuery struct {
	GameType    string `form:"gameType" validate:"omitempty,max=50"`
	MinCapacity int    `form:"minCapacity" validate:"omitempty,min=1,max=20"`
}
