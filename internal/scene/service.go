package scene

import (
	"context"

	"gamespace/internal/tables"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"
)

type Service interface {
	// Layout never fails; a fetch error comes back as a view in StateError
	Layout(ctx context.Context, roomID string, mode Mode) RoomView
}

type service struct {
	tables tables.Service
}

func NewService(tableService tables.Service) Service {
	return &service{tables: tableService}
}

func (s *service) Layout(ctx context.Context, roomID string, mode Mode) RoomView {
	ts, err := s.tables.ListByRoom(ctx, roomID)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to load room layout", err, map[string]interface{}{
			"room_id": roomID,
			"source":  s.tables.Source(),
		})
		return Failed(roomID, mode, apiclient.MessageOf(err, "Failed to load room layout"))
	}
	return Build(roomID, mode, ts)
}
