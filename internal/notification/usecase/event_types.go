package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

type EventTypeOption struct {
	Value string
	Label string
}

func (s *Usecase) EventTypes(ctx context.Context) ([]EventTypeOption, error) {
	ctx, span := s.startSpan(ctx, "EventTypes")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, permObjLogs, permActView); err != nil {
		return nil, err
	}

	return lo.Map(entity.EventTypes(), func(e entity.EventType, _ int) EventTypeOption {
		return EventTypeOption{Value: e.String(), Label: e.Label()}
	}), nil
}
