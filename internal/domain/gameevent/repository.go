package gameevent

import "context"

// SprayChartFilter narrows profile spray-chart queries; zero values mean "all".
type SprayChartFilter struct {
	SeasonID   int64
	ShotTypeID int64
}

// Repository describes game-event operations owned by the backend of record.
type Repository interface {
	ListForSprayChart(ctx context.Context, gameID int64, filter SprayChartFilter) ([]Record, error)
	Create(ctx context.Context, rec Record) (int64, error)
	Update(ctx context.Context, eventID int64, rec Record) error
	Delete(ctx context.Context, eventID int64) error
}
