package rawdata

import "context"

// Repository archives upstream payloads keyed by (source, entity type, key).
// Re-upserting an unchanged hash is a no-op.
type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
	Get(ctx context.Context, key Key) (Payload, bool, error)
}
