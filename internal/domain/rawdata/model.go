package rawdata

import "time"

// Payload is one archived upstream response body.
type Payload struct {
	Source          string
	EntityType      string
	EntityKey       string
	GameID          int64
	PayloadJSON     string
	PayloadHash     string
	SourceUpdatedAt *time.Time
	IngestedAt      time.Time
}

// Key identifies the archived row a payload replaces.
type Key struct {
	Source     string
	EntityType string
	EntityKey  string
}

func (p Payload) Key() Key {
	return Key{Source: p.Source, EntityType: p.EntityType, EntityKey: p.EntityKey}
}
