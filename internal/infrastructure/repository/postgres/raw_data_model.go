package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/rawdata"
)

type rawDataPayloadInsertModel struct {
	Source          string     `db:"source"`
	EntityType      string     `db:"entity_type"`
	EntityKey       string     `db:"entity_key"`
	GameID          *int64     `db:"game_id"`
	Payload         string     `db:"payload"`
	PayloadHash     string     `db:"payload_hash"`
	SourceUpdatedAt *time.Time `db:"source_updated_at"`
}

type rawDataPayloadRow struct {
	Source          string        `db:"source"`
	EntityType      string        `db:"entity_type"`
	EntityKey       string        `db:"entity_key"`
	GameID          sql.NullInt64 `db:"game_id"`
	Payload         string        `db:"payload"`
	PayloadHash     string        `db:"payload_hash"`
	SourceUpdatedAt sql.NullTime  `db:"source_updated_at"`
	IngestedAt      time.Time     `db:"ingested_at"`
}

func (r rawDataPayloadRow) toDomain() rawdata.Payload {
	out := rawdata.Payload{
		Source:      r.Source,
		EntityType:  r.EntityType,
		EntityKey:   r.EntityKey,
		GameID:      r.GameID.Int64,
		PayloadJSON: r.Payload,
		PayloadHash: r.PayloadHash,
		IngestedAt:  r.IngestedAt,
	}
	if r.SourceUpdatedAt.Valid {
		ts := r.SourceUpdatedAt.Time
		out.SourceUpdatedAt = &ts
	}
	return out
}
