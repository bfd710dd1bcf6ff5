package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/rawdata"
	qb "github.com/riskibarqy/hockey-dashboard/internal/platform/querybuilder"
)

const rawDataTable = "raw_data_payloads"

// An unchanged hash leaves the row (and its ingested_at) untouched.
const rawDataUpsertSuffix = `ON CONFLICT (source, entity_type, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    game_id = EXCLUDED.game_id,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    source_updated_at = EXCLUDED.source_updated_at,
    ingested_at = NOW(),
    deleted_at = NULL
WHERE raw_data_payloads.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	models := dedupeRawPayloads(items)
	if len(models) == 0 {
		return nil
	}

	query, args, err := qb.InsertModels(rawDataTable, models, rawDataUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert raw payload query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d raw payloads: %w", len(models), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}
	return nil
}

func (r *RawDataRepository) Get(ctx context.Context, key rawdata.Key) (rawdata.Payload, bool, error) {
	query, args, err := qb.Select(qb.Columns(rawDataPayloadRow{})...).
		From(rawDataTable).
		Where(
			qb.Eq("source", key.Source),
			qb.Eq("entity_type", key.EntityType),
			qb.Eq("entity_key", key.EntityKey),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return rawdata.Payload{}, false, fmt.Errorf("build get raw payload query: %w", err)
	}

	var row rawDataPayloadRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rawdata.Payload{}, false, nil
		}
		return rawdata.Payload{}, false, fmt.Errorf("get raw payload entity=%s key=%s: %w", key.EntityType, key.EntityKey, err)
	}
	return row.toDomain(), true, nil
}

// dedupeRawPayloads keeps the last payload per key; a multi-row upsert
// cannot touch the same conflict target twice.
func dedupeRawPayloads(items []rawdata.Payload) []rawDataPayloadInsertModel {
	if len(items) == 0 {
		return nil
	}
	index := make(map[rawdata.Key]int, len(items))
	out := make([]rawDataPayloadInsertModel, 0, len(items))
	for _, item := range items {
		model := rawDataPayloadInsertModel{
			Source:          item.Source,
			EntityType:      item.EntityType,
			EntityKey:       item.EntityKey,
			GameID:          nullableInt64(item.GameID),
			Payload:         item.PayloadJSON,
			PayloadHash:     item.PayloadHash,
			SourceUpdatedAt: item.SourceUpdatedAt,
		}
		if i, ok := index[item.Key()]; ok {
			out[i] = model
			continue
		}
		index[item.Key()] = len(out)
		out = append(out, model)
	}
	return out
}
