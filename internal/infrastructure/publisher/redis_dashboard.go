package publisher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
)

const (
	DefaultStreamPrefix = "dashboard.updates"
	DefaultViewTTL      = 2 * time.Hour

	// Streams are capped so a long game does not grow them unbounded.
	streamMaxLen = 500
)

type RedisDashboardConfig struct {
	StreamPrefix string
	ViewTTL      time.Duration
}

// RedisDashboard mirrors every accepted dashboard into Redis: the latest view
// under a plain key and an append-only stream per game for consumers that
// missed a push.
type RedisDashboard struct {
	client       redis.Cmdable
	streamPrefix string
	viewTTL      time.Duration
}

func NewRedisDashboard(client redis.Cmdable, cfg RedisDashboardConfig) *RedisDashboard {
	prefix := strings.TrimSpace(cfg.StreamPrefix)
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	ttl := cfg.ViewTTL
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &RedisDashboard{client: client, streamPrefix: prefix, viewTTL: ttl}
}

func ViewKey(gameID int64) string {
	return fmt.Sprintf("dashboard:%d:view", gameID)
}

func (p *RedisDashboard) StreamKey(gameID int64) string {
	return p.streamPrefix + "." + strconv.FormatInt(gameID, 10)
}

func (p *RedisDashboard) DashboardUpdated(ctx context.Context, d *livegame.Dashboard) error {
	if d == nil {
		return nil
	}
	data, err := sonic.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard game_id=%d: %w", d.GameID, err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, ViewKey(d.GameID), data, p.viewTTL)
	pipe.XAdd(ctx, p.streamArgs(d, data))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish dashboard game_id=%d: %w", d.GameID, err)
	}
	return nil
}

// LatestView reads the last published dashboard; found is false on a miss.
func (p *RedisDashboard) LatestView(ctx context.Context, gameID int64) (*livegame.Dashboard, bool, error) {
	raw, err := p.client.Get(ctx, ViewKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read dashboard view game_id=%d: %w", gameID, err)
	}
	var d livegame.Dashboard
	if err := sonic.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("decode dashboard view game_id=%d: %w", gameID, err)
	}
	return &d, true, nil
}

func (p *RedisDashboard) streamArgs(d *livegame.Dashboard, data []byte) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: p.StreamKey(d.GameID),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"data":         string(data),
			"game_id":      d.GameID,
			"sequence":     d.Sequence,
			"refreshed_at": d.RefreshedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}
