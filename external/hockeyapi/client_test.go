package hockeyapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

const liveDataBody = `{
  "data": {
    "game_id": 7,
    "start_time": "2026-03-01T19:00:00Z",
    "current_period_id": 2,
    "home_team_id": 1,
    "away_team_id": 2,
    "home_goals": 3,
    "away_goals": 1,
    "home_faceoff_wins": 8,
    "away_faceoff_wins": 12,
    "home_defensive_zone_exit": {"id": 55, "icing": 1, "pass": "3"},
    "away_offensive_zone_entry": {"data": {"id": 61, "dump_win": 2}},
    "home_shots": {"on_goal": 9, "blocked": 2},
    "events": [
      {"id": 10, "event_type_id": 1, "shot_type_id": 3, "team_id": 1, "period_id": 2,
       "ice_top_offset": 450, "ice_left_offset": 300, "goal_type": "Power Play",
       "time": "2026-03-01T19:42:10Z", "youtube_link": "https://youtu.be/dQw4w9WgXcQ?t=42"}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.Handler, retries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Token:      "secret-token",
		MaxRetries: retries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestFetchLiveData_DecodesSnapshot(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/game/7/live_data" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		_, _ = io.WriteString(w, liveDataBody)
	}), 0)

	data, err := client.FetchLiveData(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch live data: %v", err)
	}

	s := data.Snapshot
	if s.GameID != 7 || s.CurrentPeriodID != 2 || s.Home.Goals != 3 || s.Away.FaceoffWins != 12 {
		t.Fatalf("unexpected snapshot header: %+v", s)
	}
	exits := s.Home.Counters.Exits
	if exits.ID() != 55 {
		t.Fatalf("expected exit row id 55, got %d", exits.ID())
	}
	if v, _ := exits.Get("pass"); v != 3 {
		t.Fatalf("string counters must decode, got pass=%d", v)
	}
	if s.Away.Counters.Entries.ID() != 61 {
		t.Fatalf("wrapped row must decode, got id=%d", s.Away.Counters.Entries.ID())
	}
	if v, _ := s.Home.Counters.Shots.Get("on_goal"); v != 9 {
		t.Fatalf("unexpected shots row: %s", s.Home.Counters.Shots)
	}
	if s.Away.Counters.Exits.HasID() {
		t.Fatalf("missing rows must have no id")
	}
	if len(s.RawPayload) == 0 {
		t.Fatalf("raw payload must be kept for archiving")
	}

	if len(data.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(data.Events))
	}
	ev := data.Events[0]
	if ev.GameID != 7 || ev.GoalType != "Power Play" || ev.IceTopOffset != 450 || ev.VideoURL == "" {
		t.Fatalf("unexpected event record: %+v", ev)
	}
}

func TestFetchLiveData_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, liveDataBody)
	}), 1)

	if _, err := client.FetchLiveData(context.Background(), 7); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestFetchLiveData_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"no game"}`, http.StatusNotFound)
	}), 3)

	_, err := client.FetchLiveData(context.Background(), 7)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d calls", calls.Load())
	}
}

func TestPatchCounterRow_SendsChangedFieldOnly(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPatch || r.URL.Path != "/offensive-zone-entry/61" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]int
		raw, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body) != 1 || body["dump_win"] != 3 {
			t.Errorf("unexpected patch body %s", raw)
		}
		w.WriteHeader(http.StatusNoContent)
	}), 3)

	err := client.PatchCounterRow(context.Background(), livegame.RowEntries, 61, map[string]int{"dump_win": 3})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
}

func TestPatchCounterRow_FailureIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 3)

	err := client.PatchCounterRow(context.Background(), livegame.RowExits, 55, map[string]int{"pass": 2})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("writes must not be retried, got %d calls", calls.Load())
	}

	if err := client.PatchCounterRow(context.Background(), livegame.RowShots, 1, map[string]int{"on_goal": 1}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("shots rows have no patch endpoint, got %v", err)
	}
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 0)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchLiveData(ctx, 7); err == nil {
			t.Fatalf("expected failure %d", i)
		}
	}
	_, err := client.FetchLiveData(ctx, 7)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not reach the backend, got %d calls", calls.Load())
	}
}

func TestGameEventCRUD(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /game-event", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = sonic.Unmarshal(raw, &body)
		if body["event_type_id"] != float64(4) || body["game_id"] != float64(7) {
			t.Errorf("unexpected create body %s", raw)
		}
		if _, ok := body["id"]; ok {
			t.Errorf("create must not send an id: %s", raw)
		}
		_, _ = io.WriteString(w, `{"data":{"id":501}}`)
	})
	mux.HandleFunc("PATCH /game-event/501", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /game-event/501", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /game/7/spray-chart", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = sonic.Unmarshal(raw, &body)
		if body["season_id"] != float64(2026) {
			t.Errorf("unexpected spray chart body %s", raw)
		}
		_, _ = io.WriteString(w, `[{"id":3,"event_type_id":1,"shot_type_id":2,"team_id":1,"period_id":1,"ice_top_offset":100,"ice_left_offset":200}]`)
	})

	client := newTestClient(t, mux, 0)
	ctx := context.Background()

	id, err := client.Create(ctx, gameevent.Record{GameID: 7, EventTypeID: 4, TeamID: 1, PeriodID: 1})
	if err != nil || id != 501 {
		t.Fatalf("create: id=%d err=%v", id, err)
	}
	if err := client.Update(ctx, 501, gameevent.Record{GameID: 7, EventTypeID: 4, TeamID: 1, PeriodID: 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := client.Delete(ctx, 501); err != nil {
		t.Fatalf("delete: %v", err)
	}

	records, err := client.ListForSprayChart(ctx, 7, gameevent.SprayChartFilter{SeasonID: 2026})
	if err != nil {
		t.Fatalf("spray chart: %v", err)
	}
	if len(records) != 1 || records[0].GameID != 7 || records[0].IceLeftOffset != 200 {
		t.Fatalf("unexpected spray chart records: %+v", records)
	}
}

func TestMetadataLists(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /period", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"1st","order":1},{"id":4,"name":"OT","order":4}]}`)
	})
	mux.HandleFunc("GET /player", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":9,"team_id":1,"first_name":"Ana","last_name":"Kova","number":"17","position":"goalie"},{"id":0}]}`)
	})

	client := newTestClient(t, mux, 0)
	ctx := context.Background()

	periods, err := client.ListPeriods(ctx)
	if err != nil || len(periods) != 2 || periods[1].Order != 4 {
		t.Fatalf("periods: %+v err=%v", periods, err)
	}
	players, err := client.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	if len(players) != 1 || players[0].Number != 17 || !players[0].IsGoalie() {
		t.Fatalf("unexpected players: %+v", players)
	}
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
