package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// PollInterval is the fixed live-data cadence.
const PollInterval = 60 * time.Second

const observerTimeout = 5 * time.Second

type catalogProvider interface {
	Catalog(ctx context.Context) (*metadata.Catalog, error)
}

// DashboardObserver is notified with every dashboard that becomes current.
type DashboardObserver interface {
	DashboardUpdated(ctx context.Context, d *livegame.Dashboard) error
}

type DashboardObserverFunc func(ctx context.Context, d *livegame.Dashboard) error

func (f DashboardObserverFunc) DashboardUpdated(ctx context.Context, d *livegame.Dashboard) error {
	return f(ctx, d)
}

type LiveDashboardConfig struct {
	Backend   livegame.Backend
	Catalog   catalogProvider
	Clock     gameclock.Normalizer
	Workers   int
	Logger    *logging.Logger
	Observers []DashboardObserver

	// Interval overrides PollInterval; tests only.
	Interval time.Duration
	Now      func() time.Time
}

// LiveDashboardService owns the current dashboard of every watched game. Each
// fetch is tagged with a per-game sequence number and only the latest issued
// sequence may replace the dashboard.
type LiveDashboardService struct {
	backend   livegame.Backend
	catalog   catalogProvider
	clock     gameclock.Normalizer
	pool      *ants.Pool
	logger    *logging.Logger
	observers []DashboardObserver
	interval  time.Duration
	now       func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	loops    sync.WaitGroup
	notifies sync.WaitGroup

	mu     sync.Mutex
	games  map[int64]*gameState
	closed bool
}

type gameState struct {
	gameID    int64
	dashboard atomic.Pointer[livegame.Dashboard]
	issued    atomic.Uint64

	// applyMu orders the compare-and-swap of sequence and dashboard.
	applyMu sync.Mutex

	// backlog holds accepted dashboards not yet handed to observers, in
	// sequence order. One drain runs per game at a time.
	notifyMu sync.Mutex
	backlog  []*livegame.Dashboard
	draining bool

	// handle is guarded by LiveDashboardService.mu.
	handle *WatchHandle
}

// WatchHandle is the cancellable subscription of one game to the poll loop.
type WatchHandle struct {
	gameID int64
	cancel context.CancelFunc
	done   chan struct{}
	active atomic.Bool
	once   sync.Once
}

func (h *WatchHandle) GameID() int64 { return h.gameID }

func (h *WatchHandle) Active() bool { return h.active.Load() }

// Done is closed once the poll loop has exited.
func (h *WatchHandle) Done() <-chan struct{} { return h.done }

// Cancel stops the timer. Fetches already in flight are ignored when they land.
func (h *WatchHandle) Cancel() {
	h.once.Do(func() {
		h.active.Store(false)
		h.cancel()
	})
}

func NewLiveDashboardService(cfg LiveDashboardConfig) (*LiveDashboardService, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("live dashboard backend is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	workerPool, err := ants.NewPool(
		workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			logger.Error("live poll worker panic", "panic", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create poll worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &LiveDashboardService{
		backend:   cfg.Backend,
		catalog:   cfg.Catalog,
		clock:     cfg.Clock,
		pool:      workerPool,
		logger:    logger,
		observers: append([]DashboardObserver(nil), cfg.Observers...),
		interval:  interval,
		now:       now,
		ctx:       ctx,
		cancel:    cancel,
		games:     make(map[int64]*gameState),
	}, nil
}

// AddObserver registers o for every later dashboard change. It must be called
// before the first Watch or Refresh.
func (s *LiveDashboardService) AddObserver(o DashboardObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Watch fetches the game immediately and then every interval until the handle
// is cancelled. A second Watch for the same game replaces the first handle.
func (s *LiveDashboardService) Watch(ctx context.Context, gameID int64) (*WatchHandle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveDashboardService.Watch", attribute.Int64("game.id", gameID))
	defer span.End()

	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}
	st := s.stateLocked(gameID)
	previous := st.handle

	loopCtx, cancel := context.WithCancel(s.ctx)
	h := &WatchHandle{gameID: gameID, cancel: cancel, done: make(chan struct{})}
	h.active.Store(true)
	st.handle = h
	s.loops.Add(1)
	s.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}

	go s.run(loopCtx, st, h)
	s.logger.InfoContext(ctx, "live dashboard watch started", "game_id", gameID, "interval", s.interval)
	return h, nil
}

// Cancel stops the active watch of gameID, if any.
func (s *LiveDashboardService) Cancel(gameID int64) bool {
	s.mu.Lock()
	st, ok := s.games[gameID]
	var h *WatchHandle
	if ok {
		h = st.handle
		st.handle = nil
	}
	s.mu.Unlock()

	if h == nil {
		return false
	}
	h.Cancel()
	s.logger.Info("live dashboard watch cancelled", "game_id", gameID)
	return true
}

// Watching reports whether gameID has an active poll loop.
func (s *LiveDashboardService) Watching(gameID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.games[gameID]
	return ok && st.handle != nil && st.handle.Active()
}

// Dashboard returns the current dashboard of gameID.
func (s *LiveDashboardService) Dashboard(gameID int64) (*livegame.Dashboard, error) {
	s.mu.Lock()
	st, ok := s.games[gameID]
	s.mu.Unlock()
	if ok {
		if d := st.dashboard.Load(); d != nil {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no dashboard for game %d", ErrNotFound, gameID)
}

// Refresh issues an out-of-band fetch under the same supersession rule as the
// poll loop and returns the dashboard that is current afterwards.
func (s *LiveDashboardService) Refresh(ctx context.Context, gameID int64) (*livegame.Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveDashboardService.Refresh", attribute.Int64("game.id", gameID))
	defer span.End()

	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}
	st := s.stateLocked(gameID)
	s.mu.Unlock()

	seq := st.issued.Add(1)
	data, err := s.backend.FetchLiveData(ctx, gameID)
	if err != nil {
		s.logger.WarnContext(ctx, "live data refresh failed, keeping last dashboard", "game_id", gameID, "error", err)
		return nil, fmt.Errorf("fetch live data game_id=%d: %w", gameID, err)
	}

	d, _ := s.apply(ctx, st, nil, seq, data)
	if d == nil {
		return nil, fmt.Errorf("%w: dashboard for game %d was superseded before it loaded", ErrNotFound, gameID)
	}
	return d, nil
}

// Close cancels every watch, waits for the loops to exit and releases the
// worker pool.
func (s *LiveDashboardService) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	handles := make([]*WatchHandle, 0, len(s.games))
	for _, st := range s.games {
		if st.handle != nil {
			handles = append(handles, st.handle)
		}
	}
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
	s.cancel()

	waited := make(chan struct{})
	go func() {
		s.loops.Wait()
		s.notifies.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		return ctx.Err()
	}

	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := s.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release poll worker pool: %w", err)
	}
	return nil
}

func (s *LiveDashboardService) stateLocked(gameID int64) *gameState {
	st, ok := s.games[gameID]
	if !ok {
		st = &gameState{gameID: gameID}
		s.games[gameID] = st
	}
	return st
}

func (s *LiveDashboardService) lookup(gameID int64) (*gameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.games[gameID]
	return st, ok
}

func (s *LiveDashboardService) run(ctx context.Context, st *gameState, h *WatchHandle) {
	defer s.loops.Done()
	defer close(h.done)

	s.submitPoll(ctx, st, h)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.submitPoll(ctx, st, h)
		}
	}
}

// submitPoll issues the next sequence and hands the fetch to the pool without
// waiting, so a slow fetch is superseded by the next tick.
func (s *LiveDashboardService) submitPoll(ctx context.Context, st *gameState, h *WatchHandle) {
	seq := st.issued.Add(1)
	err := s.pool.Submit(func() {
		s.poll(ctx, st, h, seq)
	})
	if err != nil {
		s.logger.Warn("live poll dropped", "game_id", st.gameID, "sequence", seq, "error", err)
	}
}

func (s *LiveDashboardService) poll(ctx context.Context, st *gameState, h *WatchHandle, seq uint64) {
	data, err := s.backend.FetchLiveData(ctx, st.gameID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.WarnContext(ctx, "live data poll failed, keeping last dashboard",
			"game_id", st.gameID,
			"sequence", seq,
			"error", err,
		)
		return
	}
	s.apply(ctx, st, h, seq, data)
}

// apply installs data as the current dashboard when seq is still the latest
// issued sequence (and h, when set, is still active). It returns the
// dashboard that is current afterwards.
func (s *LiveDashboardService) apply(ctx context.Context, st *gameState, h *WatchHandle, seq uint64, data livegame.LiveData) (*livegame.Dashboard, bool) {
	catalog := s.loadCatalog(ctx)

	var drain bool
	defer func() {
		if drain {
			s.startDrain(ctx, st)
		}
	}()
	st.applyMu.Lock()
	defer st.applyMu.Unlock()

	current := st.dashboard.Load()
	if seq != st.issued.Load() {
		s.logger.Debug("discarding superseded live data", "game_id", st.gameID, "sequence", seq, "latest", st.issued.Load())
		return current, false
	}
	if h != nil && !h.Active() {
		return current, false
	}

	snapshot := data.Snapshot
	snapshot.GameID = st.gameID
	snapshot.Events = tagEvents(data.Events, catalog)
	if current != nil {
		snapshot = livegame.CarryCounterIDs(current.Snapshot, snapshot)
	}

	next := livegame.Build(snapshot, livegame.BuildOptions{
		Catalog:  catalog,
		Clock:    s.clock,
		Sequence: seq,
		Now:      s.now(),
		Previous: current,
	})
	st.dashboard.Store(next)
	drain = st.enqueue(next)
	return next, true
}

type counterChange struct {
	Previous  int
	Value     int
	RowID     int64
	Dashboard *livegame.Dashboard
}

// mutateCounter applies fn to one sub-counter of the current dashboard as a
// new sequence, so any fetch issued before it can no longer land.
func (s *LiveDashboardService) mutateCounter(ctx context.Context, gameID int64, side livegame.Side, kind livegame.RowKind, field string, fn func(current int) int) (counterChange, error) {
	st, ok := s.lookup(gameID)
	if !ok {
		return counterChange{}, fmt.Errorf("%w: no dashboard for game %d", ErrNotFound, gameID)
	}

	var drain bool
	defer func() {
		if drain {
			s.startDrain(ctx, st)
		}
	}()
	st.applyMu.Lock()
	defer st.applyMu.Unlock()

	current := st.dashboard.Load()
	if current == nil {
		return counterChange{}, fmt.Errorf("%w: no dashboard for game %d", ErrNotFound, gameID)
	}
	row, ok := current.Snapshot.Team(side).Counters.Row(kind)
	if !ok {
		return counterChange{}, fmt.Errorf("%w: unknown counter row %q", ErrInvalidInput, kind)
	}
	value, ok := row.Get(field)
	if !ok {
		return counterChange{}, fmt.Errorf("%w: unknown %s field %q", ErrInvalidInput, kind, field)
	}

	nextValue := fn(value)
	seq := st.issued.Add(1)
	next, err := current.WithCounter(side, kind, field, nextValue, seq)
	if err != nil {
		return counterChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	next.RefreshedAt = s.now()
	st.dashboard.Store(next)
	drain = st.enqueue(next)

	return counterChange{Previous: value, Value: nextValue, RowID: row.ID(), Dashboard: next}, nil
}

func (s *LiveDashboardService) loadCatalog(ctx context.Context) *metadata.Catalog {
	if s.catalog == nil {
		return nil
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "metadata unavailable, rendering without names", "error", err)
		return nil
	}
	return catalog
}

// enqueue queues d for observers and reports whether the caller must start
// a drain. Called with applyMu held so the backlog follows sequence order.
func (st *gameState) enqueue(d *livegame.Dashboard) bool {
	st.notifyMu.Lock()
	defer st.notifyMu.Unlock()
	st.backlog = append(st.backlog, d)
	if st.draining {
		return false
	}
	st.draining = true
	return true
}

func (st *gameState) dequeue() (*livegame.Dashboard, bool) {
	st.notifyMu.Lock()
	defer st.notifyMu.Unlock()
	if len(st.backlog) == 0 {
		st.draining = false
		return nil, false
	}
	d := st.backlog[0]
	st.backlog[0] = nil
	st.backlog = st.backlog[1:]
	return d, true
}

// startDrain delivers the backlog off the apply lock, so a slow observer never
// delays the next fetch or counter patch. A saturated pool falls back to a
// plain goroutine.
func (s *LiveDashboardService) startDrain(ctx context.Context, st *gameState) {
	s.notifies.Add(1)
	drain := func() {
		defer s.notifies.Done()
		for {
			d, ok := st.dequeue()
			if !ok {
				return
			}
			s.notify(ctx, d)
		}
	}
	if err := s.pool.Submit(drain); err != nil {
		go drain()
	}
}

func (s *LiveDashboardService) notify(ctx context.Context, d *livegame.Dashboard) {
	s.mu.Lock()
	observers := s.observers
	s.mu.Unlock()
	if len(observers) == 0 {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), observerTimeout)
	defer cancel()
	for _, o := range observers {
		if err := o.DashboardUpdated(notifyCtx, d); err != nil {
			s.logger.WarnContext(ctx, "dashboard observer failed", "game_id", d.GameID, "sequence", d.Sequence, "error", err)
		}
	}
}

func tagEvents(records []gameevent.Record, catalog *metadata.Catalog) []gameevent.Event {
	out := make([]gameevent.Event, 0, len(records))
	for _, rec := range records {
		name, _ := catalog.EventTypeName(rec.EventTypeID)
		out = append(out, gameevent.FromRecord(rec, name))
	}
	return out
}
