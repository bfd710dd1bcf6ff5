package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	livegamemock "github.com/riskibarqy/hockey-dashboard/internal/mocks/domain/livegame"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func currentExitPass(t *testing.T, svc *LiveDashboardService) int {
	t.Helper()
	d, err := svc.Dashboard(testGameID)
	require.NoError(t, err)
	v, _ := d.Snapshot.Home.Counters.Exits.Get("pass")
	return v
}

func TestCounterService_Adjust_RejectedPatchReverts(t *testing.T) {
	ctx := context.Background()
	backend := livegamemock.NewBackend(t)
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(liveDataWithGoals(0, 3, 55), nil).
		Once()

	live := newTestLiveService(t, backend)
	_, err := live.Refresh(ctx, testGameID)
	require.NoError(t, err)

	service := NewCounterService(backend, live, nil)

	backend.
		On("PatchCounterRow", mock.Anything, livegame.RowExits, int64(55), map[string]int{"pass": 2}).
		Run(func(mock.Arguments) {
			if got := currentExitPass(t, live); got != 2 {
				t.Errorf("optimistic value must be visible during the patch, got %d", got)
			}
		}).
		Return(errors.New("status=500")).
		Once()

	result, err := service.Adjust(ctx, AdjustInput{
		GameID: testGameID,
		Side:   livegame.SideHome,
		Row:    livegame.RowExits,
		Field:  "pass",
		Delta:  -1,
	})
	if !errors.Is(err, ErrOptimisticRejected) {
		t.Fatalf("expected ErrOptimisticRejected, got %v", err)
	}
	require.Equal(t, 3, result.Previous)
	require.Equal(t, 3, result.Value)
	require.Equal(t, 3, currentExitPass(t, live))
}

func TestCounterService_Adjust_SuccessRefreshes(t *testing.T) {
	ctx := context.Background()
	backend := livegamemock.NewBackend(t)
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(liveDataWithGoals(0, 3, 55), nil).
		Once()

	live := newTestLiveService(t, backend)
	_, err := live.Refresh(ctx, testGameID)
	require.NoError(t, err)

	service := NewCounterService(backend, live, nil)

	backend.
		On("PatchCounterRow", mock.Anything, livegame.RowExits, int64(55), map[string]int{"pass": 4}).
		Return(nil).
		Once()
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(liveDataWithGoals(0, 4, 55), nil).
		Once()

	result, err := service.Adjust(ctx, AdjustInput{
		GameID: testGameID,
		Side:   livegame.SideHome,
		Row:    livegame.RowExits,
		Field:  "pass",
		Delta:  1,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Previous)
	require.Equal(t, 4, result.Value)
	require.Equal(t, int64(55), result.RowID)
	require.False(t, result.Skipped)
	require.Equal(t, 4, currentExitPass(t, live))
}

func TestCounterService_Adjust_FloorsAtZero(t *testing.T) {
	ctx := context.Background()
	backend := livegamemock.NewBackend(t)
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(liveDataWithGoals(0, 0, 55), nil).
		Twice()
	backend.
		On("PatchCounterRow", mock.Anything, livegame.RowExits, int64(55), map[string]int{"pass": 0}).
		Return(nil).
		Once()

	live := newTestLiveService(t, backend)
	_, err := live.Refresh(ctx, testGameID)
	require.NoError(t, err)

	result, err := NewCounterService(backend, live, nil).Adjust(ctx, AdjustInput{
		GameID: testGameID,
		Side:   livegame.SideHome,
		Row:    livegame.RowExits,
		Field:  "pass",
		Delta:  -1,
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.Value)
}

func TestCounterService_Adjust_RowWithoutIDSkipsPatch(t *testing.T) {
	ctx := context.Background()
	backend := livegamemock.NewBackend(t)
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(liveDataWithGoals(0, 1, 0), nil).
		Once()

	live := newTestLiveService(t, backend)
	_, err := live.Refresh(ctx, testGameID)
	require.NoError(t, err)

	result, err := NewCounterService(backend, live, nil).Adjust(ctx, AdjustInput{
		GameID: testGameID,
		Side:   livegame.SideHome,
		Row:    livegame.RowExits,
		Field:  "pass",
		Delta:  1,
	})
	require.NoError(t, err)
	require.True(t, result.Skipped)
	require.Equal(t, 2, currentExitPass(t, live))
	backend.AssertNotCalled(t, "PatchCounterRow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCounterService_Adjust_Validation(t *testing.T) {
	service := NewCounterService(livegamemock.NewBackend(t), nil, nil)

	tests := []struct {
		name string
		in   AdjustInput
	}{
		{name: "missing game", in: AdjustInput{Side: livegame.SideHome, Row: livegame.RowExits, Field: "pass", Delta: 1}},
		{name: "bad side", in: AdjustInput{GameID: 1, Side: "middle", Row: livegame.RowExits, Field: "pass", Delta: 1}},
		{name: "shots not patchable", in: AdjustInput{GameID: 1, Side: livegame.SideHome, Row: livegame.RowShots, Field: "on_goal", Delta: 1}},
		{name: "unknown field", in: AdjustInput{GameID: 1, Side: livegame.SideAway, Row: livegame.RowEntries, Field: "icing", Delta: 1}},
		{name: "delta too large", in: AdjustInput{GameID: 1, Side: livegame.SideAway, Row: livegame.RowEntries, Field: "pass", Delta: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Adjust(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCounterService_Adjust_SerializesSameField(t *testing.T) {
	ctx := context.Background()
	backend := livegamemock.NewBackend(t)

	var (
		mu      sync.Mutex
		stored  = 3
		patches []int
	)
	backend.
		On("FetchLiveData", mock.Anything, testGameID).
		Return(func(context.Context, int64) (livegame.LiveData, error) {
			mu.Lock()
			defer mu.Unlock()
			return liveDataWithGoals(0, stored, 55), nil
		})
	backend.
		On("PatchCounterRow", mock.Anything, livegame.RowExits, int64(55), mock.Anything).
		Return(func(_ context.Context, _ livegame.RowKind, _ int64, fields map[string]int) error {
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			defer mu.Unlock()
			stored = fields["pass"]
			patches = append(patches, stored)
			return nil
		})

	live := newTestLiveService(t, backend)
	_, err := live.Refresh(ctx, testGameID)
	require.NoError(t, err)
	service := NewCounterService(backend, live, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Adjust(ctx, AdjustInput{
				GameID: testGameID,
				Side:   livegame.SideHome,
				Row:    livegame.RowExits,
				Field:  "pass",
				Delta:  1,
			}); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{4, 5, 6, 7, 8}, patches)
	require.Equal(t, 8, currentExitPass(t, live))
}
