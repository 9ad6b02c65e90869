package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/rules"
)

type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) Publish(_ context.Context, f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

// boardFullConfig ends on the first tick with A winning.
func boardFullConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = 4, 2
	cfg.Snakes = [2]game.SnakeConfig{
		{ID: "A", Direction: game.Left, Body: []game.Point{{X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 0}}},
		{ID: "B", Direction: game.Left, Body: []game.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
	}
	cfg.InitialFood = &game.Point{X: 2, Y: 0}
	return cfg
}

func TestRunnerPlaysToGameOver(t *testing.T) {
	e, err := rules.New(boardFullConfig())
	require.NoError(t, err)

	rec := &recorder{}
	r := NewRunner(e, WithTick(time.Millisecond), WithSink(rec), WithID("m1"))
	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "m1", sum.MatchID)
	assert.True(t, sum.Finished)
	assert.Equal(t, 1, sum.Ticks)
	require.NotNil(t, sum.Result)
	assert.Equal(t, game.Result{Outcome: game.OutcomeWinner, WinnerID: "A", Reason: game.EndBoardFull}, *sum.Result)
	assert.Equal(t, map[string]int{"A": game.DefaultFoodScore, "B": 0}, sum.Scores)
	assert.Equal(t, 1, sum.Stats.Ticks)
	assert.Equal(t, map[string]SnakeSummary{
		"A": {Score: game.DefaultFoodScore, Length: 4, FoodEaten: 1, Moves: 1, Alive: true},
		"B": {Length: 4, Moves: 1, Alive: true},
	}, sum.Snakes)

	require.Len(t, rec.frames, 2, "initial frame plus one tick")
	assert.Equal(t, 0, rec.frames[0].Snapshot.Tick)
	assert.Empty(t, rec.frames[0].Events)
	assert.Equal(t, "m1", rec.frames[1].MatchID)
	assert.Len(t, rec.frames[1].Events, 2)
}

func TestRunnerStopsAtMaxTicks(t *testing.T) {
	e, err := rules.New(game.DefaultConfig())
	require.NoError(t, err)

	rec := &recorder{}
	sum, err := NewRunner(e, WithTick(0), WithMaxTicks(5), WithSink(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, sum.Finished)
	assert.Nil(t, sum.Result)
	assert.Equal(t, 5, sum.Ticks)
	assert.Len(t, rec.frames, 6)
	assert.NotEmpty(t, sum.MatchID)
}

func TestRunnerHonoursCancel(t *testing.T) {
	e, err := rules.New(game.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopper := SinkFunc(func(context.Context, Frame) { cancel() })
	sum, err := NewRunner(e, WithTick(time.Hour), WithSink(stopper)).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, sum.Ticks)
	assert.False(t, sum.Finished)
}

func TestChanSinkGivesUpOnCancel(t *testing.T) {
	ch := make(ChanSink)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		ch.Publish(ctx, Frame{MatchID: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after cancel")
	}
}

func seriesConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = 10, 8
	cfg.Snakes = game.DefaultSnakes(10, 8)
	cfg.Snakes[1].Policy = game.Defensive
	cfg.Seed = 11
	return cfg
}

func TestRunSeries(t *testing.T) {
	opts := SeriesOptions{Matches: 6, Workers: 3, MaxTicks: 400}
	st, err := RunSeries(context.Background(), seriesConfig(), opts)
	require.NoError(t, err)

	assert.Equal(t, 6, st.Matches)
	require.Len(t, st.Results, 6)
	total := st.Wins["A"] + st.Wins["B"] + st.Ties + st.Draws + st.Unfinished
	assert.Equal(t, 6, total)
	assert.Greater(t, st.MeanTicks, 0.0)

	ids := map[string]bool{}
	for _, r := range st.Results {
		ids[r.MatchID] = true
		for id, sn := range r.Snakes {
			assert.Equal(t, sn.FoodEaten*game.DefaultFoodScore, sn.Score, "match %s snake %s", r.MatchID, id)
			assert.Equal(t, 1+sn.FoodEaten, sn.Length, "match %s snake %s", r.MatchID, id)
			assert.LessOrEqual(t, sn.Moves, r.Ticks, "match %s snake %s", r.MatchID, id)
		}
	}
	assert.Len(t, ids, 6, "every match gets its own id")

	again, err := RunSeries(context.Background(), seriesConfig(), opts)
	require.NoError(t, err)
	for i := range st.Results {
		assert.Equal(t, st.Results[i].Ticks, again.Results[i].Ticks, "match %d", i)
		assert.Equal(t, st.Results[i].Result, again.Results[i].Result, "match %d", i)
		assert.Equal(t, st.Results[i].Scores, again.Results[i].Scores, "match %d", i)
	}
}

func TestRunSeriesErrors(t *testing.T) {
	_, err := RunSeries(context.Background(), seriesConfig(), SeriesOptions{})
	assert.Error(t, err)

	bad := seriesConfig()
	bad.Width = 1
	_, err = RunSeries(context.Background(), bad, SeriesOptions{Matches: 2})
	var ce *game.ConfigError
	assert.ErrorAs(t, err, &ce)
}
