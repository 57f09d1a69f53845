package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	metricsinmem "farmtycoon/internal/adapter/metrics/inmemory"
	"farmtycoon/internal/adapter/repo/memory"
	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
	"farmtycoon/internal/domain/terrain"
)

const simSession = "farmsim"

type options struct {
	Ticks     int
	DT        float64
	Seed      uint64
	Cows      int
	Chickens  int
	Pigs      int
	Sheep     int
	Troughs   int
	Perimeter bool
	Tuning    game.Tuning
}

func defaultOptions() options {
	return options{
		Ticks:     600,
		DT:        0.1,
		Seed:      1,
		Cows:      2,
		Chickens:  3,
		Pigs:      1,
		Sheep:     1,
		Troughs:   2,
		Perimeter: true,
		Tuning:    game.DefaultTuning(),
	}
}

type notice struct {
	Type    ports.NotificationType
	Message string
}

type result struct {
	State     farm.FarmState
	Produced  map[farm.Resource]int
	Fed       int
	FenceHits int
	Days      int
	Starving  []string
	Notices   []notice
	Metrics   metricsinmem.Snapshot
}

type simClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *simClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type noticeLog struct {
	mu    sync.Mutex
	items []notice
}

func (l *noticeLog) Notify(_, message string, typ ports.NotificationType) {
	l.mu.Lock()
	l.items = append(l.items, notice{Type: typ, Message: message})
	l.mu.Unlock()
}

// simulate builds a headless engine on the memory store, stocks the farm and
// runs opts.Ticks frames against a simulated clock.
func simulate(ctx context.Context, opts options) (result, error) {
	if opts.Ticks < 0 || opts.DT <= 0 {
		return result{}, fmt.Errorf("ticks must be >= 0 and dt > 0, got ticks=%d dt=%v", opts.Ticks, opts.DT)
	}
	store := memory.NewStore()
	clock := &simClock{now: time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)}
	random := farm.NewSeededRandom(opts.Seed)
	recorder := metricsinmem.NewRecorder()
	notices := &noticeLog{}
	tuning := opts.Tuning
	tuning.SeedPerimeter = opts.Perimeter

	seq := 0
	engine := game.Engine{
		TxManager: memory.NewTxManager(store),
		States:    memory.NewFarmStateRepo(store),
		Journal:   memory.NewJournalRepo(store),
		Metrics:   recorder,
		Notifier:  notices,
		Terrain:   terrain.CreateDefault(grid.Size, grid.Size),
		Spawner: farm.Spawner{
			Rand: random,
			Now:  clock.Now,
			NewID: func() string {
				seq++
				return fmt.Sprintf("%04d", seq)
			},
		},
		Rand:   random,
		Tuning: tuning,
		Now:    clock.Now,
	}

	if _, err := engine.State(ctx, simSession); err != nil {
		return result{}, err
	}
	if err := stock(ctx, engine, opts); err != nil {
		return result{}, err
	}

	res := result{Produced: map[farm.Resource]int{}}
	starving := map[string]bool{}
	step := time.Duration(opts.DT * float64(time.Second))
	for i := 0; i < opts.Ticks; i++ {
		clock.Advance(step)
		report, err := engine.Tick(ctx, simSession, opts.DT)
		if err != nil {
			return result{}, fmt.Errorf("tick %d: %w", i, err)
		}
		for r, n := range report.Produced {
			res.Produced[r] += n
		}
		res.Fed += report.Fed
		res.FenceHits += report.FenceHits
		if report.DayAdvanced {
			res.Days++
		}
		for _, id := range report.Starving {
			starving[id] = true
		}
	}

	state, err := engine.State(ctx, simSession)
	if err != nil {
		return result{}, err
	}
	res.State = state
	for id := range starving {
		res.Starving = append(res.Starving, id)
	}
	res.Notices = notices.items
	res.Metrics = recorder.Snapshot()
	return res, nil
}

func stock(ctx context.Context, engine game.Engine, opts options) error {
	herd := []struct {
		kind farm.Kind
		n    int
	}{
		{farm.KindCow, opts.Cows},
		{farm.KindChicken, opts.Chickens},
		{farm.KindPig, opts.Pigs},
		{farm.KindSheep, opts.Sheep},
	}
	for _, h := range herd {
		for i := 0; i < h.n; i++ {
			if _, err := engine.SpawnAnimal(ctx, simSession, h.kind); err != nil {
				return err
			}
		}
	}

	placed := 0
	for _, cell := range troughCells() {
		if placed == opts.Troughs {
			break
		}
		_, err := engine.PlaceTrough(ctx, simSession, cell.X, cell.Y)
		if errors.Is(err, game.ErrInvalidPlacement) {
			continue
		}
		if err != nil {
			return err
		}
		placed++
	}
	if placed < opts.Troughs {
		return fmt.Errorf("placed %d of %d troughs", placed, opts.Troughs)
	}
	return nil
}

// troughCells spreads candidate trough cells over the fenced pasture.
func troughCells() []grid.Cell {
	var out []grid.Cell
	for y := farm.PerimeterMin + 2; y < farm.PerimeterMax; y += 4 {
		for x := farm.PerimeterMin + 2; x < farm.PerimeterMax; x += 4 {
			out = append(out, grid.Cell{X: x, Y: y})
		}
	}
	return out
}
