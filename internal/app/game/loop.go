package game

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"farmtycoon/internal/app/ports"
)

const (
	DefaultTickHz = 30
	// MaxTickDelta caps the frame delta after a stall so animals do not jump.
	MaxTickDelta = 0.25
)

// Loop ticks every live session from a wall clock ticker.
type Loop struct {
	Engine   Engine
	Interval time.Duration
	Now      func() time.Time
}

func (l Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Second / DefaultTickHz
	}
	nowFn := l.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hlog.Infof("tick loop started interval=%s", interval)
	last := nowFn()
	for {
		select {
		case <-ctx.Done():
			hlog.Infof("tick loop stopped")
			return nil
		case <-ticker.C:
			now := nowFn()
			dt := now.Sub(last).Seconds()
			last = now
			l.TickAll(ctx, min(dt, MaxTickDelta))
		}
	}
}

// TickAll runs one frame for every stored session and returns how many ran.
func (l Loop) TickAll(ctx context.Context, deltaSeconds float64) int {
	ids, err := l.Engine.States.ListSessionIDs(ctx)
	if err != nil {
		hlog.CtxErrorf(ctx, "list sessions: %v", err)
		return 0
	}
	ran := 0
	for _, id := range ids {
		if _, err := l.Engine.Tick(ctx, id, deltaSeconds); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			hlog.CtxErrorf(ctx, "tick session=%s: %v", id, err)
			continue
		}
		ran++
	}
	return ran
}
