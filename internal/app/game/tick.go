package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/sim"
)

type TickReport struct {
	SessionID   string                `json:"session_id"`
	Skipped     bool                  `json:"skipped"`
	DayAdvanced bool                  `json:"day_advanced"`
	Day         int                   `json:"day"`
	Time        float64               `json:"time"`
	FenceHealth float64               `json:"fence_health"`
	Produced    map[farm.Resource]int `json:"produced,omitempty"`
	Fed         int                   `json:"fed"`
	FenceHits   int                   `json:"fence_hits"`
	Moved       int                   `json:"moved"`
	Starving    []string              `json:"starving,omitempty"`
	Dispatched  []farm.ActionType     `json:"dispatched,omitempty"`
}

// Tick advances one stored session by deltaSeconds of real time. Sessions
// are never created here; an unknown id yields ports.ErrNotFound.
func (e Engine) Tick(ctx context.Context, sessionID string, deltaSeconds float64) (TickReport, error) {
	sessionID = NormalizeSessionID(sessionID)
	now := e.now()
	var report TickReport
	err := e.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		sess, err := e.States.GetBySessionID(txCtx, sessionID)
		if err != nil {
			return err
		}
		next, rep := e.Step(sess.State, deltaSeconds, now)
		report = rep
		if rep.Skipped {
			return nil
		}
		return e.save(txCtx, sess, next)
	})
	if err != nil {
		return TickReport{}, err
	}
	report.SessionID = sessionID
	e.afterTick(ctx, report, now)
	return report, nil
}

func (e Engine) afterTick(ctx context.Context, report TickReport, now time.Time) {
	if e.Metrics != nil {
		if report.Skipped {
			e.Metrics.RecordSkippedTick()
		} else {
			e.Metrics.RecordTick()
			for _, t := range report.Dispatched {
				e.Metrics.RecordDispatch(t)
			}
			if report.DayAdvanced {
				e.Metrics.RecordDayRollover()
			}
			e.Metrics.RecordFenceHits(report.FenceHits)
			e.Metrics.RecordFeedings(report.Fed)
			for res, n := range report.Produced {
				e.Metrics.RecordProduced(res, n)
			}
		}
	}
	if report.Skipped {
		return
	}

	for _, id := range report.Starving {
		e.notify(report.SessionID, fmt.Sprintf("%s is starving", id), ports.NotifyWarning)
	}
	if !report.DayAdvanced {
		return
	}
	e.notify(report.SessionID, fmt.Sprintf("Day %d begins", report.Day), ports.NotifyInfo)
	if report.FenceHealth < e.tuning().FenceWarningThreshold {
		e.notify(report.SessionID, fmt.Sprintf("Fence health is down to %.0f%%, repair soon", report.FenceHealth), ports.NotifyWarning)
	}
	e.appendJournal(ctx, ports.JournalEntry{
		SessionID: report.SessionID,
		Type:      JournalDayAdvanced,
		Payload: map[string]any{
			"day":          report.Day,
			"fence_health": report.FenceHealth,
		},
		OccurredAt: now,
	})
}

// Step runs one simulation frame on state without touching storage. Paused
// states come back unchanged. The frame advances the clock, then runs
// production, needs and feeding for every animal, then moves animals:
// hungry ones walk to the nearest stocked trough, the rest wander inside the
// fence enclosure.
func (e Engine) Step(state farm.FarmState, deltaSeconds float64, now time.Time) (farm.FarmState, TickReport) {
	if state.IsPaused {
		return state, TickReport{Skipped: true, Day: state.Day, Time: state.Time, FenceHealth: state.FenceHealth}
	}
	if deltaSeconds < 0 || math.IsNaN(deltaSeconds) {
		deltaSeconds = 0
	}
	tuning := e.tuning()
	reducer := farm.Reducer{Now: func() time.Time { return now }}
	report := TickReport{}

	hour := sim.UpdateTime(state.Time, deltaSeconds)
	clock := farm.StatsUpdate{Time: &hour}
	if sim.ShouldAdvanceDay(state.Time, hour) {
		day := state.Day + 1
		fence := math.Max(0, state.FenceHealth-tuning.FenceDecayPerDay)
		clock.Day, clock.FenceHealth = &day, &fence
		report.DayAdvanced = true
	}
	state = reducer.Reduce(state, farm.UpdateStats{StatsUpdate: clock})
	report.Dispatched = append(report.Dispatched, farm.ActionUpdateStats)

	var troughs []farm.Entity
	troughIdx := make(map[string]int)
	for _, ent := range state.Entities {
		if ent.Kind == farm.KindTrough {
			troughIdx[ent.ID] = len(troughs)
			troughs = append(troughs, ent)
		}
	}
	var bounds *sim.Bounds
	if b, ok := sim.EnclosureBounds(state.Entities); ok {
		bounds = &b
	}

	nowMs := now.UnixMilli()
	produced := make(map[farm.Resource]int)
	var (
		patches []farm.EntityPatch
		moves   []farm.PositionUpdate
	)
	for _, a := range state.Entities {
		if !a.IsAnimal() {
			continue
		}
		patch := farm.EntityPatch{ID: a.ID}

		if pu, ok := sim.Produce(a, nowMs); ok {
			patch = patch.Merge(pu.Patch(a.ID))
			a.Inventory, a.LastProduced = pu.Inventory, pu.LastProduced
			produced[pu.Resource]++
		}

		if nu, ok := sim.UpdateAnimalNeeds(a, state.Time); ok {
			before := sim.ClassifyNeeds(a.Hunger)
			patch = patch.Merge(nu.Patch(a.ID))
			a.Hunger, a.Happiness = nu.Hunger, nu.Happiness
			if before != sim.NeedStarving && sim.ClassifyNeeds(a.Hunger) == sim.NeedStarving {
				report.Starving = append(report.Starving, a.ID)
			}
		}

		fed := false
		var target *farm.Entity
		if a.Hunger > tuning.SeekHungerThreshold {
			if trough, ok := sim.FindNearestTrough(a, troughs); ok {
				if res, ok := sim.FeedAnimal(a, trough); ok {
					feed := res.Patches(a.ID, trough.ID)
					patch = patch.Merge(feed[0])
					patches = append(patches, feed[1])
					troughs[troughIdx[trough.ID]].FoodLevel = res.Trough.FoodLevel
					fed = true
					report.Fed++
				} else {
					target = &trough
				}
			}
		}
		if !fed && a.IsFeeding {
			stop := false
			patch.IsFeeding = &stop
		}
		if !patch.Empty() {
			patches = append(patches, patch)
		}

		if fed || a.Velocity <= 0 {
			continue
		}
		if target != nil {
			step := a.Velocity * deltaSeconds * sim.VelocityScale
			p := sim.MoveTowards(a.X, a.Y, target.X, target.Y, step)
			dir := sim.Bearing(a.X, a.Y, target.X, target.Y)
			moves = append(moves, farm.PositionUpdate{ID: a.ID, X: roundPos(p.X), Y: roundPos(p.Y), Direction: &dir})
			continue
		}
		w := sim.Wander(e.rand(), a.X, a.Y, a.Direction, a.Velocity, deltaSeconds, bounds)
		if w.HitFence {
			report.FenceHits++
		}
		dir := w.Direction
		moves = append(moves, farm.PositionUpdate{ID: a.ID, X: w.X, Y: w.Y, Direction: &dir})
	}

	if len(patches) > 0 {
		state = reducer.Reduce(state, farm.PatchEntities{Patches: patches})
		report.Dispatched = append(report.Dispatched, farm.ActionPatchEntities)
	}
	if len(produced) > 0 {
		resources := cloneResources(state.Resources)
		for res, n := range produced {
			resources[res] += n
		}
		state = reducer.Reduce(state, farm.UpdateStats{StatsUpdate: farm.StatsUpdate{Resources: resources}})
		report.Dispatched = append(report.Dispatched, farm.ActionUpdateStats)
		report.Produced = produced
	}
	if len(moves) > 0 {
		state = reducer.Reduce(state, farm.BatchUpdatePositions{Updates: moves})
		report.Dispatched = append(report.Dispatched, farm.ActionBatchUpdatePositions)
		report.Moved = len(moves)
	}

	report.Day, report.Time, report.FenceHealth = state.Day, state.Time, state.FenceHealth
	return state, report
}

func roundPos(v float64) float64 {
	return math.Round(v*100) / 100
}
