package game

import (
	"context"
	"fmt"
	"math"

	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
)

func (e Engine) SpawnAnimal(ctx context.Context, sessionID string, kind farm.Kind) (farm.Entity, error) {
	if !kind.IsAnimal() {
		return farm.Entity{}, fmt.Errorf("%w: %q is not an animal", ErrInvalidRequest, kind)
	}
	var spawned farm.Entity
	_, err := e.apply(ctx, sessionID, func(farm.FarmState) ([]farm.Action, error) {
		ent, ok := e.spawner().SpawnAnimal(kind)
		if !ok {
			return nil, ErrInvalidRequest
		}
		spawned = ent
		return []farm.Action{farm.SpawnAnimal{Entity: ent}}, nil
	})
	if err != nil {
		return farm.Entity{}, err
	}
	e.notify(NormalizeSessionID(sessionID), fmt.Sprintf("A new %s joined the farm", kind), ports.NotifySuccess)
	return spawned, nil
}

func (e Engine) PlaceFence(ctx context.Context, sessionID string, gridX, gridY int, orientation farm.Orientation) (farm.Entity, error) {
	if orientation != "" && orientation != farm.Horizontal && orientation != farm.Vertical {
		return farm.Entity{}, fmt.Errorf("%w: orientation %q", ErrInvalidRequest, orientation)
	}
	var placed farm.Entity
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		if err := e.checkPlacement(state, gridX, gridY); err != nil {
			return nil, err
		}
		placed = e.spawner().CreateFence(gridX, gridY, orientation)
		return []farm.Action{farm.SpawnStatic{Entity: placed}}, nil
	})
	if err != nil {
		return farm.Entity{}, err
	}
	return placed, nil
}

func (e Engine) PlaceTrough(ctx context.Context, sessionID string, gridX, gridY int) (farm.Entity, error) {
	var placed farm.Entity
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		if err := e.checkPlacement(state, gridX, gridY); err != nil {
			return nil, err
		}
		placed = e.spawner().CreateTrough(gridX, gridY)
		return []farm.Action{farm.SpawnStatic{Entity: placed}}, nil
	})
	if err != nil {
		return farm.Entity{}, err
	}
	return placed, nil
}

// checkPlacement rejects cells off the grid, on water, or already holding a
// fence or trough.
func (e Engine) checkPlacement(state farm.FarmState, gridX, gridY int) error {
	cell := grid.Cell{X: gridX, Y: gridY}
	if !grid.IsValidGridPosition(gridX, gridY) {
		return &PlacementError{Cell: cell, Reason: "outside the grid"}
	}
	if !e.terrain().WalkableAt(gridX, gridY) {
		return &PlacementError{Cell: cell, Reason: "terrain is not walkable"}
	}
	for _, ent := range state.Entities {
		if ent.Kind != farm.KindFence && ent.Kind != farm.KindTrough {
			continue
		}
		if c, ok := ent.Cell(); ok && c == cell {
			return &PlacementError{Cell: cell, Reason: "occupied by " + ent.ID}
		}
	}
	return nil
}

func (e Engine) RemoveEntity(ctx context.Context, sessionID, id string) error {
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		if _, ok := state.Find(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
		}
		return []farm.Action{farm.RemoveEntity{ID: id}}, nil
	})
	return err
}

// TogglePause flips the pause gate and returns the new value.
func (e Engine) TogglePause(ctx context.Context, sessionID string) (bool, error) {
	state, err := e.apply(ctx, sessionID, func(farm.FarmState) ([]farm.Action, error) {
		return []farm.Action{farm.TogglePause{}}, nil
	})
	if err != nil {
		return false, err
	}
	return state.IsPaused, nil
}

func (e Engine) UpdateStats(ctx context.Context, sessionID string, update farm.StatsUpdate) (farm.FarmState, error) {
	return e.apply(ctx, sessionID, func(farm.FarmState) ([]farm.Action, error) {
		return []farm.Action{farm.UpdateStats{StatsUpdate: update}}, nil
	})
}

type Sale struct {
	Resource farm.Resource `json:"resource"`
	Count    int           `json:"count"`
	Revenue  float64       `json:"revenue"`
	Money    float64       `json:"money"`
}

// Sell converts stock into money. A zero count sells everything in stock.
func (e Engine) Sell(ctx context.Context, sessionID string, resource farm.Resource, count int) (Sale, error) {
	price, ok := e.tuning().Prices[resource]
	if !ok || count < 0 {
		return Sale{}, fmt.Errorf("%w: sell %d %q", ErrInvalidRequest, count, resource)
	}
	var sale Sale
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		have := state.Resources[resource]
		n := count
		if n == 0 {
			n = have
		}
		if n == 0 || n > have {
			return nil, fmt.Errorf("%w: have %d %s", ErrInsufficientStock, have, resource)
		}
		revenue := roundMoney(float64(n) * price)
		money := roundMoney(state.Money + revenue)
		resources := cloneResources(state.Resources)
		resources[resource] = have - n
		sale = Sale{Resource: resource, Count: n, Revenue: revenue, Money: money}
		return []farm.Action{farm.UpdateStats{StatsUpdate: farm.StatsUpdate{Money: &money, Resources: resources}}}, nil
	})
	if err != nil {
		return Sale{}, err
	}
	e.notify(NormalizeSessionID(sessionID), fmt.Sprintf("Sold %d %s for $%.2f", sale.Count, sale.Resource, sale.Revenue), ports.NotifySuccess)
	return sale, nil
}

// RepairFences restores global fence health and returns what it cost.
func (e Engine) RepairFences(ctx context.Context, sessionID string) (float64, error) {
	tuning := e.tuning()
	var cost float64
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		missing := farm.MaxHealth - state.FenceHealth
		if missing <= 0 {
			return nil, nil
		}
		cost = roundMoney(missing * tuning.RepairCostPerPoint)
		if cost > state.Money {
			return nil, fmt.Errorf("%w: repair costs $%.2f", ErrInsufficientFunds, cost)
		}
		money := roundMoney(state.Money - cost)
		health := farm.MaxHealth
		actions := []farm.Action{farm.UpdateStats{StatsUpdate: farm.StatsUpdate{Money: &money, FenceHealth: &health}}}
		var patches []farm.EntityPatch
		for _, ent := range state.Entities {
			if ent.Kind == farm.KindFence && ent.Health < farm.MaxHealth {
				h := farm.MaxHealth
				patches = append(patches, farm.EntityPatch{ID: ent.ID, Health: &h})
			}
		}
		if len(patches) > 0 {
			actions = append(actions, farm.PatchEntities{Patches: patches})
		}
		return actions, nil
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

// RefillTrough fills a trough to capacity and returns what it cost.
func (e Engine) RefillTrough(ctx context.Context, sessionID, id string) (float64, error) {
	tuning := e.tuning()
	var cost float64
	_, err := e.apply(ctx, sessionID, func(state farm.FarmState) ([]farm.Action, error) {
		trough, ok := state.Find(id)
		if !ok || trough.Kind != farm.KindTrough {
			return nil, fmt.Errorf("%w: trough %s", ErrUnknownEntity, id)
		}
		missing := farm.TroughCapacity - trough.FoodLevel
		if missing <= 0 {
			return nil, nil
		}
		cost = roundMoney(missing * tuning.TroughRefillCostPerUnit)
		if cost > state.Money {
			return nil, fmt.Errorf("%w: refill costs $%.2f", ErrInsufficientFunds, cost)
		}
		money := roundMoney(state.Money - cost)
		food := farm.TroughCapacity
		return []farm.Action{
			farm.UpdateStats{StatsUpdate: farm.StatsUpdate{Money: &money}},
			farm.PatchEntities{Patches: []farm.EntityPatch{{ID: id, FoodLevel: &food}}},
		}, nil
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func cloneResources(in map[farm.Resource]int) map[farm.Resource]int {
	out := make(map[farm.Resource]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
