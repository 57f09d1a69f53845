package game

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
	"farmtycoon/internal/domain/terrain"
)

const DefaultSessionID = "demo"

const JournalDayAdvanced = "DAY_ADVANCED"

// Engine drives farm sessions: it ticks the simulation and turns player
// commands into reducer actions. Each call loads the session, applies actions
// and saves it back inside one transaction.
type Engine struct {
	TxManager ports.TxManager
	States    ports.FarmStateRepository
	Journal   ports.JournalRepository
	Metrics   ports.GameMetrics
	Notifier  ports.Notifier
	Terrain   terrain.Grid
	Spawner   farm.Spawner
	Rand      farm.Random
	Tuning    Tuning
	Now       func() time.Time
}

func NormalizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSessionID
	}
	return id
}

// State returns the session state, creating the session on first use.
func (e Engine) State(ctx context.Context, sessionID string) (farm.FarmState, error) {
	sessionID = NormalizeSessionID(sessionID)
	var out farm.FarmState
	err := e.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		sess, err := e.load(txCtx, sessionID)
		if err != nil {
			return err
		}
		if sess.Version == 0 {
			if err := e.save(txCtx, sess, sess.State); err != nil {
				return err
			}
		}
		out = sess.State
		return nil
	})
	return out, err
}

func (e Engine) EndSession(ctx context.Context, sessionID string) error {
	sessionID = NormalizeSessionID(sessionID)
	err := e.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return e.States.Delete(txCtx, sessionID)
	})
	if err != nil {
		return err
	}
	e.appendJournal(ctx, ports.JournalEntry{
		SessionID:  sessionID,
		Type:       "SESSION_ENDED",
		Payload:    map[string]any{},
		OccurredAt: e.now(),
	})
	return nil
}

// Dispatch applies a raw action to the session.
func (e Engine) Dispatch(ctx context.Context, sessionID string, action farm.Action) (farm.FarmState, error) {
	if action == nil {
		return farm.FarmState{}, ErrInvalidRequest
	}
	return e.apply(ctx, sessionID, func(farm.FarmState) ([]farm.Action, error) {
		return []farm.Action{action}, nil
	})
}

type commandFunc func(state farm.FarmState) ([]farm.Action, error)

func (e Engine) apply(ctx context.Context, sessionID string, cmd commandFunc) (farm.FarmState, error) {
	sessionID = NormalizeSessionID(sessionID)
	var (
		out     farm.FarmState
		applied []farm.Action
	)
	err := e.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		sess, err := e.load(txCtx, sessionID)
		if err != nil {
			return err
		}
		actions, err := cmd(sess.State)
		if err != nil {
			return err
		}
		state := sess.State
		reducer := e.reducer()
		for _, a := range actions {
			state = reducer.Reduce(state, a)
		}
		if err := e.save(txCtx, sess, state); err != nil {
			return err
		}
		out = state
		applied = actions
		return nil
	})
	if err != nil {
		return farm.FarmState{}, err
	}

	now := e.now()
	entries := make([]ports.JournalEntry, 0, len(applied))
	for _, a := range applied {
		if e.Metrics != nil {
			e.Metrics.RecordDispatch(a.Type())
		}
		entries = append(entries, ports.JournalEntry{
			SessionID:  sessionID,
			Type:       string(a.Type()),
			Payload:    actionPayload(a),
			OccurredAt: now,
		})
	}
	e.appendJournal(ctx, entries...)
	return out, nil
}

func (e Engine) load(ctx context.Context, sessionID string) (ports.FarmSession, error) {
	sess, err := e.States.GetBySessionID(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return ports.FarmSession{}, err
	}
	state := farm.InitialState()
	if e.tuning().SeedPerimeter {
		state.Entities = append(state.Entities, e.spawner().CreateFencePerimeter()...)
	}
	now := e.now()
	return ports.FarmSession{ID: sessionID, State: state, CreatedAt: now, UpdatedAt: now}, nil
}

func (e Engine) save(ctx context.Context, sess ports.FarmSession, state farm.FarmState) error {
	next := sess
	next.State = state
	next.Version = sess.Version + 1
	next.UpdatedAt = e.now()
	return e.States.SaveWithVersion(ctx, next, sess.Version)
}

// appendJournal never fails the caller; the journal is an audit trail.
func (e Engine) appendJournal(ctx context.Context, entries ...ports.JournalEntry) {
	if e.Journal == nil || len(entries) == 0 {
		return
	}
	if err := e.Journal.Append(ctx, entries); err != nil {
		hlog.CtxWarnf(ctx, "journal append failed session=%s entries=%d: %v", entries[0].SessionID, len(entries), err)
	}
}

func (e Engine) notify(sessionID, message string, typ ports.NotificationType) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.Notify(sessionID, message, typ)
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) rand() farm.Random {
	if e.Rand != nil {
		return e.Rand
	}
	return farm.DefaultRandom()
}

func (e Engine) reducer() farm.Reducer {
	return farm.Reducer{Now: e.now}
}

func (e Engine) spawner() farm.Spawner {
	s := e.Spawner
	if s.Rand == nil {
		s.Rand = e.rand()
	}
	if s.Now == nil {
		s.Now = e.now
	}
	return s
}

func (e Engine) terrain() terrain.Grid {
	if e.Terrain.Rows() == 0 {
		return terrain.CreateDefault(grid.Size, grid.Size)
	}
	return e.Terrain
}

func (e Engine) tuning() Tuning {
	return e.Tuning.withDefaults()
}

func actionPayload(a farm.Action) map[string]any {
	raw, err := json.Marshal(a)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
