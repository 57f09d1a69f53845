package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	metricsinmem "farmtycoon/internal/adapter/metrics/inmemory"
	"farmtycoon/internal/adapter/repo/memory"
	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/notify"
	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/app/replay"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
	"farmtycoon/internal/domain/terrain"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedRandom float64

func (r fixedRandom) Float64() float64 { return float64(r) }

func newTestHandler() Handler {
	store := memory.NewStore()
	journal := memory.NewJournalRepo(store)
	hub := notify.NewHub(nil, 0)
	tuning := game.DefaultTuning()
	tuning.SeedPerimeter = false
	seq := 0
	return Handler{
		Engine: game.Engine{
			TxManager: memory.NewTxManager(store),
			States:    memory.NewFarmStateRepo(store),
			Journal:   journal,
			Metrics:   metricsinmem.NewRecorder(),
			Notifier:  hub,
			Rand:      fixedRandom(0.5),
			Spawner: farm.Spawner{
				Rand: fixedRandom(0.5),
				Now:  func() time.Time { return testNow },
				NewID: func() string {
					seq++
					return fmt.Sprintf("e%d", seq)
				},
			},
			Tuning: tuning,
			Now:    func() time.Time { return testNow },
		},
		ReplayUC: replay.UseCase{Journal: journal},
		Notices:  hub,
		Terrain:  terrain.CreateDefault(grid.Size, grid.Size),
	}
}

func newRequest(session, body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	if session != "" {
		ctx.Request.Header.Set(sessionHeader, session)
	}
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext, out any) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, ctx.Response.Body())
	}
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestSessionID_HeaderThenQueryThenDefault(t *testing.T) {
	ctx := newRequest("s1", "")
	ctx.Request.SetRequestURI("/api/farm/state?session=s2")
	if got := sessionID(ctx); got != "s1" {
		t.Fatalf("header should win: got=%q want=%q", got, "s1")
	}

	ctx = newRequest("", "")
	ctx.Request.SetRequestURI("/api/farm/state?session=s2")
	if got := sessionID(ctx); got != "s2" {
		t.Fatalf("query fallback: got=%q want=%q", got, "s2")
	}

	ctx = newRequest("", "")
	if got := sessionID(ctx); got != game.DefaultSessionID {
		t.Fatalf("default session: got=%q want=%q", got, game.DefaultSessionID)
	}
}

func TestState_CreatesSessionLazily(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")

	h.state(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var state farm.FarmState
	decodeBody(t, ctx, &state)
	if got, want := len(state.Entities), len(farm.InitialState().Entities); got != want {
		t.Fatalf("entity count mismatch: got=%d want=%d", got, want)
	}
	if got, want := state.Money, farm.InitialMoney; got != want {
		t.Fatalf("money mismatch: got=%v want=%v", got, want)
	}
}

func TestDispatch_UpdateStats(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"type":"UPDATE_STATS","money":42,"resources":{"milk":1}}`)

	h.dispatch(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var state farm.FarmState
	decodeBody(t, ctx, &state)
	if state.Money != 42 {
		t.Fatalf("money mismatch: got=%v want=42", state.Money)
	}
	if got := state.Resources[farm.ResourceMilk]; got != 1 {
		t.Fatalf("milk mismatch: got=%d want=1", got)
	}
}

func TestDispatch_SpawnAnimalThenRemove(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"type":"SPAWN_ANIMAL","entity":{"id":"cow-9","type":"cow","x":40,"y":40,"hunger":10,"happiness":90}}`)
	h.dispatch(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("spawn status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = newRequest("s1", `{"type":"REMOVE_ENTITY","id":"cow-9"}`)
	h.dispatch(context.Background(), ctx)
	var state farm.FarmState
	decodeBody(t, ctx, &state)
	if _, ok := state.Find("cow-9"); ok {
		t.Fatalf("expected cow-9 removed")
	}
}

func TestDispatch_RejectsInvalidBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "missing type", body: `{"id":"x"}`},
		{name: "unknown type", body: `{"type":"EXPLODE"}`},
		{name: "static kind as animal", body: `{"type":"SPAWN_ANIMAL","entity":{"id":"b","type":"barn","x":1,"y":1}}`},
		{name: "remove without id", body: `{"type":"REMOVE_ENTITY"}`},
		{name: "patch hunger out of range", body: `{"type":"PATCH_ENTITIES","patches":[{"id":"a","hunger":140}]}`},
		{name: "patch food over trough capacity", body: `{"type":"PATCH_ENTITIES","patches":[{"id":"t","food_level":1000}]}`},
		{name: "unknown resource", body: `{"type":"UPDATE_STATS","resources":{"gold":1}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler()
			ctx := newRequest("s1", tc.body)
			h.dispatch(context.Background(), ctx)

			if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
				t.Fatalf("status mismatch: got=%d want=%d", got, want)
			}
			var body errorBody
			decodeBody(t, ctx, &body)
			if body.Error.Code != "invalid_action" {
				t.Fatalf("code mismatch: got=%q want=%q", body.Error.Code, "invalid_action")
			}
		})
	}
}

func TestSpawnAnimal_CreatedAndNotified(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"type":"sheep"}`)

	h.spawnAnimal(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var ent farm.Entity
	decodeBody(t, ctx, &ent)
	if ent.Kind != farm.KindSheep {
		t.Fatalf("kind mismatch: got=%q want=%q", ent.Kind, farm.KindSheep)
	}
	notes := h.Notices.Queue("s1").Notifications()
	if len(notes) != 1 || notes[0].Type != ports.NotifySuccess {
		t.Fatalf("expected one success notification, got=%+v", notes)
	}
}

func TestSpawnAnimal_RejectsNonAnimal(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"type":"barn"}`)

	h.spawnAnimal(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestPlaceTrough_OnPondReturnsPlacementDetails(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"grid_x":5,"grid_y":9}`)

	h.placeTrough(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body errorBody
	decodeBody(t, ctx, &body)
	if body.Error.Code != "invalid_placement" {
		t.Fatalf("code mismatch: got=%q", body.Error.Code)
	}
	if got := body.Error.Details["reason"]; got != "terrain is not walkable" {
		t.Fatalf("reason mismatch: got=%v", got)
	}
	if got := body.Error.Details["grid_x"]; got != float64(5) {
		t.Fatalf("grid_x mismatch: got=%v want=5", got)
	}
}

func TestPlaceFence_RequiresCoordinates(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"grid_x":2}`)

	h.placeFence(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestPlaceFence_SecondPlacementOnSameCellConflicts(t *testing.T) {
	h := newTestHandler()
	for i, want := range []int{consts.StatusCreated, consts.StatusConflict} {
		ctx := newRequest("s1", `{"grid_x":2,"grid_y":3,"orientation":"vertical"}`)
		h.placeFence(context.Background(), ctx)
		if got := ctx.Response.StatusCode(); got != want {
			t.Fatalf("placement %d status mismatch: got=%d want=%d", i, got, want)
		}
	}
}

func TestRefillTrough(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"grid_x":2,"grid_y":3}`)
	h.placeTrough(context.Background(), ctx)
	var trough farm.Entity
	decodeBody(t, ctx, &trough)

	_, err := h.Engine.Dispatch(context.Background(), "s1", farm.PatchEntities{Patches: []farm.EntityPatch{{ID: trough.ID, FoodLevel: ptr(60.0)}}})
	if err != nil {
		t.Fatalf("drain trough: %v", err)
	}

	ctx = newRequest("s1", "")
	ctx.Params = param.Params{{Key: "id", Value: trough.ID}}
	h.refillTrough(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var resp costResponse
	decodeBody(t, ctx, &resp)
	if got, want := resp.Cost, 20.0; got != want {
		t.Fatalf("cost mismatch: got=%v want=%v", got, want)
	}
	refilled, _ := resp.State.Find(trough.ID)
	if refilled.FoodLevel != farm.TroughCapacity {
		t.Fatalf("food level mismatch: got=%v want=%v", refilled.FoodLevel, farm.TroughCapacity)
	}
}

func TestRefillTrough_UnknownID(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")
	ctx.Params = param.Params{{Key: "id", Value: "nope"}}

	h.refillTrough(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestSell_AllAndInsufficientStock(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"resource":"milk"}`)
	h.sell(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var sale game.Sale
	decodeBody(t, ctx, &sale)
	if sale.Count != 15 || sale.Revenue != 75 {
		t.Fatalf("sale mismatch: got=%+v want count=15 revenue=75", sale)
	}

	ctx = newRequest("s1", `{"resource":"meat","count":9}`)
	h.sell(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body errorBody
	decodeBody(t, ctx, &body)
	if body.Error.Code != "insufficient_stock" {
		t.Fatalf("code mismatch: got=%q want=%q", body.Error.Code, "insufficient_stock")
	}
}

func TestRepairFences_InsufficientFunds(t *testing.T) {
	h := newTestHandler()
	broke := farm.StatsUpdate{Money: ptr(1.0), FenceHealth: ptr(50.0)}
	if _, err := h.Engine.UpdateStats(context.Background(), "s1", broke); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	ctx := newRequest("s1", "")

	h.repairFences(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body errorBody
	decodeBody(t, ctx, &body)
	if body.Error.Code != "insufficient_funds" {
		t.Fatalf("code mismatch: got=%q want=%q", body.Error.Code, "insufficient_funds")
	}
}

func TestTogglePause(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")

	h.togglePause(context.Background(), ctx)

	var body map[string]bool
	decodeBody(t, ctx, &body)
	if !body["is_paused"] {
		t.Fatalf("expected paused after first toggle, got=%v", body)
	}
}

func TestRemoveEntity_Unknown(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")
	ctx.Params = param.Params{{Key: "id", Value: "ghost"}}

	h.removeEntity(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestEndSession_JournalsAndDropsNotifications(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")
	h.togglePause(context.Background(), ctx)
	h.Notices.Queue("s1").Add("persist", ports.NotifyInfo, 0)

	ctx = newRequest("s1", "")
	h.endSession(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNoContent; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := len(h.Notices.Queue("s1").Notifications()); got != 0 {
		t.Fatalf("expected a fresh queue, got %d notifications", got)
	}

	ctx = newRequest("s1", "")
	ctx.Request.SetRequestURI("/api/farm/journal?limit=10")
	h.journal(context.Background(), ctx)
	var resp replay.Response
	decodeBody(t, ctx, &resp)
	if len(resp.Entries) != 2 {
		t.Fatalf("journal size mismatch: got=%d want=2", len(resp.Entries))
	}
	if got, want := resp.Entries[0].Type, "SESSION_ENDED"; got != want {
		t.Fatalf("latest entry mismatch: got=%q want=%q", got, want)
	}
}

func TestEndSession_UnknownSession(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("never-seen", "")

	h.endSession(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestJournal_RejectsInvertedWindow(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", "")
	ctx.Request.SetRequestURI("/api/farm/journal?occurred_from=20&occurred_to=10")

	h.journal(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestTerrainTiles(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("", "")

	h.terrainTiles(context.Background(), ctx)

	var resp terrainResponse
	decodeBody(t, ctx, &resp)
	if resp.Rows != grid.Size || resp.Cols != grid.Size {
		t.Fatalf("dimensions mismatch: got=%dx%d want=%dx%d", resp.Rows, resp.Cols, grid.Size, grid.Size)
	}
	if got, want := len(resp.Tiles), grid.Size*grid.Size; got != want {
		t.Fatalf("tile count mismatch: got=%d want=%d", got, want)
	}
}

func TestGridHit(t *testing.T) {
	h := newTestHandler()
	screen := grid.GridToScreen(3, 4)
	ctx := newRequest("", "")
	ctx.Request.SetRequestURI(fmt.Sprintf("/api/grid/hit?screen_x=%v&screen_y=%v", screen.X, screen.Y))

	h.gridHit(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var resp gridHitResponse
	decodeBody(t, ctx, &resp)
	if resp.Cell != (grid.Cell{X: 3, Y: 4}) || !resp.Valid || !resp.Walkable {
		t.Fatalf("hit mismatch: got=%+v", resp)
	}
	if resp.ZIndex != 7 {
		t.Fatalf("z-index mismatch: got=%d want=7", resp.ZIndex)
	}
}

func TestGridHit_OffGridAndBadQuery(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("", "")
	ctx.Request.SetRequestURI("/api/grid/hit?screen_x=0&screen_y=0")
	h.gridHit(context.Background(), ctx)
	var resp gridHitResponse
	decodeBody(t, ctx, &resp)
	if resp.Valid || resp.Walkable {
		t.Fatalf("expected off-grid hit, got=%+v", resp)
	}

	ctx = newRequest("", "")
	ctx.Request.SetRequestURI("/api/grid/hit?screen_x=abc")
	h.gridHit(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestNotifications_AddListRemove(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("s1", `{"message":"hello","type":"warning","duration":0}`)
	h.addNotification(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var created map[string]string
	decodeBody(t, ctx, &created)

	ctx = newRequest("s1", "")
	h.listNotifications(context.Background(), ctx)
	var list notificationsResponse
	decodeBody(t, ctx, &list)
	if len(list.Notifications) != 1 || list.Notifications[0].ID != created["id"] {
		t.Fatalf("list mismatch: got=%+v", list.Notifications)
	}
	if list.Notifications[0].Type != ports.NotifyWarning {
		t.Fatalf("type mismatch: got=%q", list.Notifications[0].Type)
	}

	ctx = newRequest("s1", "")
	ctx.Params = param.Params{{Key: "id", Value: created["id"]}}
	h.removeNotification(context.Background(), ctx)
	if got := len(h.Notices.Queue("s1").Notifications()); got != 0 {
		t.Fatalf("expected empty queue, got %d", got)
	}
}

func TestNotifications_Validation(t *testing.T) {
	h := newTestHandler()
	for _, body := range []string{`{"message":""}`, `{"message":"x","type":"loud"}`, `{`} {
		ctx := newRequest("s1", body)
		h.addNotification(context.Background(), ctx)
		if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
			t.Fatalf("body %s: status mismatch: got=%d want=%d", body, got, want)
		}
	}
}

func TestNotifications_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := newRequest("s1", "")

	h.listNotifications(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI(t *testing.T) {
	h := newTestHandler()
	ctx := newRequest("", "")
	h.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("unconfigured status mismatch: got=%d want=%d", got, want)
	}

	rec := metricsinmem.NewRecorder()
	rec.RecordTick()
	h.KPI = rec
	ctx = newRequest("", "")
	h.kpi(context.Background(), ctx)
	var snap metricsinmem.Snapshot
	decodeBody(t, ctx, &snap)
	if snap.TicksRun != 1 {
		t.Fatalf("ticks mismatch: got=%d want=1", snap.TicksRun)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("wrap: %w", game.ErrInvalidRequest), status: consts.StatusBadRequest, code: "bad_request"},
		{err: replay.ErrInvalidRequest, status: consts.StatusBadRequest, code: "bad_request"},
		{err: game.ErrInsufficientFunds, status: consts.StatusConflict, code: "insufficient_funds"},
		{err: game.ErrUnknownEntity, status: consts.StatusNotFound, code: "unknown_entity"},
		{err: ports.ErrNotFound, status: consts.StatusNotFound, code: "not_found"},
		{err: ports.ErrConflict, status: consts.StatusConflict, code: "conflict"},
		{err: errors.New("boom"), status: consts.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			ctx := &app.RequestContext{}
			writeError(ctx, tc.err)
			if got := ctx.Response.StatusCode(); got != tc.status {
				t.Fatalf("status mismatch: got=%d want=%d", got, tc.status)
			}
			var body errorBody
			decodeBody(t, ctx, &body)
			if body.Error.Code != tc.code {
				t.Fatalf("code mismatch: got=%q want=%q", body.Error.Code, tc.code)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
