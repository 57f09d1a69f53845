package httpadapter

import (
	"context"
	"strings"

	"farmtycoon/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type spawnAnimalRequest struct {
	Kind farm.Kind `json:"type"`
}

type placeRequest struct {
	GridX       *int             `json:"grid_x"`
	GridY       *int             `json:"grid_y"`
	Orientation farm.Orientation `json:"orientation,omitempty"`
}

type sellRequest struct {
	Resource farm.Resource `json:"resource"`
	Count    int           `json:"count"`
}

type costResponse struct {
	Cost  float64        `json:"cost"`
	State farm.FarmState `json:"state"`
}

func (h Handler) spawnAnimal(c context.Context, ctx *app.RequestContext) {
	var body spawnAnimalRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ent, err := h.Engine.SpawnAnimal(c, sessionID(ctx), body.Kind)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, ent)
}

func (h Handler) placeFence(c context.Context, ctx *app.RequestContext) {
	body, ok := decodePlacement(ctx)
	if !ok {
		return
	}
	ent, err := h.Engine.PlaceFence(c, sessionID(ctx), *body.GridX, *body.GridY, body.Orientation)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, ent)
}

func (h Handler) placeTrough(c context.Context, ctx *app.RequestContext) {
	body, ok := decodePlacement(ctx)
	if !ok {
		return
	}
	ent, err := h.Engine.PlaceTrough(c, sessionID(ctx), *body.GridX, *body.GridY)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, ent)
}

func decodePlacement(ctx *app.RequestContext) (placeRequest, bool) {
	var body placeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return placeRequest{}, false
	}
	if body.GridX == nil || body.GridY == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "grid_x and grid_y are required")
		return placeRequest{}, false
	}
	return body, true
}

func (h Handler) refillTrough(c context.Context, ctx *app.RequestContext) {
	sid := sessionID(ctx)
	cost, err := h.Engine.RefillTrough(c, sid, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.respondWithCost(c, ctx, sid, cost)
}

func (h Handler) repairFences(c context.Context, ctx *app.RequestContext) {
	sid := sessionID(ctx)
	cost, err := h.Engine.RepairFences(c, sid)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.respondWithCost(c, ctx, sid, cost)
}

func (h Handler) respondWithCost(c context.Context, ctx *app.RequestContext, sid string, cost float64) {
	state, err := h.Engine.State(c, sid)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, costResponse{Cost: cost, State: state})
}

func (h Handler) removeEntity(c context.Context, ctx *app.RequestContext) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "entity id is required")
		return
	}
	if err := h.Engine.RemoveEntity(c, sessionID(ctx), id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) togglePause(c context.Context, ctx *app.RequestContext) {
	paused, err := h.Engine.TogglePause(c, sessionID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]bool{"is_paused": paused})
}

func (h Handler) sell(c context.Context, ctx *app.RequestContext) {
	var body sellRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	sale, err := h.Engine.Sell(c, sessionID(ctx), body.Resource, body.Count)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, sale)
}

func (h Handler) endSession(c context.Context, ctx *app.RequestContext) {
	sid := sessionID(ctx)
	if err := h.Engine.EndSession(c, sid); err != nil {
		writeError(ctx, err)
		return
	}
	if h.Notices != nil {
		h.Notices.Drop(sid)
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}
