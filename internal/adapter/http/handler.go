package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/notify"
	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/app/replay"
	"farmtycoon/internal/domain/grid"
	"farmtycoon/internal/domain/terrain"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const sessionHeader = "X-Farm-Session"
const sessionQuery = "session"

type Handler struct {
	Engine   game.Engine
	ReplayUC replay.UseCase
	Notices  *notify.Hub
	Terrain  terrain.Grid
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	s.OPTIONS("/*any", func(context.Context, *app.RequestContext) {})

	api := s.Group("/api/farm")
	api.GET("/state", h.state)
	api.POST("/dispatch", h.dispatch)
	api.POST("/animals", h.spawnAnimal)
	api.POST("/fences", h.placeFence)
	api.POST("/troughs", h.placeTrough)
	api.POST("/troughs/:id/refill", h.refillTrough)
	api.DELETE("/entities/:id", h.removeEntity)
	api.POST("/pause", h.togglePause)
	api.POST("/sell", h.sell)
	api.POST("/repair", h.repairFences)
	api.DELETE("/session", h.endSession)
	api.GET("/journal", h.journal)

	s.GET("/api/terrain", h.terrainTiles)
	s.GET("/api/grid/hit", h.gridHit)

	s.GET("/api/notifications", h.listNotifications)
	s.POST("/api/notifications", h.addNotification)
	s.DELETE("/api/notifications/:id", h.removeNotification)

	s.GET("/ops/kpi", h.kpi)
}

// sessionID reads the farm session from the header, falling back to the
// query string for clients that cannot set headers.
func sessionID(ctx *app.RequestContext) string {
	id := strings.TrimSpace(string(ctx.GetHeader(sessionHeader)))
	if id == "" {
		id = strings.TrimSpace(string(ctx.Query(sessionQuery)))
	}
	return game.NormalizeSessionID(id)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	state, err := h.Engine.State(c, sessionID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) dispatch(c context.Context, ctx *app.RequestContext) {
	action, err := parseAction(ctx.Request.Body())
	if err != nil {
		writeError(ctx, err)
		return
	}
	state, err := h.Engine.Dispatch(c, sessionID(ctx), action)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) journal(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID:    sessionID(ctx),
		Limit:        limit,
		Type:         string(ctx.Query("type")),
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type terrainResponse struct {
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Tiles []terrain.Tile `json:"tiles"`
}

func (h Handler) terrainTiles(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, terrainResponse{
		Rows:  h.Terrain.Rows(),
		Cols:  h.Terrain.Cols(),
		Tiles: h.Terrain.Tiles(),
	})
}

type gridHitResponse struct {
	Cell     grid.Cell    `json:"cell"`
	Percent  grid.Percent `json:"percent"`
	Screen   grid.Screen  `json:"screen"`
	Valid    bool         `json:"valid"`
	Walkable bool         `json:"walkable"`
	ZIndex   int          `json:"z_index"`
}

func (h Handler) gridHit(_ context.Context, ctx *app.RequestContext) {
	sx, errX := strconv.ParseFloat(string(ctx.Query("screen_x")), 64)
	sy, errY := strconv.ParseFloat(string(ctx.Query("screen_y")), 64)
	if errX != nil || errY != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "screen_x and screen_y are required numbers")
		return
	}
	cell := grid.ScreenToGrid(sx, sy)
	valid := grid.IsValidGridPosition(cell.X, cell.Y)
	ctx.JSON(consts.StatusOK, gridHitResponse{
		Cell:     cell,
		Percent:  grid.GridToPercent(cell.X, cell.Y),
		Screen:   grid.GridToScreen(cell.X, cell.Y),
		Valid:    valid,
		Walkable: valid && h.Terrain.WalkableAt(cell.X, cell.Y),
		ZIndex:   grid.CalculateZIndex(cell.X, cell.Y),
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var placement *game.PlacementError
	switch {
	case errors.As(err, &placement):
		ctx.JSON(consts.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":    "invalid_placement",
				"message": err.Error(),
				"details": map[string]any{
					"grid_x": placement.Cell.X,
					"grid_y": placement.Cell.Y,
					"reason": placement.Reason,
				},
			},
		})
	case errors.Is(err, ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, game.ErrInsufficientFunds):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, game.ErrInsufficientStock):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, game.ErrUnknownEntity):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_entity", err.Error())
	case errors.Is(err, game.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
