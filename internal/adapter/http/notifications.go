package httpadapter

import (
	"context"
	"strings"

	"farmtycoon/internal/app/notify"
	"farmtycoon/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type addNotificationRequest struct {
	Message  string                 `json:"message"`
	Type     ports.NotificationType `json:"type,omitempty"`
	Duration *int                   `json:"duration,omitempty"`
}

type notificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

func (h Handler) listNotifications(_ context.Context, ctx *app.RequestContext) {
	q, ok := h.queue(ctx)
	if !ok {
		return
	}
	ctx.JSON(consts.StatusOK, notificationsResponse{Notifications: q.Notifications()})
}

func (h Handler) addNotification(_ context.Context, ctx *app.RequestContext) {
	q, ok := h.queue(ctx)
	if !ok {
		return
	}
	var body addNotificationRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "message is required")
		return
	}
	switch body.Type {
	case "", ports.NotifyInfo, ports.NotifySuccess, ports.NotifyWarning, ports.NotifyError:
	default:
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "unknown notification type")
		return
	}
	duration := -1
	if body.Duration != nil {
		duration = *body.Duration
	}
	id := q.Add(body.Message, body.Type, duration)
	ctx.JSON(consts.StatusCreated, map[string]string{"id": id})
}

func (h Handler) removeNotification(_ context.Context, ctx *app.RequestContext) {
	q, ok := h.queue(ctx)
	if !ok {
		return
	}
	q.Remove(ctx.Param("id"))
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) queue(ctx *app.RequestContext) (*notify.Queue, bool) {
	if h.Notices == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "notifications not configured")
		return nil, false
	}
	return h.Notices.Queue(sessionID(ctx)), true
}
