package api

import (
	"net/http"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/service"
)

func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	q := r.URL.Query()
	page, limit := pagingParams(r)

	activities, total, err := h.s.Activities(ctx, actor, service.ActivityListInput{
		Type:     q.Get("type"),
		TicketID: q.Get("ticketId"),
		UserID:   q.Get("userId"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: activities, Total: total, Page: page, Limit: limit})
}

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.DashboardStats(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Stats: stats})
}

func (h *Handler) WilayaDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	dashboard, err := h.s.WilayaDashboardStats(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, dashboard)
}
