package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/service"
)

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	q := r.URL.Query()
	page, limit := pagingParams(r)

	users, total, err := h.s.Users(ctx, actor, service.UserListInput{
		Role:   entity.Role(q.Get("role")),
		Portal: entity.Portal(q.Get("portal")),
		Status: entity.UserStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: users, Total: total, Page: page, Limit: limit})
}

func (h *Handler) UsersByPortal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	portal := entity.Portal(chi.URLParam(r, "portal"))
	page, limit := pagingParams(r)

	users, total, err := h.s.UsersByPortal(ctx, actor, portal, page, limit)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: users, Total: total, Page: page, Limit: limit})
}

func (h *Handler) UserByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	userID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	user, err := h.s.UserByID(ctx, actor, userID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	userID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	user, err := h.s.UpdateUser(ctx, actor, userID, req.toInput())
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, user)
}

type updateUserStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	userID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateUserStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	user, err := h.s.UpdateUserStatus(ctx, actor, userID, entity.UserStatus(req.Status))
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	userID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.DeleteUser(ctx, actor, userID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "user deleted"})
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.UserStatsOverview(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Stats: stats})
}
