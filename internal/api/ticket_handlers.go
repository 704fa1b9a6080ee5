package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/service"
)

type userRequestTicket struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IDCard     string `json:"idCard"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// SubmitUserRequest is the only unauthenticated mutation: an external
// visitor asking for an account.
func (h *Handler) SubmitUserRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req userRequestTicket
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.SubmitUserRequest(ctx, service.UserRequestInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		IDCard:     req.IDCard,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, ticket)
}

type createTicketRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Priority    string          `json:"priority"`
	Images      []string        `json:"images"`
	Location    entity.Location `json:"location"`
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req createTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.CreateTicket(ctx, actor, service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        entity.TicketType(req.Type),
		Priority:    entity.Priority(req.Priority),
		Images:      req.Images,
		Location:    req.Location,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, ticket)
}

func (h *Handler) Tickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	q := r.URL.Query()
	page, limit := pagingParams(r)

	tickets, total, err := h.s.Tickets(ctx, actor, service.TicketListInput{
		Status:   entity.TicketStatus(q.Get("status")),
		Type:     entity.TicketType(q.Get("type")),
		Priority: entity.Priority(q.Get("priority")),
		UserID:   q.Get("userId"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.TicketStatsOverview(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{
		Success: true,
		Data:    listData{Items: tickets, Total: total, Page: page, Limit: limit},
		Stats:   stats,
	})
}

func (h *Handler) TicketsByPortal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	portal := entity.Portal(chi.URLParam(r, "portal"))
	page, limit := pagingParams(r)

	tickets, total, err := h.s.TicketsByPortal(ctx, actor, portal, page, limit)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: tickets, Total: total, Page: page, Limit: limit})
}

func (h *Handler) TicketByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.TicketByID(ctx, actor, ticketID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, ticket)
}

type updateTicketRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Type        *entity.TicketType `json:"type"`
	Priority    *entity.Priority   `json:"priority"`
	Images      []string           `json:"images"`
	Location    *entity.Location   `json:"location"`
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.UpdateTicket(ctx, actor, ticketID, service.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		Images:      req.Images,
		Location:    req.Location,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, ticket)
}

type updateTicketStatusRequest struct {
	Status     string  `json:"status"`
	Resolution *string `json:"resolution"`
}

func (h *Handler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateTicketStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.UpdateTicketStatus(ctx, actor, ticketID, entity.TicketStatus(req.Status), req.Resolution)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, ticket)
}

type assignTicketRequest struct {
	Officer string `json:"officer"`
}

func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req assignTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticket, err := h.s.AssignTicket(ctx, actor, ticketID, req.Officer)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, ticket)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.DeleteTicket(ctx, actor, ticketID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "ticket deleted"})
}

type approvedUserData struct {
	User            *entity.User `json:"user"`
	OneTimePassword string       `json:"oneTimePassword"`
}

func (h *Handler) ApproveUserRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	ticketID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	approved, err := h.s.ApproveUserRequest(ctx, actor, ticketID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, approvedUserData{
		User:            approved.User,
		OneTimePassword: approved.OneTimePassword,
	})
}

func (h *Handler) TicketStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.TicketStatsOverview(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Stats: stats})
}
