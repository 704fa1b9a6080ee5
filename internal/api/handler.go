package api

import (
	"net/http"

	"github.com/sicada/admin-service/internal/service"
)

type Handler struct {
	s *service.Service
}

func NewHandler(s *service.Service) *Handler {
	return &Handler{s: s}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	SendJSON(r.Context(), w, http.StatusOK, Response{Success: true, Message: "ok"})
}
