package api

import (
	"net/http"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginData struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	token, user, err := h.s.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, loginData{Token: token, User: user})
}

type registerRequest struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	IDCard      string  `json:"idCard"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	Portal      string  `json:"portal"`
	Department  *string `json:"department"`
	Position    *string `json:"position"`
	Address     *string `json:"address"`
	BadgeNumber *string `json:"badgeNumber"`
	Rank        *string `json:"rank"`
	Station     *string `json:"station"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	user, err := h.s.Register(ctx, actor, service.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		IDCard:      req.IDCard,
		Password:    req.Password,
		Role:        entity.Role(req.Role),
		Portal:      entity.Portal(req.Portal),
		Department:  req.Department,
		Position:    req.Position,
		Address:     req.Address,
		BadgeNumber: req.BadgeNumber,
		Rank:        req.Rank,
		Station:     req.Station,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, user)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, actor)
}

type updateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	IDCard      *string `json:"idCard"`
	Department  *string `json:"department"`
	Position    *string `json:"position"`
	Address     *string `json:"address"`
	BadgeNumber *string `json:"badgeNumber"`
	Rank        *string `json:"rank"`
	Station     *string `json:"station"`
	Avatar      *string `json:"avatar"`
}

func (r updateProfileRequest) toInput() service.UpdateProfileInput {
	return service.UpdateProfileInput{
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		IDCard:      r.IDCard,
		Department:  r.Department,
		Position:    r.Position,
		Address:     r.Address,
		BadgeNumber: r.BadgeNumber,
		Rank:        r.Rank,
		Station:     r.Station,
		Avatar:      r.Avatar,
	}
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	user, err := h.s.UpdateProfile(ctx, actor, req.toInput())
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.ChangePassword(ctx, actor, req.CurrentPassword, req.NewPassword)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "password changed"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.Logout(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "logged out"})
}

// Verify echoes the identity the guard resolved; clients use it to check a
// stored token is still good.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, actor)
}
