package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/pkg/logger"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Stats   any    `json:"stats,omitempty"`
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		code = http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)

		logger.FromContext(ctx).Error("encode response", "error", err)
	}
}

func SendData(ctx context.Context, w http.ResponseWriter, code int, data any) {
	SendJSON(ctx, w, code, Response{Success: true, Data: data})
}

// SendErr maps domain errors onto the HTTP status convention. Anything
// unrecognized is a 500 with a generic message; the cause stays in the log.
func SendErr(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)

	code := statusFromError(err)
	msg := err.Error()

	if code == http.StatusInternalServerError {
		log.Error("api error", "error", err)

		msg = "internal server error"
	} else {
		log.Warn("request rejected", "error", err)
	}

	SendJSON(ctx, w, code, Response{Success: false, Message: msg})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnauthorized),
		errors.Is(err, entity.ErrAccountInactive),
		errors.Is(err, entity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrTicketNotFound),
		errors.Is(err, entity.ErrRequestNotFound),
		errors.Is(err, entity.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequestBody),
		errors.Is(err, entity.ErrMissingRequiredField),
		errors.Is(err, entity.ErrInvalidEmail),
		errors.Is(err, entity.ErrInvalidPhone),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrInvalidPortal),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidType),
		errors.Is(err, entity.ErrInvalidPriority),
		errors.Is(err, entity.ErrRolePortalMismatch),
		errors.Is(err, entity.ErrPasswordTooShort),
		errors.Is(err, entity.ErrPasswordIncorrect),
		errors.Is(err, entity.ErrDuplicateEmail),
		errors.Is(err, entity.ErrDuplicateIDCard),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrSelfDelete),
		errors.Is(err, entity.ErrNotUserRequest),
		errors.Is(err, entity.ErrNoUserRequestData),
		errors.Is(err, entity.ErrSpacesOutOfRange),
		errors.Is(err, entity.ErrReviewImmutable):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

var errBadRequestBody = errors.New("invalid request body")

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return errBadRequestBody
	}

	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.FromString(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, entity.ErrNotFound
	}

	return id, nil
}

func pagingParams(r *http.Request) (uint64, uint64) {
	q := r.URL.Query()

	page, _ := strconv.ParseUint(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseUint(q.Get("limit"), 10, 64)

	return page, limit
}

// listData is the paginated collection payload.
type listData struct {
	Items any    `json:"items"`
	Total int    `json:"total"`
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
}
