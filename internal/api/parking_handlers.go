package api

import (
	"net/http"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/service"
)

type createParkingRequestRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Location        entity.Location  `json:"location"`
	Requester       entity.Requester `json:"requester"`
	Priority        string           `json:"priority"`
	RequestedSpaces int              `json:"requestedSpaces"`
	EstimatedCost   *float64         `json:"estimatedCost"`
	Documents       []string         `json:"documents"`
}

func (h *Handler) CreateParkingRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req createParkingRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	created, err := h.s.CreateParkingRequest(ctx, actor, service.CreateParkingRequestInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Requester:       req.Requester,
		Priority:        entity.Priority(req.Priority),
		RequestedSpaces: req.RequestedSpaces,
		EstimatedCost:   req.EstimatedCost,
		Documents:       req.Documents,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, created)
}

func (h *Handler) ParkingRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	q := r.URL.Query()
	page, limit := pagingParams(r)

	requests, total, err := h.s.ParkingRequests(ctx, actor, service.ParkingRequestListInput{
		Status:   entity.RequestStatus(q.Get("status")),
		Priority: entity.Priority(q.Get("priority")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: requests, Total: total, Page: page, Limit: limit})
}

func (h *Handler) ParkingRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	requestID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	req, err := h.s.ParkingRequestByID(ctx, actor, requestID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, req)
}

type updateParkingRequestRequest struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Location        *entity.Location `json:"location"`
	Priority        *entity.Priority `json:"priority"`
	RequestedSpaces *int             `json:"requestedSpaces"`
	EstimatedCost   *float64         `json:"estimatedCost"`
	Documents       []string         `json:"documents"`
}

func (h *Handler) UpdateParkingRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	requestID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateParkingRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	updated, err := h.s.UpdateParkingRequest(ctx, actor, requestID, service.UpdateParkingRequestInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Priority:        req.Priority,
		RequestedSpaces: req.RequestedSpaces,
		EstimatedCost:   req.EstimatedCost,
		Documents:       req.Documents,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, updated)
}

type updateRequestStatusRequest struct {
	Status      string  `json:"status"`
	ReviewNotes *string `json:"reviewNotes"`
}

func (h *Handler) UpdateParkingRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	requestID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateRequestStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	updated, err := h.s.UpdateParkingRequestStatus(
		ctx, actor, requestID, entity.RequestStatus(req.Status), req.ReviewNotes)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeleteParkingRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	requestID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.DeleteParkingRequest(ctx, actor, requestID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "parking request deleted"})
}

func (h *Handler) ParkingRequestStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.ParkingRequestStatsOverview(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Stats: stats})
}

type parkingLocationRequest struct {
	Name            string              `json:"name"`
	Address         string              `json:"address"`
	Lat             *float64            `json:"lat"`
	Lng             *float64            `json:"lng"`
	TotalSpaces     int                 `json:"totalSpaces"`
	AvailableSpaces int                 `json:"availableSpaces"`
	HourlyRate      *float64            `json:"hourlyRate"`
	DailyRate       *float64            `json:"dailyRate"`
	MonthlyRate     *float64            `json:"monthlyRate"`
	Features        []string            `json:"features"`
	OpeningHours    entity.OpeningHours `json:"openingHours"`
	Contact         entity.Contact      `json:"contact"`
	Manager         entity.Manager      `json:"manager"`
}

func (h *Handler) CreateParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req parkingLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	loc, err := h.s.CreateParkingLocation(ctx, actor, service.ParkingLocationInput{
		Name:            req.Name,
		Address:         req.Address,
		Lat:             req.Lat,
		Lng:             req.Lng,
		TotalSpaces:     req.TotalSpaces,
		AvailableSpaces: req.AvailableSpaces,
		HourlyRate:      req.HourlyRate,
		DailyRate:       req.DailyRate,
		MonthlyRate:     req.MonthlyRate,
		Features:        req.Features,
		OpeningHours:    req.OpeningHours,
		Contact:         req.Contact,
		Manager:         req.Manager,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusCreated, loc)
}

func (h *Handler) ParkingLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	page, limit := pagingParams(r)

	locations, total, err := h.s.ParkingLocations(ctx, actor, service.ParkingLocationListInput{
		Status: entity.LocationStatus(r.URL.Query().Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, listData{Items: locations, Total: total, Page: page, Limit: limit})
}

func (h *Handler) ParkingLocationByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	locationID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	loc, err := h.s.ParkingLocationByID(ctx, actor, locationID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, loc)
}

type updateParkingLocationRequest struct {
	Name            *string              `json:"name"`
	Address         *string              `json:"address"`
	Lat             *float64             `json:"lat"`
	Lng             *float64             `json:"lng"`
	TotalSpaces     *int                 `json:"totalSpaces"`
	AvailableSpaces *int                 `json:"availableSpaces"`
	HourlyRate      *float64             `json:"hourlyRate"`
	DailyRate       *float64             `json:"dailyRate"`
	MonthlyRate     *float64             `json:"monthlyRate"`
	Features        []string             `json:"features"`
	OpeningHours    *entity.OpeningHours `json:"openingHours"`
	Contact         *entity.Contact      `json:"contact"`
	Manager         *entity.Manager      `json:"manager"`
}

func (h *Handler) UpdateParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	locationID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateParkingLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	loc, err := h.s.UpdateParkingLocation(ctx, actor, locationID, service.UpdateParkingLocationInput{
		Name:            req.Name,
		Address:         req.Address,
		Lat:             req.Lat,
		Lng:             req.Lng,
		TotalSpaces:     req.TotalSpaces,
		AvailableSpaces: req.AvailableSpaces,
		HourlyRate:      req.HourlyRate,
		DailyRate:       req.DailyRate,
		MonthlyRate:     req.MonthlyRate,
		Features:        req.Features,
		OpeningHours:    req.OpeningHours,
		Contact:         req.Contact,
		Manager:         req.Manager,
	})
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, loc)
}

type updateLocationStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateParkingLocationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	locationID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateLocationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	loc, err := h.s.UpdateParkingLocationStatus(ctx, actor, locationID, entity.LocationStatus(req.Status))
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, loc)
}

type updateSpacesRequest struct {
	AvailableSpaces int `json:"availableSpaces"`
}

func (h *Handler) UpdateAvailableSpaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	locationID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	var req updateSpacesRequest
	if err := decodeJSON(r, &req); err != nil {
		SendErr(ctx, w, err)
		return
	}

	loc, err := h.s.UpdateAvailableSpaces(ctx, actor, locationID, req.AvailableSpaces)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendData(ctx, w, http.StatusOK, loc)
}

func (h *Handler) DeleteParkingLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	locationID, err := uuidParam(r, "id")
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	err = h.s.DeleteParkingLocation(ctx, actor, locationID)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Message: "parking location deleted"})
}

func (h *Handler) ParkingLocationStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := entity.UserFromContext(ctx)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	stats, err := h.s.ParkingLocationStatsOverview(ctx, actor)
	if err != nil {
		SendErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, Response{Success: true, Stats: stats})
}
