package service

import (
	"context"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type ActivityListInput struct {
	Type     string
	TicketID string
	UserID   string
	Page     uint64
	Limit    uint64
}

func (s *Service) Activities(
	ctx context.Context, actor *entity.User, in ActivityListInput,
) ([]entity.Activity, int, error) {
	filter := repository.ActivityFilter{
		Type:     in.Type,
		TicketID: in.TicketID,
		UserID:   in.UserID,
	}

	if actor.Role != entity.RoleAdmin {
		filter.Portal = actor.Portal
	}

	filter.Page, filter.Limit = normalizePaging(in.Page, in.Limit)

	return s.repo.Activities(ctx, filter)
}

// DashboardStats aggregates the numbers for the portal's landing page. Any
// underlying query failure fails the whole call; no partial dashboards.
func (s *Service) DashboardStats(ctx context.Context, actor *entity.User) (*entity.DashboardStats, error) {
	var stats entity.DashboardStats

	ticketPortal := actor.Portal
	if actor.Role == entity.RoleAdmin {
		ticketPortal = ""
	}

	ticketStats, err := s.repo.TicketStats(ctx, ticketPortal)
	if err != nil {
		return nil, err
	}

	stats.TotalTickets = ticketStats.Total
	stats.PendingTickets = ticketStats.ByStatus[string(entity.TicketStatusPending)]
	// every ticket that left the active pipeline counts as handled
	stats.ResolvedTickets = ticketStats.ByStatus[string(entity.TicketStatusApproved)] +
		ticketStats.ByStatus[string(entity.TicketStatusRejected)] +
		ticketStats.ByStatus[string(entity.TicketStatusResolved)]

	if actor.Role == entity.RoleAdmin {
		userStats, err := s.repo.UserStats(ctx)
		if err != nil {
			return nil, err
		}

		stats.TotalUsers = userStats.TotalUsers
		stats.ActiveUsers = userStats.ActiveUsers
	}

	if actor.Role == entity.RoleAdmin || entity.CanAct(actor, entity.PortalWilaya) {
		requestStats, err := s.repo.ParkingRequestStats(ctx)
		if err != nil {
			return nil, err
		}

		locationStats, err := s.repo.ParkingLocationStats(ctx)
		if err != nil {
			return nil, err
		}

		pending := requestStats.ByStatus[string(entity.RequestStatusPending)]
		approved := requestStats.ByStatus[string(entity.RequestStatusApproved)]
		active := locationStats.ByStatus[string(entity.LocationStatusActive)]

		stats.ParkingRequests = &requestStats.Total
		stats.PendingParkingRequests = &pending
		stats.ApprovedParkingRequests = &approved
		stats.TotalParkingLocations = &locationStats.Total
		stats.ActiveParkingLocations = &active
		stats.TotalSpaces = &locationStats.TotalSpaces
		stats.AvailableSpaces = &locationStats.AvailableSpaces
	}

	recent, err := s.repo.RecentActivities(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	stats.RecentActivity = recent

	return &stats, nil
}

// WilayaDashboard bundles the latest requests and locations with their
// rollups for the wilaya landing page.
type WilayaDashboard struct {
	RecentRequests  []entity.ParkingRequest  `json:"recentRequests"`
	RecentLocations []entity.ParkingLocation `json:"recentLocations"`
	RequestStats    entity.RequestStats      `json:"requestStats"`
	LocationStats   entity.LocationStats     `json:"locationStats"`
}

func (s *Service) WilayaDashboardStats(ctx context.Context, actor *entity.User) (*WilayaDashboard, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	requests, _, err := s.repo.ParkingRequests(ctx, repository.ParkingRequestFilter{
		Page:  defaultPage,
		Limit: recentRecordLimit,
	})
	if err != nil {
		return nil, err
	}

	locations, _, err := s.repo.ParkingLocations(ctx, repository.ParkingLocationFilter{
		Page:  defaultPage,
		Limit: recentRecordLimit,
	})
	if err != nil {
		return nil, err
	}

	requestStats, err := s.repo.ParkingRequestStats(ctx)
	if err != nil {
		return nil, err
	}

	locationStats, err := s.repo.ParkingLocationStats(ctx)
	if err != nil {
		return nil, err
	}

	return &WilayaDashboard{
		RecentRequests:  requests,
		RecentLocations: locations,
		RequestStats:    requestStats,
		LocationStats:   locationStats,
	}, nil
}
