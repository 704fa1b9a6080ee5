package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
	"github.com/sicada/admin-service/pkg/config"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100

	recentActivityLimit = 10
	recentRecordLimit   = 5
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User, activity entity.Activity) error
	UserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UserByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsUserByEmail(ctx context.Context, email string) (bool, error)
	ExistsUserByIDCard(ctx context.Context, idCard string) (bool, error)
	Users(ctx context.Context, filter repository.UserFilter) ([]entity.User, int, error)
	UpdateUser(ctx context.Context, user *entity.User, activity entity.Activity) error
	UpdateUserStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus, activity entity.Activity) error
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string, activity entity.Activity) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	DeleteUser(ctx context.Context, userID uuid.UUID, activity entity.Activity) error
	UserStats(ctx context.Context) (entity.UserStats, error)
}

type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket *entity.Ticket, activity entity.Activity) error
	TicketByID(ctx context.Context, ticketID uuid.UUID) (*entity.Ticket, error)
	Tickets(ctx context.Context, filter repository.TicketFilter) ([]entity.Ticket, int, error)
	UpdateTicket(ctx context.Context, ticket *entity.Ticket, activity entity.Activity) error
	UpdateTicketStatus(
		ctx context.Context,
		ticketID uuid.UUID,
		from, to entity.TicketStatus,
		resolution *string,
		activity entity.Activity,
	) error
	AssignTicket(ctx context.Context, ticketID uuid.UUID, officer string, activity entity.Activity) error
	DeleteTicket(ctx context.Context, ticketID uuid.UUID, activity entity.Activity) error
	ApproveUserRequest(ctx context.Context, ticketID uuid.UUID, user *entity.User, activity entity.Activity) error
	TicketStats(ctx context.Context, portal entity.Portal) (entity.TicketStats, error)
}

type ParkingRequestRepository interface {
	CreateParkingRequest(ctx context.Context, req *entity.ParkingRequest, activity entity.Activity) error
	ParkingRequestByID(ctx context.Context, requestID uuid.UUID) (*entity.ParkingRequest, error)
	ParkingRequests(ctx context.Context, filter repository.ParkingRequestFilter) ([]entity.ParkingRequest, int, error)
	UpdateParkingRequest(ctx context.Context, req *entity.ParkingRequest, activity entity.Activity) error
	UpdateParkingRequestStatus(
		ctx context.Context,
		requestID uuid.UUID,
		from, to entity.RequestStatus,
		reviewedBy string,
		reviewNotes *string,
		activity entity.Activity,
	) error
	DeleteParkingRequest(ctx context.Context, requestID uuid.UUID, activity entity.Activity) error
	ParkingRequestStats(ctx context.Context) (entity.RequestStats, error)
}

type ParkingLocationRepository interface {
	CreateParkingLocation(ctx context.Context, loc *entity.ParkingLocation, activity entity.Activity) error
	ParkingLocationByID(ctx context.Context, locationID uuid.UUID) (*entity.ParkingLocation, error)
	ParkingLocations(ctx context.Context, filter repository.ParkingLocationFilter) ([]entity.ParkingLocation, int, error)
	UpdateParkingLocation(ctx context.Context, loc *entity.ParkingLocation, activity entity.Activity) error
	UpdateParkingLocationStatus(
		ctx context.Context, locationID uuid.UUID, status entity.LocationStatus, activity entity.Activity,
	) error
	UpdateAvailableSpaces(ctx context.Context, locationID uuid.UUID, available int, activity entity.Activity) error
	DeleteParkingLocation(ctx context.Context, locationID uuid.UUID, activity entity.Activity) error
	ParkingLocationStats(ctx context.Context) (entity.LocationStats, error)
}

type ActivityRepository interface {
	Activities(ctx context.Context, filter repository.ActivityFilter) ([]entity.Activity, int, error)
	RecentActivities(ctx context.Context, limit int) ([]entity.Activity, error)
	LogActivity(ctx context.Context, activity entity.Activity) error
}

// Repository is the full persistence surface the service needs; a single
// *repository.Repository satisfies it.
type Repository interface {
	UserRepository
	TicketRepository
	ParkingRequestRepository
	ParkingLocationRepository
	ActivityRepository
}

// ActivityProducer streams audit events to downstream consumers. The
// durable record is the Postgres row; this stream is best-effort.
type ActivityProducer interface {
	SendActivity(ctx context.Context, activity entity.Activity)
}

type Service struct {
	cfg      config.Config
	repo     Repository
	producer ActivityProducer
}

// NewService wires the service. producer may be nil when Kafka is not
// configured; activity rows are still written either way.
func NewService(cfg config.Config, repo Repository, producer ActivityProducer) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		producer: producer,
	}
}

func (s *Service) emit(ctx context.Context, activity entity.Activity) {
	if s.producer == nil {
		return
	}

	s.producer.SendActivity(ctx, activity)
}

func normalizePaging(page, limit uint64) (uint64, uint64) {
	if page == 0 {
		page = defaultPage
	}

	if limit == 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}
