package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
	"github.com/sicada/admin-service/internal/service"
	"github.com/sicada/admin-service/pkg/config"
)

// fakeRepo is an in-memory Repository. Methods not implemented here panic
// through the embedded nil interface, which keeps each test honest about
// what it touches.
type fakeRepo struct {
	service.Repository

	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	tickets    map[uuid.UUID]*entity.Ticket
	requests   map[uuid.UUID]*entity.ParkingRequest
	locations  map[uuid.UUID]*entity.ParkingLocation
	activities []entity.Activity
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[uuid.UUID]*entity.User),
		tickets:   make(map[uuid.UUID]*entity.Ticket),
		requests:  make(map[uuid.UUID]*entity.ParkingRequest),
		locations: make(map[uuid.UUID]*entity.ParkingLocation),
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.User, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return entity.ErrDuplicateEmail
		}

		if u.IDCard == user.IDCard {
			return entity.ErrDuplicateIDCard
		}
	}

	cp := *user
	f.users[user.ID] = &cp
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) UserByID(_ context.Context, userID uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil, entity.ErrUserNotFound
	}

	cp := *user

	return &cp, nil
}

func (f *fakeRepo) UserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}

	return nil, entity.ErrUserNotFound
}

func (f *fakeRepo) ExistsUserByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeRepo) ExistsUserByIDCard(_ context.Context, idCard string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.IDCard == idCard {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeRepo) Users(_ context.Context, filter repository.UserFilter) ([]entity.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.User

	for _, user := range f.users {
		if filter.Portal != "" && user.Portal != filter.Portal {
			continue
		}

		if filter.Role != "" && user.Role != filter.Role {
			continue
		}

		if filter.Status != "" && user.Status != filter.Status {
			continue
		}

		out = append(out, *user)
	}

	return out, len(out), nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, user *entity.User, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return entity.ErrUserNotFound
	}

	cp := *user
	f.users[user.ID] = &cp
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) UpdateUserStatus(
	_ context.Context, userID uuid.UUID, status entity.UserStatus, activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}

	user.Status = status
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) UpdateUserPassword(
	_ context.Context, userID uuid.UUID, passwordHash string, activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}

	user.PasswordHash = passwordHash
	user.PasswordResetRequired = false
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}

	user.LastLogin = &at

	return nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, userID uuid.UUID, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[userID]; !ok {
		return entity.ErrUserNotFound
	}

	delete(f.users, userID)
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) CreateTicket(_ context.Context, ticket *entity.Ticket, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *ticket
	f.tickets[ticket.ID] = &cp
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) TicketByID(_ context.Context, ticketID uuid.UUID) (*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok {
		return nil, entity.ErrTicketNotFound
	}

	cp := *ticket

	return &cp, nil
}

func (f *fakeRepo) Tickets(_ context.Context, filter repository.TicketFilter) ([]entity.Ticket, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.Ticket

	for _, ticket := range f.tickets {
		if filter.Portal != "" && ticket.Portal != filter.Portal {
			continue
		}

		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}

		if filter.UserID != "" && ticket.UserID != filter.UserID {
			continue
		}

		out = append(out, *ticket)
	}

	return out, len(out), nil
}

func (f *fakeRepo) UpdateTicketStatus(
	_ context.Context,
	ticketID uuid.UUID,
	from, to entity.TicketStatus,
	resolution *string,
	activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != from {
		return entity.ErrInvalidTransition
	}

	ticket.Status = to
	if resolution != nil {
		ticket.Resolution = resolution
	}

	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) ApproveUserRequest(
	_ context.Context, ticketID uuid.UUID, user *entity.User, activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != entity.TicketStatusPending {
		return entity.ErrInvalidTransition
	}

	for _, u := range f.users {
		if u.Email == user.Email {
			return entity.ErrDuplicateEmail
		}
	}

	cp := *user
	f.users[user.ID] = &cp
	ticket.Status = entity.TicketStatusApproved
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) ParkingRequestByID(_ context.Context, requestID uuid.UUID) (*entity.ParkingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[requestID]
	if !ok {
		return nil, entity.ErrRequestNotFound
	}

	cp := *req

	return &cp, nil
}

func (f *fakeRepo) UpdateParkingRequestStatus(
	_ context.Context,
	requestID uuid.UUID,
	from, to entity.RequestStatus,
	reviewedBy string,
	reviewNotes *string,
	activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[requestID]
	if !ok || req.Status != from {
		return entity.ErrInvalidTransition
	}

	req.Status = to
	req.ReviewedBy = &reviewedBy

	if reviewNotes != nil {
		req.ReviewNotes = reviewNotes
	}

	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) ParkingLocationByID(_ context.Context, locationID uuid.UUID) (*entity.ParkingLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	loc, ok := f.locations[locationID]
	if !ok {
		return nil, entity.ErrLocationNotFound
	}

	cp := *loc

	return &cp, nil
}

func (f *fakeRepo) UpdateAvailableSpaces(
	_ context.Context, locationID uuid.UUID, available int, activity entity.Activity,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	loc, ok := f.locations[locationID]
	if !ok {
		return entity.ErrLocationNotFound
	}

	if !entity.ValidSpaces(available, loc.TotalSpaces) {
		return entity.ErrSpacesOutOfRange
	}

	loc.AvailableSpaces = available
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) DeleteParkingLocation(_ context.Context, locationID uuid.UUID, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.locations[locationID]; !ok {
		return entity.ErrLocationNotFound
	}

	delete(f.locations, locationID)
	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) TicketStats(_ context.Context, portal entity.Portal) (entity.TicketStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := entity.TicketStats{ByStatus: map[string]int{}, ByPriority: map[string]int{}}

	for _, ticket := range f.tickets {
		if portal != "" && ticket.Portal != portal {
			continue
		}

		stats.Total++
		stats.ByStatus[string(ticket.Status)]++
		stats.ByPriority[string(ticket.Priority)]++
	}

	return stats, nil
}

func (f *fakeRepo) RecentActivities(_ context.Context, limit int) ([]entity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.activities) < limit {
		limit = len(f.activities)
	}

	return append([]entity.Activity(nil), f.activities[len(f.activities)-limit:]...), nil
}

func (f *fakeRepo) LogActivity(_ context.Context, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.activities = append(f.activities, activity)

	return nil
}

func (f *fakeRepo) activityTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]string, 0, len(f.activities))
	for _, a := range f.activities {
		types = append(types, a.Type)
	}

	return types
}

func testConfig() config.Config {
	return config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			TokenExpiry: time.Hour,
		},
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func seedUser(t *testing.T, repo *fakeRepo, role entity.Role, portal entity.Portal, password string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		FullName:     "Test " + string(role),
		Email:        string(role) + "-" + uuid.Must(uuid.NewV4()).String() + "@sicada.dz",
		Phone:        "+213555000000",
		IDCard:       uuid.Must(uuid.NewV4()).String(),
		PasswordHash: hashPassword(t, password),
		Role:         role,
		Portal:       portal,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	require.NoError(t, repo.CreateUser(context.Background(), user, entity.Activity{}))

	return user
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")

	t.Run("success", func(t *testing.T) {
		token, user, err := s.Login(ctx, service.LoginInput{
			Email:    admin.Email,
			Password: "secret123",
			Role:     entity.RoleAdmin,
		})
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, admin.ID, user.ID)
		require.NotNil(t, user.LastLogin)
		require.Contains(t, repo.activityTypes(), entity.ActivityUserLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, service.LoginInput{
			Email:    admin.Email,
			Password: "wrong",
			Role:     entity.RoleAdmin,
		})
		require.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("role mismatch", func(t *testing.T) {
		_, _, err := s.Login(ctx, service.LoginInput{
			Email:    admin.Email,
			Password: "secret123",
			Role:     entity.RoleEmployee,
		})
		require.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := s.Login(ctx, service.LoginInput{
			Email:    "nobody@sicada.dz",
			Password: "secret123",
			Role:     entity.RoleAdmin,
		})
		require.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")
		require.NoError(t, repo.UpdateUserStatus(ctx, inactive.ID, entity.UserStatusInactive, entity.Activity{}))

		_, _, err := s.Login(ctx, service.LoginInput{
			Email:    inactive.Email,
			Password: "secret123",
			Role:     entity.RoleEmployee,
		})
		require.ErrorIs(t, err, entity.ErrAccountInactive)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")

	token, _, err := s.Login(ctx, service.LoginInput{
		Email:    admin.Email,
		Password: "secret123",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	user, err := s.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, admin.ID, user.ID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := s.ValidateToken(ctx, "not-a-token")
		require.ErrorIs(t, err, entity.ErrUnauthorized)
	})

	t.Run("deactivated mid-session", func(t *testing.T) {
		require.NoError(t, repo.UpdateUserStatus(ctx, admin.ID, entity.UserStatusInactive, entity.Activity{}))

		_, err := s.ValidateToken(ctx, token)
		require.ErrorIs(t, err, entity.ErrAccountInactive)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")
	employee := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")

	input := service.RegisterInput{
		FullName: "New Officer",
		Email:    "officer@sicada.dz",
		Phone:    "+213555111222",
		IDCard:   "109283746",
		Password: "secret123",
		Role:     entity.RolePoliceOfficer,
		Portal:   entity.PortalPolice,
	}

	t.Run("non-admin rejected", func(t *testing.T) {
		_, err := s.Register(ctx, employee, input)
		require.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("role portal mismatch", func(t *testing.T) {
		bad := input
		bad.Portal = entity.PortalBusiness

		_, err := s.Register(ctx, admin, bad)
		require.ErrorIs(t, err, entity.ErrRolePortalMismatch)
	})

	t.Run("short password", func(t *testing.T) {
		bad := input
		bad.Password = "abc"

		_, err := s.Register(ctx, admin, bad)
		require.ErrorIs(t, err, entity.ErrPasswordTooShort)
	})

	t.Run("success then duplicate", func(t *testing.T) {
		user, err := s.Register(ctx, admin, input)
		require.NoError(t, err)
		require.Equal(t, entity.UserStatusActive, user.Status)
		require.Contains(t, repo.activityTypes(), entity.ActivityUserRegistered)

		_, err = s.Register(ctx, admin, input)
		require.ErrorIs(t, err, entity.ErrDuplicateEmail)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	user := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")

	t.Run("wrong current password", func(t *testing.T) {
		err := s.ChangePassword(ctx, user, "nope", "newsecret")
		require.ErrorIs(t, err, entity.ErrPasswordIncorrect)
	})

	t.Run("too short", func(t *testing.T) {
		err := s.ChangePassword(ctx, user, "secret123", "abc")
		require.ErrorIs(t, err, entity.ErrPasswordTooShort)
	})

	t.Run("success clears reset flag", func(t *testing.T) {
		repo.mu.Lock()
		repo.users[user.ID].PasswordResetRequired = true
		repo.mu.Unlock()

		err := s.ChangePassword(ctx, user, "secret123", "newsecret")
		require.NoError(t, err)

		stored, err := repo.UserByID(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, stored.PasswordResetRequired)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
	})
}

func TestDeleteUserSelf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")

	err := s.DeleteUser(ctx, admin, admin.ID)
	require.ErrorIs(t, err, entity.ErrSelfDelete)

	_, err = repo.UserByID(ctx, admin.ID)
	require.NoError(t, err)
}

func TestUsersPortalScoping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")
	officer := seedUser(t, repo, entity.RolePoliceOfficer, entity.PortalPolice, "secret123")
	seedUser(t, repo, entity.RoleEmployee, entity.PortalWilaya, "secret123")

	all, _, err := s.Users(ctx, admin, service.UserListInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	// the officer's wilaya filter is overridden by their own portal
	scoped, _, err := s.Users(ctx, officer, service.UserListInput{Portal: entity.PortalWilaya})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, officer.ID, scoped[0].ID)
}

func TestTicketStatusTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	officer := seedUser(t, repo, entity.RolePoliceOfficer, entity.PortalPolice, "secret123")

	ticket, err := s.CreateTicket(ctx, officer, service.CreateTicketInput{
		Title: "Broken barrier",
		Type:  entity.TicketTypeEquipment,
	})
	require.NoError(t, err)
	require.Equal(t, entity.TicketStatusPending, ticket.Status)
	require.Equal(t, entity.PortalPolice, ticket.Portal)

	t.Run("pending to resolved rejected", func(t *testing.T) {
		_, err := s.UpdateTicketStatus(ctx, officer, ticket.ID, entity.TicketStatusResolved, nil)
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})

	t.Run("portal mismatch forbidden", func(t *testing.T) {
		employee := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")

		_, err := s.UpdateTicketStatus(ctx, employee, ticket.ID, entity.TicketStatusInProgress, nil)
		require.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("pending to in_progress to resolved", func(t *testing.T) {
		_, err := s.UpdateTicketStatus(ctx, officer, ticket.ID, entity.TicketStatusInProgress, nil)
		require.NoError(t, err)

		resolution := "replaced the barrier"

		updated, err := s.UpdateTicketStatus(ctx, officer, ticket.ID, entity.TicketStatusResolved, &resolution)
		require.NoError(t, err)
		require.Equal(t, entity.TicketStatusResolved, updated.Status)
		require.Equal(t, &resolution, updated.Resolution)
	})

	t.Run("terminal is closed", func(t *testing.T) {
		_, err := s.UpdateTicketStatus(ctx, officer, ticket.ID, entity.TicketStatusInProgress, nil)
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})
}

func TestTicketsEmployeeOwnScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	first := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")
	second := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")

	_, err := s.CreateTicket(ctx, first, service.CreateTicketInput{Title: "Mine", Type: entity.TicketTypeAccess})
	require.NoError(t, err)

	_, err = s.CreateTicket(ctx, second, service.CreateTicketInput{Title: "Theirs", Type: entity.TicketTypeAccess})
	require.NoError(t, err)

	mine, _, err := s.Tickets(ctx, first, service.TicketListInput{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Mine", mine[0].Title)

	// the portal listing applies the same own-ticket scope
	byPortal, _, err := s.TicketsByPortal(ctx, first, entity.PortalBusiness, 1, 10)
	require.NoError(t, err)
	require.Len(t, byPortal, 1)
	require.Equal(t, "Mine", byPortal[0].Title)
}

func TestApproveUserRequest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")

	submit := func(t *testing.T, email, idCard string) *entity.Ticket {
		t.Helper()

		ticket, err := s.SubmitUserRequest(ctx, service.UserRequestInput{
			FullName: "Applicant",
			Email:    email,
			Phone:    "+213555333444",
			IDCard:   idCard,
		})
		require.NoError(t, err)

		return ticket
	}

	t.Run("success", func(t *testing.T) {
		ticket := submit(t, "applicant@sicada.dz", "555001")

		approved, err := s.ApproveUserRequest(ctx, admin, ticket.ID)
		require.NoError(t, err)
		require.Len(t, approved.OneTimePassword, 12)
		require.True(t, approved.User.PasswordResetRequired)
		require.Equal(t, entity.RoleAdmin, approved.User.Role)
		require.Equal(t, entity.PortalBusiness, approved.User.Portal)

		stored, err := repo.TicketByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.Equal(t, entity.TicketStatusApproved, stored.Status)

		// the credential is usable exactly as returned
		_, _, err = s.Login(ctx, service.LoginInput{
			Email:    "applicant@sicada.dz",
			Password: approved.OneTimePassword,
			Role:     entity.RoleAdmin,
		})
		require.NoError(t, err)
	})

	t.Run("already approved", func(t *testing.T) {
		ticket := submit(t, "second@sicada.dz", "555002")

		_, err := s.ApproveUserRequest(ctx, admin, ticket.ID)
		require.NoError(t, err)

		_, err = s.ApproveUserRequest(ctx, admin, ticket.ID)
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})

	t.Run("not a user request", func(t *testing.T) {
		ticket, err := s.CreateTicket(ctx, admin, service.CreateTicketInput{
			Title: "Plain ticket",
			Type:  entity.TicketTypeOther,
		})
		require.NoError(t, err)

		_, err = s.ApproveUserRequest(ctx, admin, ticket.ID)
		require.ErrorIs(t, err, entity.ErrNotUserRequest)
	})

	t.Run("duplicate account rolls back ticket", func(t *testing.T) {
		ticket := submit(t, "rollback@sicada.dz", "555003")

		clash := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")
		repo.mu.Lock()
		repo.users[clash.ID].Email = "rollback@sicada.dz"
		repo.mu.Unlock()

		_, err := s.ApproveUserRequest(ctx, admin, ticket.ID)
		require.ErrorIs(t, err, entity.ErrDuplicateEmail)

		stored, err := repo.TicketByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.Equal(t, entity.TicketStatusPending, stored.Status)
	})
}

func TestDashboardStatsTicketRollup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	employee := seedUser(t, repo, entity.RoleEmployee, entity.PortalBusiness, "secret123")

	for _, status := range []entity.TicketStatus{
		entity.TicketStatusPending,
		entity.TicketStatusInProgress,
		entity.TicketStatusApproved,
		entity.TicketStatusRejected,
		entity.TicketStatusResolved,
	} {
		ticket, err := s.CreateTicket(ctx, employee, service.CreateTicketInput{
			Title: "Ticket " + string(status),
			Type:  entity.TicketTypeOther,
		})
		require.NoError(t, err)

		repo.mu.Lock()
		repo.tickets[ticket.ID].Status = status
		repo.mu.Unlock()
	}

	stats, err := s.DashboardStats(ctx, employee)
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalTickets)
	require.Equal(t, 1, stats.PendingTickets)

	// approved and rejected tickets left the pipeline too
	require.Equal(t, 3, stats.ResolvedTickets)

	// business staff get no parking block
	require.Nil(t, stats.ParkingRequests)
	require.Nil(t, stats.TotalParkingLocations)
}

func TestParkingRequestReview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")
	employee := seedUser(t, repo, entity.RoleEmployee, entity.PortalWilaya, "secret123")

	req := &entity.ParkingRequest{
		ID:              uuid.Must(uuid.NewV4()),
		Title:           "New lot",
		Status:          entity.RequestStatusPending,
		Priority:        entity.PriorityMedium,
		RequestedSpaces: 40,
	}
	repo.requests[req.ID] = req

	t.Run("non-admin cannot review", func(t *testing.T) {
		_, err := s.UpdateParkingRequestStatus(ctx, employee, req.ID, entity.RequestStatusInReview, nil)
		require.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("review records reviewer", func(t *testing.T) {
		notes := "site visit scheduled"

		updated, err := s.UpdateParkingRequestStatus(ctx, admin, req.ID, entity.RequestStatusInReview, &notes)
		require.NoError(t, err)
		require.Equal(t, entity.RequestStatusInReview, updated.Status)
		require.Equal(t, &admin.FullName, updated.ReviewedBy)
		require.Equal(t, &notes, updated.ReviewNotes)
	})

	t.Run("terminal closes the machine", func(t *testing.T) {
		_, err := s.UpdateParkingRequestStatus(ctx, admin, req.ID, entity.RequestStatusApproved, nil)
		require.NoError(t, err)

		_, err = s.UpdateParkingRequestStatus(ctx, admin, req.ID, entity.RequestStatusRejected, nil)
		require.ErrorIs(t, err, entity.ErrInvalidTransition)
	})

	t.Run("terminal request immutable", func(t *testing.T) {
		title := "renamed"

		_, err := s.UpdateParkingRequest(ctx, employee, req.ID, service.UpdateParkingRequestInput{Title: &title})
		require.ErrorIs(t, err, entity.ErrReviewImmutable)
	})
}

func TestUpdateAvailableSpaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	wilaya := seedUser(t, repo, entity.RoleEmployee, entity.PortalWilaya, "secret123")
	officer := seedUser(t, repo, entity.RolePoliceOfficer, entity.PortalPolice, "secret123")

	loc := &entity.ParkingLocation{
		ID:              uuid.Must(uuid.NewV4()),
		Name:            "Central lot",
		TotalSpaces:     50,
		AvailableSpaces: 50,
		Status:          entity.LocationStatusActive,
	}
	repo.locations[loc.ID] = loc

	t.Run("wrong portal forbidden", func(t *testing.T) {
		_, err := s.UpdateAvailableSpaces(ctx, officer, loc.ID, 10)
		require.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("over capacity rejected", func(t *testing.T) {
		_, err := s.UpdateAvailableSpaces(ctx, wilaya, loc.ID, 51)
		require.ErrorIs(t, err, entity.ErrSpacesOutOfRange)

		stored, err := repo.ParkingLocationByID(ctx, loc.ID)
		require.NoError(t, err)
		require.Equal(t, 50, stored.AvailableSpaces)
	})

	t.Run("within capacity", func(t *testing.T) {
		updated, err := s.UpdateAvailableSpaces(ctx, wilaya, loc.ID, 12)
		require.NoError(t, err)
		require.Equal(t, 12, updated.AvailableSpaces)
	})
}

func TestDeleteParkingLocation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeRepo()
	s := service.NewService(testConfig(), repo, nil)

	admin := seedUser(t, repo, entity.RoleAdmin, entity.PortalBusiness, "secret123")
	wilaya := seedUser(t, repo, entity.RoleEmployee, entity.PortalWilaya, "secret123")

	loc := &entity.ParkingLocation{
		ID:          uuid.Must(uuid.NewV4()),
		Name:        "Old depot",
		TotalSpaces: 30,
		Status:      entity.LocationStatusInactive,
	}
	repo.locations[loc.ID] = loc

	t.Run("wilaya staff cannot delete", func(t *testing.T) {
		err := s.DeleteParkingLocation(ctx, wilaya, loc.ID)
		require.ErrorIs(t, err, entity.ErrForbidden)

		_, err = repo.ParkingLocationByID(ctx, loc.ID)
		require.NoError(t, err)
	})

	t.Run("admin deletes", func(t *testing.T) {
		err := s.DeleteParkingLocation(ctx, admin, loc.ID)
		require.NoError(t, err)

		_, err = repo.ParkingLocationByID(ctx, loc.ID)
		require.ErrorIs(t, err, entity.ErrLocationNotFound)
	})
}
