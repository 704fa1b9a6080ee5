package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/pkg/logger"
)

const oneTimePasswordLen = 12

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type LoginInput struct {
	Email    string
	Password string
	Role     entity.Role
}

// Login authenticates a portal sign-in. The requested role must match the
// stored one so a citizen cannot log into a staff portal with valid
// credentials. All credential failures collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, *entity.User, error) {
	log := logger.FromContext(ctx)

	if in.Email == "" || in.Password == "" || in.Role == "" {
		return "", nil, entity.ErrMissingRequiredField
	}

	if !in.Role.IsValid() {
		return "", nil, entity.ErrInvalidRole
	}

	user, err := s.repo.UserByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return "", nil, entity.ErrInvalidCredentials
		}

		return "", nil, err
	}

	if user.Role != in.Role {
		return "", nil, entity.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return "", nil, entity.ErrAccountInactive
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password))
	if err != nil {
		return "", nil, entity.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()

	err = s.repo.UpdateLastLogin(ctx, user.ID, now)
	if err != nil {
		return "", nil, err
	}

	user.LastLogin = &now

	activity := entity.NewActivity(
		entity.ActivityUserLogin,
		fmt.Sprintf("%s logged in", user.FullName),
		user.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.LogActivity(ctx, activity)
	if err != nil {
		log.Error("log login activity", "error", err)
	}

	s.emit(ctx, activity)

	return token, user, nil
}

type RegisterInput struct {
	FullName    string
	Email       string
	Phone       string
	IDCard      string
	Password    string
	Role        entity.Role
	Portal      entity.Portal
	Department  *string
	Position    *string
	Address     *string
	BadgeNumber *string
	Rank        *string
	Station     *string
}

func (s *Service) Register(ctx context.Context, actor *entity.User, in RegisterInput) (*entity.User, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, entity.ErrForbidden
	}

	err := requireFields(map[string]string{
		"fullName": in.FullName,
		"email":    in.Email,
		"phone":    in.Phone,
		"idCard":   in.IDCard,
		"password": in.Password,
	})
	if err != nil {
		return nil, err
	}

	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	if err := ValidatePhone(in.Phone); err != nil {
		return nil, err
	}

	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if !in.Role.IsValid() {
		return nil, entity.ErrInvalidRole
	}

	if !in.Portal.IsValid() {
		return nil, entity.ErrInvalidPortal
	}

	if !entity.RoleAllowedOnPortal(in.Role, in.Portal) {
		return nil, entity.ErrRolePortalMismatch
	}

	if err := s.checkUnique(ctx, in.Email, in.IDCard); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           newID(),
		FullName:     in.FullName,
		Email:        NormalizeEmail(in.Email),
		Phone:        in.Phone,
		IDCard:       in.IDCard,
		PasswordHash: string(hash),
		Department:   in.Department,
		Position:     in.Position,
		Address:      in.Address,
		BadgeNumber:  in.BadgeNumber,
		Rank:         in.Rank,
		Station:      in.Station,
		Role:         in.Role,
		Portal:       in.Portal,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	activity := entity.NewActivity(
		entity.ActivityUserRegistered,
		fmt.Sprintf("%s registered account for %s", actor.FullName, user.FullName),
		actor.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.CreateUser(ctx, user, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return user, nil
}

type UpdateProfileInput struct {
	FullName    *string
	Email       *string
	Phone       *string
	IDCard      *string
	Department  *string
	Position    *string
	Address     *string
	BadgeNumber *string
	Rank        *string
	Station     *string
	Avatar      *string
}

func (s *Service) UpdateProfile(ctx context.Context, actor *entity.User, in UpdateProfileInput) (*entity.User, error) {
	user, err := s.repo.UserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueForUpdate(ctx, user, in.Email, in.IDCard); err != nil {
		return nil, err
	}

	err = applyUserUpdate(user, in)
	if err != nil {
		return nil, err
	}

	activity := entity.NewActivity(
		entity.ActivityProfileUpdated,
		fmt.Sprintf("%s updated their profile", user.FullName),
		user.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.UpdateUser(ctx, user, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor *entity.User, current, next string) error {
	if current == "" || next == "" {
		return entity.ErrMissingRequiredField
	}

	if err := ValidatePassword(next); err != nil {
		return err
	}

	user, err := s.repo.UserByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current))
	if err != nil {
		return entity.ErrPasswordIncorrect
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	activity := entity.NewActivity(
		entity.ActivityPasswordChanged,
		fmt.Sprintf("%s changed their password", user.FullName),
		user.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.UpdateUserPassword(ctx, user.ID, string(hash), activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

func (s *Service) Logout(ctx context.Context, actor *entity.User) error {
	activity := entity.NewActivity(
		entity.ActivityUserLogout,
		fmt.Sprintf("%s logged out", actor.FullName),
		actor.FullName,
		actor.Portal,
	).WithUser(actor.ID.String())

	err := s.repo.LogActivity(ctx, activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

// EnsureDefaultAdmin seeds the bootstrap admin on a fresh database so the
// deployment is reachable before any account exists.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	if s.cfg.Bootstrap.AdminEmail == "" {
		return nil
	}

	exists, err := s.repo.ExistsUserByEmail(ctx, s.cfg.Bootstrap.AdminEmail)
	if err != nil {
		return fmt.Errorf("check bootstrap admin: %w", err)
	}

	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Bootstrap.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	admin := &entity.User{
		ID:           newID(),
		FullName:     s.cfg.Bootstrap.AdminName,
		Email:        NormalizeEmail(s.cfg.Bootstrap.AdminEmail),
		Phone:        "",
		IDCard:       "bootstrap-admin",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		Portal:       entity.PortalBusiness,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	activity := entity.NewActivity(
		entity.ActivityUserRegistered,
		fmt.Sprintf("bootstrap admin %s created", admin.Email),
		admin.FullName,
		admin.Portal,
	).WithUser(admin.ID.String())

	return s.repo.CreateUser(ctx, admin, activity)
}

func generateOneTimePassword() (string, error) {
	b := make([]byte, oneTimePasswordLen)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}

		b[i] = passwordAlphabet[n.Int64()]
	}

	return string(b), nil
}
