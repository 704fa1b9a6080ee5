package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

type UserListInput struct {
	Role   entity.Role
	Portal entity.Portal
	Status entity.UserStatus
	Page   uint64
	Limit  uint64
}

// Users lists accounts. Non-admins are forced onto their own portal no
// matter what filter they ask for.
func (s *Service) Users(ctx context.Context, actor *entity.User, in UserListInput) ([]entity.User, int, error) {
	if actor.Role != entity.RoleAdmin {
		in.Portal = actor.Portal
	}

	if in.Role != "" && !in.Role.IsValid() {
		return nil, 0, entity.ErrInvalidRole
	}

	if in.Portal != "" && !in.Portal.IsValid() {
		return nil, 0, entity.ErrInvalidPortal
	}

	if in.Status != "" && !in.Status.IsValid() {
		return nil, 0, entity.ErrInvalidStatus
	}

	page, limit := normalizePaging(in.Page, in.Limit)

	return s.repo.Users(ctx, repository.UserFilter{
		Role:   in.Role,
		Portal: in.Portal,
		Status: in.Status,
		Page:   page,
		Limit:  limit,
	})
}

func (s *Service) UsersByPortal(
	ctx context.Context, actor *entity.User, portal entity.Portal, page, limit uint64,
) ([]entity.User, int, error) {
	if !portal.IsValid() {
		return nil, 0, entity.ErrInvalidPortal
	}

	if !entity.CanAct(actor, portal) {
		return nil, 0, entity.ErrForbidden
	}

	page, limit = normalizePaging(page, limit)

	return s.repo.Users(ctx, repository.UserFilter{Portal: portal, Page: page, Limit: limit})
}

func (s *Service) UserByID(ctx context.Context, actor *entity.User, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, user.Portal) {
		return nil, entity.ErrForbidden
	}

	return user, nil
}

func applyUserUpdate(user *entity.User, in UpdateProfileInput) error {
	if in.FullName != nil {
		if *in.FullName == "" {
			return entity.ErrMissingRequiredField
		}

		user.FullName = *in.FullName
	}

	if in.Email != nil {
		if err := ValidateEmail(*in.Email); err != nil {
			return err
		}

		user.Email = NormalizeEmail(*in.Email)
	}

	if in.Phone != nil {
		if err := ValidatePhone(*in.Phone); err != nil {
			return err
		}

		user.Phone = *in.Phone
	}

	if in.IDCard != nil {
		if *in.IDCard == "" {
			return entity.ErrMissingRequiredField
		}

		user.IDCard = *in.IDCard
	}

	if in.Department != nil {
		user.Department = in.Department
	}

	if in.Position != nil {
		user.Position = in.Position
	}

	if in.Address != nil {
		user.Address = in.Address
	}

	if in.BadgeNumber != nil {
		user.BadgeNumber = in.BadgeNumber
	}

	if in.Rank != nil {
		user.Rank = in.Rank
	}

	if in.Station != nil {
		user.Station = in.Station
	}

	if in.Avatar != nil {
		user.Avatar = in.Avatar
	}

	return nil
}

func (s *Service) checkUnique(ctx context.Context, email, idCard string) error {
	exists, err := s.repo.ExistsUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	if exists {
		return entity.ErrDuplicateEmail
	}

	exists, err = s.repo.ExistsUserByIDCard(ctx, idCard)
	if err != nil {
		return err
	}

	if exists {
		return entity.ErrDuplicateIDCard
	}

	return nil
}

// checkUniqueForUpdate pre-checks uniqueness only for the fields that
// actually changed. The unique indexes remain the authority under races.
func (s *Service) checkUniqueForUpdate(
	ctx context.Context, user *entity.User, email, idCard *string,
) error {
	if email != nil {
		other, err := s.repo.UserByEmail(ctx, NormalizeEmail(*email))

		switch {
		case err == nil && other.ID != user.ID:
			return entity.ErrDuplicateEmail
		case err != nil && !errors.Is(err, entity.ErrUserNotFound):
			return err
		}
	}

	if idCard != nil {
		exists, err := s.repo.ExistsUserByIDCard(ctx, *idCard)
		if err != nil {
			return err
		}

		if exists && user.IDCard != *idCard {
			return entity.ErrDuplicateIDCard
		}
	}

	return nil
}

func (s *Service) UpdateUser(
	ctx context.Context, actor *entity.User, userID uuid.UUID, in UpdateProfileInput,
) (*entity.User, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, user.Portal) {
		return nil, entity.ErrForbidden
	}

	if err := s.checkUniqueForUpdate(ctx, user, in.Email, in.IDCard); err != nil {
		return nil, err
	}

	err = applyUserUpdate(user, in)
	if err != nil {
		return nil, err
	}

	activity := entity.NewActivity(
		entity.ActivityUserUpdated,
		fmt.Sprintf("%s updated account of %s", actor.FullName, user.FullName),
		actor.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.UpdateUser(ctx, user, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return user, nil
}

func (s *Service) UpdateUserStatus(
	ctx context.Context, actor *entity.User, userID uuid.UUID, status entity.UserStatus,
) (*entity.User, error) {
	if !status.IsValid() {
		return nil, entity.ErrInvalidStatus
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, user.Portal) {
		return nil, entity.ErrForbidden
	}

	activity := entity.NewActivity(
		entity.ActivityUserStatusUpdated,
		fmt.Sprintf("%s set status of %s to %s", actor.FullName, user.FullName, status),
		actor.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.UpdateUserStatus(ctx, userID, status, activity)
	if err != nil {
		return nil, err
	}

	user.Status = status

	s.emit(ctx, activity)

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, actor *entity.User, userID uuid.UUID) error {
	if entity.IsSelf(actor, userID) {
		return entity.ErrSelfDelete
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !entity.CanAct(actor, user.Portal) {
		return entity.ErrForbidden
	}

	activity := entity.NewActivity(
		entity.ActivityUserDeleted,
		fmt.Sprintf("%s deleted account of %s", actor.FullName, user.FullName),
		actor.FullName,
		user.Portal,
	).WithUser(user.ID.String())

	err = s.repo.DeleteUser(ctx, userID, activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

func (s *Service) UserStatsOverview(ctx context.Context, actor *entity.User) (entity.UserStats, error) {
	if actor.Role != entity.RoleAdmin {
		return entity.UserStats{}, entity.ErrForbidden
	}

	return s.repo.UserStats(ctx)
}
