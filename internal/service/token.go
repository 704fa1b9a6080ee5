package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/sicada/admin-service/internal/entity"
)

// Claims carry identification only. Role and portal are informational for
// clients; authorization always re-fetches the user record.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Portal string `json:"portal"`
	jwt.RegisteredClaims
}

func (s *Service) generateToken(user *entity.User) (string, error) {
	now := time.Now()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		Portal: string(user.Portal),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.TokenExpiry)),
		},
	}).SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// ValidateToken verifies the signature and expiry, then re-fetches the user
// so revoked or deactivated accounts lose access immediately.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (*entity.User, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, entity.ErrUnauthorized
	}

	userID, err := uuid.FromString(claims.UserID)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrUnauthorized
		}

		return nil, err
	}

	if !user.IsActive() {
		return nil, entity.ErrAccountInactive
	}

	return user, nil
}
