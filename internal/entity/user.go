package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type Role string

const (
	RoleEmployee      Role = "employee"
	RolePoliceOfficer Role = "police_officer"
	RoleAdmin         Role = "admin"
	RoleCitizen       Role = "citizen"
)

type Portal string

const (
	PortalBusiness Portal = "business"
	PortalPolice   Portal = "police"
	PortalWilaya   Portal = "wilaya"
	PortalCitizen  Portal = "citizen"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID                    uuid.UUID  `json:"id"`
	FullName              string     `json:"fullName"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	IDCard                string     `json:"idCard"`
	PasswordHash          string     `json:"-"`
	Department            *string    `json:"department,omitempty"`
	Position              *string    `json:"position,omitempty"`
	Address               *string    `json:"address,omitempty"`
	BadgeNumber           *string    `json:"badgeNumber,omitempty"`
	Rank                  *string    `json:"rank,omitempty"`
	Station               *string    `json:"station,omitempty"`
	Avatar                *string    `json:"avatar,omitempty"`
	Role                  Role       `json:"role"`
	Portal                Portal     `json:"portal"`
	Status                UserStatus `json:"status"`
	PasswordResetRequired bool       `json:"passwordResetRequired"`
	CreatedAt             time.Time  `json:"createdAt"`
	LastLogin             *time.Time `json:"lastLogin,omitempty"`
}

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RolePoliceOfficer, RoleAdmin, RoleCitizen:
		return true
	}

	return false
}

func (p Portal) IsValid() bool {
	switch p {
	case PortalBusiness, PortalPolice, PortalWilaya, PortalCitizen:
		return true
	}

	return false
}

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive:
		return true
	}

	return false
}

// RoleAllowedOnPortal reports whether a role may hold an account on a portal.
// Admins may be attached to any portal; everyone else is pinned to theirs.
func RoleAllowedOnPortal(role Role, portal Portal) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		return portal == PortalBusiness || portal == PortalWilaya
	case RolePoliceOfficer:
		return portal == PortalPolice
	case RoleCitizen:
		return portal == PortalCitizen
	}

	return false
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
