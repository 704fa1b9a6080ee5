package entity

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrRequestNotFound    = errors.New("parking request not found")
	ErrLocationNotFound   = errors.New("parking location not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateIDCard    = errors.New("id card already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrNotUserRequest     = errors.New("ticket is not a user request")
	ErrNoUserRequestData  = errors.New("no user data found in this request")
	ErrSpacesOutOfRange   = errors.New("available spaces out of range")
	ErrReviewImmutable    = errors.New("review fields are immutable after a terminal status")

	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrInvalidPhone         = errors.New("invalid phone format")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidPortal        = errors.New("invalid portal")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidType          = errors.New("invalid type")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrRolePortalMismatch   = errors.New("role is not permitted on this portal")
	ErrPasswordTooShort     = errors.New("password must be at least 6 characters long")
	ErrPasswordIncorrect    = errors.New("current password is incorrect")
)
