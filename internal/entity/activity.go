package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	ActivityUserLogin                   = "user_login"
	ActivityUserLogout                  = "user_logout"
	ActivityUserRegistered              = "user_registered"
	ActivityUserUpdated                 = "user_updated"
	ActivityUserStatusUpdated           = "user_status_updated"
	ActivityUserDeleted                 = "user_deleted"
	ActivityProfileUpdated              = "profile_updated"
	ActivityPasswordChanged             = "password_changed"
	ActivityTicketCreated               = "ticket_created"
	ActivityTicketUpdated               = "ticket_updated"
	ActivityTicketStatusUpdated         = "ticket_status_updated"
	ActivityTicketAssigned              = "ticket_assigned"
	ActivityTicketDeleted               = "ticket_deleted"
	ActivityUserRequestApproved         = "user_request_approved"
	ActivityParkingRequestCreated       = "parking_request_created"
	ActivityParkingRequestUpdated       = "parking_request_updated"
	ActivityParkingRequestStatusUpdated = "parking_request_status_updated"
	ActivityParkingRequestDeleted       = "parking_request_deleted"
	ActivityParkingLocationCreated      = "parking_location_created"
	ActivityParkingLocationUpdated      = "parking_location_updated"
	ActivityParkingLocationStatus       = "parking_location_status_updated"
	ActivityParkingSpacesUpdated        = "parking_spaces_updated"
	ActivityParkingLocationDeleted      = "parking_location_deleted"
)

// Activity is an append-only audit record. Rows are written in the same
// transaction as the mutation they describe and are never updated or deleted.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
	UserName    string     `json:"userName"`
	Portal      Portal     `json:"portal"`
	TicketID    *uuid.UUID `json:"ticketId,omitempty"`
	UserID      *string    `json:"userId,omitempty"`
}

func NewActivity(activityType, description, userName string, portal Portal) Activity {
	return Activity{
		ID:          uuid.Must(uuid.NewV4()),
		Type:        activityType,
		Description: description,
		Timestamp:   time.Now().UTC(),
		UserName:    userName,
		Portal:      portal,
	}
}

func (a Activity) WithTicket(ticketID uuid.UUID) Activity {
	a.TicketID = &ticketID
	return a
}

func (a Activity) WithUser(userID string) Activity {
	a.UserID = &userID
	return a
}
