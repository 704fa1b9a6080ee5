package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type TicketType string

const (
	TicketTypeParking     TicketType = "parking"
	TicketTypeEquipment   TicketType = "equipment"
	TicketTypeAccess      TicketType = "access"
	TicketTypeComplaint   TicketType = "complaint"
	TicketTypeViolation   TicketType = "violation"
	TicketTypeOther       TicketType = "other"
	TicketTypeUserRequest TicketType = "user_request"
)

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusApproved   TicketStatus = "approved"
	TicketStatusRejected   TicketStatus = "rejected"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ExternalUserID marks tickets submitted from outside the portals
// (public user-request endpoint). Such tickets have no owning account.
const ExternalUserID = "external"

type Location struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// UserRequestData is the proposed account embedded in a user_request ticket.
type UserRequestData struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IDCard     string `json:"idCard"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type Ticket struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            TicketType       `json:"type"`
	Status          TicketStatus     `json:"status"`
	Priority        Priority         `json:"priority"`
	Images          []string         `json:"images,omitempty"`
	Location        Location         `json:"location"`
	AssignedOfficer *string          `json:"assignedOfficer,omitempty"`
	Resolution      *string          `json:"resolution,omitempty"`
	Portal          Portal           `json:"portal"`
	UserID          string           `json:"userId"`
	UserRequestData *UserRequestData `json:"userRequestData,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeParking, TicketTypeEquipment, TicketTypeAccess,
		TicketTypeComplaint, TicketTypeViolation, TicketTypeOther, TicketTypeUserRequest:
		return true
	}

	return false
}

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusPending, TicketStatusApproved, TicketStatusRejected,
		TicketStatusInProgress, TicketStatusResolved:
		return true
	}

	return false
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusApproved, TicketStatusRejected, TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusResolved},
}

// CanTransitionTo reports whether a status change is allowed by the ticket
// state machine. Approved, rejected and resolved are terminal.
func (t *Ticket) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[t.Status] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (t *Ticket) IsOwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID.String()
}
