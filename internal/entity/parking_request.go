package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusInReview RequestStatus = "in_review"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type Requester struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IDCard       string `json:"idCard"`
	Organization string `json:"organization,omitempty"`
}

type ParkingRequest struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Location        Location      `json:"location"`
	Requester       Requester     `json:"requester"`
	Status          RequestStatus `json:"status"`
	Priority        Priority      `json:"priority"`
	RequestedSpaces int           `json:"requestedSpaces"`
	EstimatedCost   *float64      `json:"estimatedCost,omitempty"`
	Documents       []string      `json:"documents"`
	ReviewedBy      *string       `json:"reviewedBy,omitempty"`
	ReviewNotes     *string       `json:"reviewNotes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInReview, RequestStatusApproved, RequestStatusRejected:
		return true
	}

	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusInReview, RequestStatusApproved, RequestStatusRejected},
	RequestStatusInReview: {RequestStatusApproved, RequestStatusRejected},
}

// CanTransitionTo reports whether a status change is allowed by the review
// state machine. Direct pending -> approved/rejected is the admin fast-track.
func (r *ParkingRequest) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[r.Status] {
		if allowed == next {
			return true
		}
	}

	return false
}
