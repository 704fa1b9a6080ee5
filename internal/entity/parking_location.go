package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type LocationStatus string

const (
	LocationStatusActive      LocationStatus = "active"
	LocationStatusInactive    LocationStatus = "inactive"
	LocationStatusMaintenance LocationStatus = "maintenance"
	LocationStatusFull        LocationStatus = "full"
)

type OpeningHours struct {
	Monday    string `json:"monday,omitempty"`
	Tuesday   string `json:"tuesday,omitempty"`
	Wednesday string `json:"wednesday,omitempty"`
	Thursday  string `json:"thursday,omitempty"`
	Friday    string `json:"friday,omitempty"`
	Saturday  string `json:"saturday,omitempty"`
	Sunday    string `json:"sunday,omitempty"`
}

type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Manager struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type ParkingLocation struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	Lat             *float64       `json:"lat,omitempty"`
	Lng             *float64       `json:"lng,omitempty"`
	TotalSpaces     int            `json:"totalSpaces"`
	AvailableSpaces int            `json:"availableSpaces"`
	HourlyRate      *float64       `json:"hourlyRate,omitempty"`
	DailyRate       *float64       `json:"dailyRate,omitempty"`
	MonthlyRate     *float64       `json:"monthlyRate,omitempty"`
	Features        []string       `json:"features"`
	Status          LocationStatus `json:"status"`
	OpeningHours    OpeningHours   `json:"openingHours"`
	Contact         Contact        `json:"contact"`
	Manager         Manager        `json:"manager"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (s LocationStatus) IsValid() bool {
	switch s {
	case LocationStatusActive, LocationStatusInactive, LocationStatusMaintenance, LocationStatusFull:
		return true
	}

	return false
}

// ValidSpaces checks the 0 <= available <= total invariant.
func ValidSpaces(available, total int) bool {
	return available >= 0 && available <= total
}
