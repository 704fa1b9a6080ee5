package entity

type UserStats struct {
	TotalUsers    int            `json:"totalUsers"`
	ActiveUsers   int            `json:"activeUsers"`
	UsersByRole   map[string]int `json:"usersByRole"`
	UsersByPortal map[string]int `json:"usersByPortal"`
}

type TicketStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}

type RequestStats struct {
	Total               int            `json:"total"`
	TotalApprovedSpaces int            `json:"totalApprovedSpaces"`
	ByStatus            map[string]int `json:"byStatus"`
	ByPriority          map[string]int `json:"byPriority"`
}

type LocationStats struct {
	Total           int            `json:"total"`
	TotalSpaces     int            `json:"totalSpaces"`
	AvailableSpaces int            `json:"availableSpaces"`
	ByStatus        map[string]int `json:"byStatus"`
}

// DashboardStats is shaped per requesting portal: admins get the global
// block, wilaya additionally gets the parking block, business and police
// get the ticket block only.
type DashboardStats struct {
	TotalUsers              int        `json:"totalUsers"`
	ActiveUsers             int        `json:"activeUsers"`
	TotalTickets            int        `json:"totalTickets"`
	PendingTickets          int        `json:"pendingTickets"`
	ResolvedTickets         int        `json:"resolvedTickets"`
	ParkingRequests         *int       `json:"parkingRequests,omitempty"`
	PendingParkingRequests  *int       `json:"pendingParkingRequests,omitempty"`
	ApprovedParkingRequests *int       `json:"approvedParkingRequests,omitempty"`
	TotalParkingLocations   *int       `json:"totalParkingLocations,omitempty"`
	ActiveParkingLocations  *int       `json:"activeParkingLocations,omitempty"`
	TotalSpaces             *int       `json:"totalSpaces,omitempty"`
	AvailableSpaces         *int       `json:"availableSpaces,omitempty"`
	RecentActivity          []Activity `json:"recentActivity"`
}
