package models

type DashboardStats struct {
	TotalBookings  int     `json:"totalBookings"`
	TodayRevenue   float64 `json:"todayRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	ActiveBookings int     `json:"activeBookings"`
}

// Dashboard is GET /analytics/dashboard. RecentCustomers holds the most
// recent bookings.
type Dashboard struct {
	Stats           DashboardStats `json:"stats"`
	RecentCustomers []Booking      `json:"recentCustomers"`
}

// CustomerHistory is the result of GET /bookings/search.
type CustomerHistory struct {
	Found    bool            `json:"found"`
	Archived bool            `json:"archived,omitempty"`
	Customer *CustomerRecord `json:"customer,omitempty"`
}

type CustomerRecord struct {
	Name       string  `json:"name"`
	Mobile     string  `json:"mobile"`
	Aadhaar    string  `json:"aadhaar"`
	VisitCount int     `json:"visitCount"`
	TotalSpent float64 `json:"totalSpent"`
	LastVisit  string  `json:"lastVisit"`
	Visits     []Visit `json:"visits"`
}

type Visit struct {
	EntryNo  string  `json:"entryNo"`
	SerialNo string  `json:"serialNo"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut,omitempty"`
	Rent     float64 `json:"rent"`
	Room     string  `json:"room"`
}
