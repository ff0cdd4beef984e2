package models

// Sort fields accepted by the bookings list.
const (
	SortCheckIn      = "checkIn"
	SortCustomerName = "customerName"
	SortRent         = "rent"
	SortRoom         = "room"
	SortStatus       = "status"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// ListFields is the projection requested from GET /bookings.
const ListFields = "customerName,customerMobile,customerAadhaar,room,rent,checkIn,checkOut,status,serialNo,entryNo,documents,documentTypes,documentPublicIds,groupSize,additionalGuests,_id,createdAt"

// Query is what the operator is currently looking at.
type Query struct {
	Search    string
	Status    string
	SortBy    string
	StartDate string
	EndDate   string
	Page      int
}

// DefaultQuery is the records view on first load.
func DefaultQuery() Query {
	return Query{Status: StatusAll, SortBy: SortCheckIn, Page: 1}
}

// ListParams are the query-string parameters of GET /bookings.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	SortBy    string
	StartDate string
	EndDate   string
	Fields    string
}

// BookingPage is one page of GET /bookings.
type BookingPage struct {
	Bookings []Booking
	Total    int
}

func IsSortField(s string) bool {
	switch s {
	case SortCheckIn, SortCustomerName, SortRent, SortRoom, SortStatus:
		return true
	}
	return false
}

func IsStatusFilter(s string) bool {
	switch s {
	case StatusAll, string(StatusCheckedIn), string(StatusCheckedOut):
		return true
	}
	return false
}
