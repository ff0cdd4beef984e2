package bookings

import (
	"encoding/json"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

type fingerprint struct {
	Page      int    `json:"page"`
	Status    string `json:"status"`
	SortBy    string `json:"sortBy"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Search    string `json:"search,omitempty"`
}

// Fingerprint is the cache key of a list request. Two requests with the
// same fingerprint return the same rows. The search term only takes part
// when it is sent to the server.
func Fingerprint(p models.ListParams) string {
	// struct fields marshal in declaration order, so the encoding is stable
	b, _ := json.Marshal(fingerprint{
		Page:      p.Page,
		Status:    p.Status,
		SortBy:    p.SortBy,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Search:    p.Search,
	})
	return string(b)
}
