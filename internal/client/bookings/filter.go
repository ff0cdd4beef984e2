package bookings

import (
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

// Match reports whether b matches the free-text term. Matching is case
// insensitive: a substring of the customer name or a prefix of any word in
// it, or a substring of the mobile, Aadhaar, room, serial, entry number or
// of an additional guest's name or mobile. An empty term matches
// everything.
func Match(b *models.Booking, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	name := strings.ToLower(b.CustomerName)
	if strings.Contains(name, term) {
		return true
	}
	for _, w := range strings.Fields(name) {
		if strings.HasPrefix(w, term) {
			return true
		}
	}

	for _, f := range []string{b.CustomerMobile, b.CustomerAadhaar, b.Room, b.SerialNo, b.ID, b.EntryNo} {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}

	for _, g := range b.AdditionalGuests {
		if strings.Contains(strings.ToLower(g.Name), term) || (g.Mobile != "" && strings.Contains(g.Mobile, term)) {
			return true
		}
	}
	return false
}

// Filter returns the bookings matching term, in order. The input is not
// modified.
func Filter(list []models.Booking, term string) []models.Booking {
	out := make([]models.Booking, 0, len(list))
	for i := range list {
		if Match(&list[i], term) {
			out = append(out, list[i])
		}
	}
	return out
}

// ReplaceByID returns a copy of list with the entry sharing b's key
// replaced by b. ok is false if no entry matched.
func ReplaceByID(list []models.Booking, b models.Booking) (out []models.Booking, ok bool) {
	out = make([]models.Booking, len(list))
	copy(out, list)
	key := b.Key()
	for i := range out {
		if out[i].Key() == key {
			out[i] = b
			ok = true
		}
	}
	return out, ok
}

// RemoveByID returns a copy of list without the entries whose key is id.
func RemoveByID(list []models.Booking, id string) []models.Booking {
	out := make([]models.Booking, 0, len(list))
	for _, b := range list {
		if b.Key() != id {
			out = append(out, b)
		}
	}
	return out
}
