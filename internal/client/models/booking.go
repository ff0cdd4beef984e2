// Package models holds the data types exchanged with the booking backend.
package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusCheckedIn  BookingStatus = "checked-in"
	StatusCheckedOut BookingStatus = "checked-out"
)

// Document types stored in Booking.DocumentTypes.
const (
	DocAadhaarFront = "aadhaar-front"
	DocAadhaarBack  = "aadhaar-back"
)

// DefaultRoom is sent when a booking is created without a room.
const DefaultRoom = "TBD"

// Booking is one guest stay. Documents, DocumentTypes and DocumentPublicIDs
// are parallel: index i of each describes the same uploaded file.
type Booking struct {
	ID                string            `json:"_id,omitempty"`
	SerialNo          string            `json:"serialNo,omitempty"`
	EntryNo           string            `json:"entryNo,omitempty"`
	CustomerName      string            `json:"customerName"`
	CustomerMobile    string            `json:"customerMobile"`
	CustomerAadhaar   string            `json:"customerAadhaar"`
	Room              string            `json:"room"`
	Rent              float64           `json:"rent"`
	CheckIn           string            `json:"checkIn"`
	CheckOut          string            `json:"checkOut,omitempty"`
	Status            BookingStatus     `json:"status"`
	GroupSize         int               `json:"groupSize,omitempty"`
	AdditionalGuests  []AdditionalGuest `json:"additionalGuests"`
	Documents         []string          `json:"documents"`
	DocumentTypes     []string          `json:"documentTypes"`
	DocumentPublicIDs []string          `json:"documentPublicIds"`
	CreatedAt         string            `json:"createdAt,omitempty"`
}

// AdditionalGuest is a member of a group booking other than the primary
// guest. Mobile and Aadhaar are optional.
type AdditionalGuest struct {
	Name              string   `json:"name"`
	Mobile            string   `json:"mobile,omitempty"`
	Aadhaar           string   `json:"aadhaar,omitempty"`
	Relationship      string   `json:"relationship,omitempty"`
	Documents         []string `json:"documents"`
	DocumentTypes     []string `json:"documentTypes"`
	DocumentPublicIDs []string `json:"documentPublicIds"`
}

// Key identifies a booking in the local list: its id, or its serial number
// for rows the backend returned without one.
func (b *Booking) Key() string {
	if b.ID != "" {
		return b.ID
	}
	return b.SerialNo
}

// IsCheckedOut reports whether the guest has left.
func (b *Booking) IsCheckedOut() bool {
	return b.Status == StatusCheckedOut || b.CheckOut != ""
}

// AttachDocument appends an uploaded file to the three parallel arrays.
func (b *Booking) AttachDocument(d UploadedDocument, docType string) {
	b.Documents = append(b.Documents, d.URL)
	b.DocumentTypes = append(b.DocumentTypes, docType)
	b.DocumentPublicIDs = append(b.DocumentPublicIDs, d.PublicID)
}

// AttachDocument appends an uploaded file to the guest's parallel arrays.
func (g *AdditionalGuest) AttachDocument(d UploadedDocument, docType string) {
	g.Documents = append(g.Documents, d.URL)
	g.DocumentTypes = append(g.DocumentTypes, docType)
	g.DocumentPublicIDs = append(g.DocumentPublicIDs, d.PublicID)
}

// Normalize fixes derived fields before a booking is sent: group size,
// non-nil document arrays.
func (b *Booking) Normalize() {
	b.GroupSize = 1 + len(b.AdditionalGuests)
	if b.AdditionalGuests == nil {
		b.AdditionalGuests = []AdditionalGuest{}
	}
	b.Documents = nonNil(b.Documents)
	b.DocumentTypes = nonNil(b.DocumentTypes)
	b.DocumentPublicIDs = nonNil(b.DocumentPublicIDs)
	for i := range b.AdditionalGuests {
		g := &b.AdditionalGuests[i]
		g.Documents = nonNil(g.Documents)
		g.DocumentTypes = nonNil(g.DocumentTypes)
		g.DocumentPublicIDs = nonNil(g.DocumentPublicIDs)
	}
}

// Consistent checks the parallel-array and group-size invariants.
func (b *Booking) Consistent() bool {
	if !parallel(b.Documents, b.DocumentTypes, b.DocumentPublicIDs) {
		return false
	}
	for _, g := range b.AdditionalGuests {
		if !parallel(g.Documents, g.DocumentTypes, g.DocumentPublicIDs) {
			return false
		}
	}
	return b.GroupSize == 1+len(b.AdditionalGuests)
}

// Clone returns a deep copy safe to edit.
func (b Booking) Clone() Booking {
	c := b
	c.Documents = append([]string(nil), b.Documents...)
	c.DocumentTypes = append([]string(nil), b.DocumentTypes...)
	c.DocumentPublicIDs = append([]string(nil), b.DocumentPublicIDs...)
	if b.AdditionalGuests != nil {
		c.AdditionalGuests = make([]AdditionalGuest, len(b.AdditionalGuests))
		for i, g := range b.AdditionalGuests {
			g.Documents = append([]string(nil), g.Documents...)
			g.DocumentTypes = append([]string(nil), g.DocumentTypes...)
			g.DocumentPublicIDs = append([]string(nil), g.DocumentPublicIDs...)
			c.AdditionalGuests[i] = g
		}
	}
	return c
}

// CheckInDate returns the YYYY-MM-DD part of CheckIn, which the backend may
// send as a full timestamp.
func (b *Booking) CheckInDate() string { return datePart(b.CheckIn) }

// CheckOutDate is CheckInDate for CheckOut; "" while the guest is staying.
func (b *Booking) CheckOutDate() string { return datePart(b.CheckOut) }

// Created parses CreatedAt; the zero time is returned when it is absent or
// malformed.
func (b *Booking) Created() time.Time {
	t, err := time.Parse(time.RFC3339, b.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func datePart(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

func parallel(a, b, c []string) bool {
	return len(a) == len(b) && len(b) == len(c)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
