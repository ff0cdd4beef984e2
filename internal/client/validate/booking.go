package validate

import (
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

// bookingRules is the shape checked for both new and edited bookings.
type bookingRules struct {
	CustomerName     string       `json:"customerName" validate:"required,person_name"`
	CustomerMobile   string       `json:"customerMobile" validate:"required,in_mobile"`
	CustomerAadhaar  string       `json:"customerAadhaar" validate:"required,aadhaar"`
	Rent             float64      `json:"rent" validate:"gte=0"`
	CheckIn          string       `json:"checkIn" validate:"required,booking_date"`
	CheckOut         string       `json:"checkOut" validate:"omitempty,booking_date"`
	Status           string       `json:"status" validate:"oneof=checked-in checked-out"`
	AdditionalGuests []guestRules `json:"additionalGuests" validate:"dive"`
}

type guestRules struct {
	Name    string `json:"name" validate:"required,person_name"`
	Mobile  string `json:"mobile" validate:"omitempty,in_mobile"`
	Aadhaar string `json:"aadhaar" validate:"omitempty,aadhaar"`
}

func rulesFor(b *models.Booking) bookingRules {
	r := bookingRules{
		CustomerName:    strings.TrimSpace(b.CustomerName),
		CustomerMobile:  b.CustomerMobile,
		CustomerAadhaar: b.CustomerAadhaar,
		Rent:            b.Rent,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Status:          string(b.Status),
	}
	for _, g := range b.AdditionalGuests {
		r.AdditionalGuests = append(r.AdditionalGuests, guestRules{
			Name:    strings.TrimSpace(g.Name),
			Mobile:  g.Mobile,
			Aadhaar: g.Aadhaar,
		})
	}
	return r
}

// Booking validates a booking about to be created or saved. It returns
// ValidationErrors listing every failing field.
func Booking(b *models.Booking) error {
	r := rulesFor(b)
	if err := translate(v.Struct(r), ""); err != nil {
		return err
	}
	if b.CheckOut != "" && b.CheckOutDate() < b.CheckInDate() {
		return ValidationErrors{{Field: "checkOut", Message: "must not be before checkIn"}}
	}
	return nil
}
