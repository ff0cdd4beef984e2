package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/services"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
	"github.com/dmitrijs2005/hoteldesk/internal/timex"
)

// add walks the operator through the add-booking form.
func (a *App) add(ctx context.Context, _ []string) error {
	var nb services.NewBooking
	b := &nb.Booking
	var err error

	if b.CustomerMobile, err = GetValid(a.reader, "Mobile number", a.out, strings.TrimSpace, validate.Mobile); err != nil {
		return err
	}
	if b.CustomerAadhaar, err = GetValid(a.reader, "Aadhaar number", a.out, validate.FormatAadhaar, validate.Aadhaar); err != nil {
		return err
	}

	suggested := a.returningGuest(ctx, b.CustomerMobile, b.CustomerAadhaar)
	if b.CustomerName, err = a.askDefault("Guest name", suggested, strings.TrimSpace, validate.Name); err != nil {
		return err
	}

	if b.Room, err = GetSimpleText(a.reader, "Room (blank for "+models.DefaultRoom+")", a.out); err != nil {
		return err
	}
	rent, err := GetValid(a.reader, "Rent", a.out, strings.TrimSpace, checkRent)
	if err != nil {
		return err
	}
	b.Rent, _ = parseRent(rent)
	if b.CheckIn, err = a.askDefault("Check-in date", timex.Today(a.now()), strings.TrimSpace, checkDate); err != nil {
		return err
	}

	if nb.Front, err = a.askDocument("Aadhaar front"); err != nil {
		return err
	}
	if nb.Back, err = a.askDocument("Aadhaar back"); err != nil {
		return err
	}

	for {
		more, err := Confirm(a.reader, "Add another guest to this booking?", a.out)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		g, docs, err := a.askGuest()
		if err != nil {
			return err
		}
		if g == nil {
			break
		}
		b.AdditionalGuests = append(b.AdditionalGuests, *g)
		nb.Guests = append(nb.Guests, docs)
	}

	if size := documentBytes(nb); size > 0 {
		a.println(a.theme.muted.Render("Uploading documents (" + humanize.Bytes(uint64(size)) + ")..."))
	}

	created, err := a.bookings.Create(ctx, nb)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Booking %s created for %s, room %s", created.SerialNo, created.CustomerName, created.Room)
	if n := len(created.AdditionalGuests); n > 0 {
		msg += fmt.Sprintf(" (group of %d)", n+1)
	}
	a.println(a.theme.ok.Render(msg))
	return nil
}

// askGuest reads one additional guest. A blank name drops the guest and
// returns nil.
func (a *App) askGuest() (*models.AdditionalGuest, services.DocumentPair, error) {
	var g models.AdditionalGuest
	var docs services.DocumentPair
	var err error

	if g.Name, err = a.askOptional("Guest name (blank to cancel)", "", strings.TrimSpace, validate.Name); err != nil {
		return nil, docs, err
	}
	if g.Name == "" {
		return nil, docs, nil
	}
	prompt := fmt.Sprintf("Relationship (%s)", strings.Join(relationships, ", "))
	if g.Relationship, err = GetSimpleText(a.reader, prompt, a.out); err != nil {
		return nil, docs, err
	}
	if g.Mobile, err = a.askOptional("Mobile (optional)", "", strings.TrimSpace, validate.Mobile); err != nil {
		return nil, docs, err
	}
	if g.Aadhaar, err = a.askOptional("Aadhaar (optional)", "", validate.FormatAadhaar, validate.Aadhaar); err != nil {
		return nil, docs, err
	}
	if docs.Front, err = a.askDocument("Guest Aadhaar front"); err != nil {
		return nil, docs, err
	}
	if docs.Back, err = a.askDocument("Guest Aadhaar back"); err != nil {
		return nil, docs, err
	}
	return &g, docs, nil
}

// returningGuest looks the customer up in the booking history and returns
// the name on record, if any. Lookup failures are not fatal.
func (a *App) returningGuest(ctx context.Context, mobile, aadhaar string) string {
	h, err := a.bookings.History(ctx, mobile, aadhaar)
	if err != nil {
		a.log.Debug(ctx, "history lookup failed", "error", err)
		return ""
	}
	if !h.Found || h.Customer == nil {
		return ""
	}
	c := h.Customer
	a.println(a.theme.muted.Render(fmt.Sprintf("Returning guest: %s, %d visit(s), last on %s",
		c.Name, c.VisitCount, c.LastVisit)))
	return c.Name
}

func documentBytes(nb services.NewBooking) int {
	n := 0
	add := func(f *models.DocumentFile) {
		if f != nil {
			n += len(f.Content)
		}
	}
	add(nb.Front)
	add(nb.Back)
	for _, p := range nb.Guests {
		add(p.Front)
		add(p.Back)
	}
	return n
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <serial|id>")
	}
	b, err := a.resolve(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(renderBooking(a.theme, b, a.now()))
	return nil
}

// edit prompts for every editable field with the current value as default.
func (a *App) edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("edit <serial|id>")
	}
	orig, err := a.resolve(ctx, args[0])
	if err != nil {
		return err
	}
	b := orig.Clone()

	if b.CustomerName, err = a.askDefault("Guest name", b.CustomerName, strings.TrimSpace, validate.Name); err != nil {
		return err
	}
	if b.CustomerMobile, err = a.askDefault("Mobile number", b.CustomerMobile, strings.TrimSpace, validate.Mobile); err != nil {
		return err
	}
	if b.CustomerAadhaar, err = a.askDefault("Aadhaar number", b.CustomerAadhaar, validate.FormatAadhaar, validate.Aadhaar); err != nil {
		return err
	}
	if b.Room, err = GetWithDefault(a.reader, "Room", b.Room, a.out); err != nil {
		return err
	}
	rent, err := a.askDefault("Rent", formatRent(b.Rent), strings.TrimSpace, checkRent)
	if err != nil {
		return err
	}
	b.Rent, _ = parseRent(rent)
	if b.CheckIn, err = a.askDefault("Check-in date", b.CheckInDate(), strings.TrimSpace, checkDate); err != nil {
		return err
	}
	if b.IsCheckedOut() {
		if b.CheckOut, err = a.askDefault("Check-out date", b.CheckOutDate(), strings.TrimSpace, checkDate); err != nil {
			return err
		}
	}

	updated, err := a.bookings.Update(ctx, b)
	if err != nil {
		return err
	}
	a.println(a.theme.ok.Render("Booking " + updated.SerialNo + " updated"))
	return nil
}

func (a *App) checkout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("checkout <serial|id>")
	}
	b, err := a.resolve(ctx, args[0])
	if err != nil {
		return err
	}
	updated, err := a.bookings.Checkout(ctx, b)
	if err != nil {
		return err
	}
	a.println(a.theme.ok.Render(fmt.Sprintf("%s checked out on %s", updated.CustomerName, updated.CheckOutDate())))
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <serial|id>")
	}
	b, err := a.resolve(ctx, args[0])
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete booking %s for %s? This cannot be undone.", b.SerialNo, b.CustomerName)
	ok, err := Confirm(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if err := a.bookings.Delete(ctx, b.ID, ok); err != nil {
		if errors.Is(err, services.ErrNotConfirmed) {
			a.println("Deletion cancelled.")
			return nil
		}
		return err
	}
	a.println(a.theme.ok.Render("Booking " + b.SerialNo + " deleted"))
	return nil
}

// history accepts a 10-digit mobile number or a 12-digit Aadhaar number.
func (a *App) history(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("history <mobile|aadhaar>")
	}
	var mobile, aadhaar string
	switch d := validate.AadhaarDigits(args[0]); len(d) {
	case 10:
		mobile = d
	case 12:
		aadhaar = d
	default:
		return usage("history <mobile|aadhaar>")
	}

	h, err := a.bookings.History(ctx, mobile, aadhaar)
	if err != nil {
		return err
	}
	a.println(renderHistory(a.theme, h))
	return nil
}
