package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

func (a *App) list(ctx context.Context, _ []string) error {
	if err := a.records.Load(ctx); err != nil {
		return err
	}
	return a.showRecords()
}

// showRecords prints the current view, or the error of the last fetch.
func (a *App) showRecords() error {
	v := a.records.View()
	if v.Err != nil {
		return v.Err
	}
	a.println(renderRecords(a.theme, v, a.now()))
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("search <name, mobile, Aadhaar, room or serial>")
	}
	a.records.SetSearch(strings.Join(args, " "))
	if err := a.records.Wait(ctx); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) clearSearch(ctx context.Context, _ []string) error {
	a.records.SetSearch("")
	if err := a.records.Wait(ctx); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("status <all|checked-in|checked-out>")
	}
	if err := a.records.SetStatus(ctx, strings.ToLower(args[0])); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) setSort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("sort <checkIn|customerName|rent|room|status>")
	}
	if err := a.records.SetSort(ctx, args[0]); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) setRange(ctx context.Context, args []string) error {
	var start, end string
	switch {
	case len(args) == 1 && args[0] == "clear":
	case len(args) == 1:
		start = args[0]
	case len(args) == 2:
		start, end = args[0], args[1]
	default:
		return usage("range <from> [to] | range clear")
	}
	if err := a.records.SetDateRange(ctx, start, end); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("page <n>")
	}
	if err := a.records.SetPage(ctx, n); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) next(ctx context.Context, _ []string) error {
	if err := a.records.NextPage(ctx); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) prev(ctx context.Context, _ []string) error {
	if err := a.records.PrevPage(ctx); err != nil {
		return err
	}
	return a.showRecords()
}

func (a *App) refresh(ctx context.Context, _ []string) error {
	if err := a.records.Refresh(ctx, true); err != nil {
		return err
	}
	return a.showRecords()
}

// resolve finds a booking by serial number or id. Rows on screen are
// matched first and reloaded from the backend when they carry an id; the
// loaded copy is used if the reload fails for any reason but a 404.
func (a *App) resolve(ctx context.Context, ref string) (models.Booking, error) {
	for _, b := range a.records.View().Bookings {
		if !strings.EqualFold(b.SerialNo, ref) && b.ID != ref {
			continue
		}
		if b.ID == "" {
			return b, nil
		}
		fresh, err := a.bookings.Get(ctx, b.ID)
		if err != nil {
			if api.IsNotFound(err) {
				return models.Booking{}, err
			}
			a.log.Warn(ctx, "booking reload failed, using loaded row", "serial", b.SerialNo, "error", err)
			return b, nil
		}
		return *fresh, nil
	}

	b, err := a.bookings.Get(ctx, ref)
	if err != nil {
		return models.Booking{}, err
	}
	return *b, nil
}
