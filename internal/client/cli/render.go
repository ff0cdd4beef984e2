package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/hoteldesk/internal/client/bookings"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

type theme struct {
	title  lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

// newTheme builds styles for w. Colors are dropped when w is not a
// terminal.
func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	return theme{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:  r.NewStyle().Bold(true).Width(12),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		muted:  r.NewStyle().Faint(true),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (th theme) table(headers []string, rows [][]string, styleFn func(row, col int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(th.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.header
			}
			if styleFn != nil {
				return styleFn(row, col)
			}
			return th.cell
		})
	return t.String()
}

func (th theme) status(s models.BookingStatus) lipgloss.Style {
	if s == models.StatusCheckedOut {
		return th.cell.Inherit(th.muted)
	}
	return th.cell.Inherit(th.ok)
}

func rupees(v float64) string {
	return "₹" + humanize.Commaf(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderRecords(th theme, v bookings.View, now time.Time) string {
	var sb strings.Builder

	if len(v.Bookings) == 0 {
		sb.WriteString("No bookings found.\n")
	} else {
		rows := make([][]string, 0, len(v.Bookings))
		for _, b := range v.Bookings {
			rows = append(rows, []string{
				orDash(b.SerialNo),
				b.CustomerName,
				b.CustomerMobile,
				b.CustomerAadhaar,
				b.Room,
				rupees(b.Rent),
				b.CheckInDate(),
				orDash(b.CheckOutDate()),
				string(b.Status),
				strconv.Itoa(max(b.GroupSize, 1)),
			})
		}
		headers := []string{"Serial", "Guest", "Mobile", "Aadhaar", "Room", "Rent", "Check-in", "Check-out", "Status", "Group"}
		sb.WriteString(th.table(headers, rows, func(row, col int) lipgloss.Style {
			if col == 8 && row >= 0 && row < len(v.Bookings) {
				return th.status(v.Bookings[row].Status)
			}
			return th.cell
		}))
		sb.WriteString("\n")
	}

	q := v.Query
	var info []string
	if q.Search != "" {
		s := fmt.Sprintf("%d match(es) for %q", v.Total, q.Search)
		if v.ServerSearch {
			s += " (server search)"
		}
		info = append(info, s)
	} else {
		info = append(info, fmt.Sprintf("page %d of %d", q.Page, v.Pages), fmt.Sprintf("%s booking(s)", humanize.Comma(int64(v.Total))))
	}
	if q.Status != "" && q.Status != models.StatusAll {
		info = append(info, "status "+q.Status)
	}
	if q.StartDate != "" || q.EndDate != "" {
		info = append(info, fmt.Sprintf("check-in %s..%s", q.StartDate, q.EndDate))
	}
	info = append(info, "sorted by "+q.SortBy)
	if !v.FetchedAt.IsZero() {
		info = append(info, "updated "+humanize.RelTime(v.FetchedAt, now, "ago", "from now"))
	}
	sb.WriteString(th.muted.Render(strings.Join(info, ", ")))
	return sb.String()
}

func renderBooking(th theme, b models.Booking, now time.Time) string {
	var sb strings.Builder
	line := func(label, value string) {
		sb.WriteString(th.label.Render(label) + " " + value + "\n")
	}

	sb.WriteString(th.title.Render("Booking "+orDash(b.SerialNo)) + "\n")
	if b.EntryNo != "" {
		line("Entry", b.EntryNo)
	}
	line("Guest", b.CustomerName)
	line("Mobile", b.CustomerMobile)
	line("Aadhaar", b.CustomerAadhaar)
	line("Room", b.Room)
	line("Rent", rupees(b.Rent))
	line("Check-in", b.CheckInDate())
	if b.IsCheckedOut() {
		line("Check-out", orDash(b.CheckOutDate()))
	} else {
		line("Check-out", "staying")
	}
	line("Status", th.status(b.Status).UnsetPadding().Render(string(b.Status)))
	if c := b.Created(); !c.IsZero() {
		line("Created", humanize.RelTime(c, now, "ago", "from now"))
	}

	for i, url := range b.Documents {
		docType := "document"
		if i < len(b.DocumentTypes) {
			docType = b.DocumentTypes[i]
		}
		line("Document", docType+" "+url)
	}

	if len(b.AdditionalGuests) > 0 {
		sb.WriteString(th.title.Render(fmt.Sprintf("Group of %d", len(b.AdditionalGuests)+1)) + "\n")
		for _, g := range b.AdditionalGuests {
			parts := []string{g.Name}
			if g.Relationship != "" {
				parts = append(parts, "("+g.Relationship+")")
			}
			if g.Mobile != "" {
				parts = append(parts, g.Mobile)
			}
			if g.Aadhaar != "" {
				parts = append(parts, g.Aadhaar)
			}
			if n := len(g.Documents); n > 0 {
				parts = append(parts, fmt.Sprintf("%d document(s)", n))
			}
			sb.WriteString("  - " + strings.Join(parts, " ") + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderDashboard(th theme, d *models.Dashboard, now time.Time) string {
	var sb strings.Builder
	s := d.Stats

	sb.WriteString(th.title.Render("Dashboard") + "\n")
	sb.WriteString(th.label.Render("Bookings") + " " + humanize.Comma(int64(s.TotalBookings)) + "\n")
	sb.WriteString(th.label.Render("Staying") + " " + humanize.Comma(int64(s.ActiveBookings)) + "\n")
	sb.WriteString(th.label.Render("Today") + " " + rupees(s.TodayRevenue) + "\n")
	sb.WriteString(th.label.Render("Revenue") + " " + rupees(s.TotalRevenue) + "\n")

	if len(d.RecentCustomers) == 0 {
		sb.WriteString(th.muted.Render("No recent customers."))
		return sb.String()
	}

	rows := make([][]string, 0, len(d.RecentCustomers))
	for _, b := range d.RecentCustomers {
		created := "-"
		if c := b.Created(); !c.IsZero() {
			created = humanize.RelTime(c, now, "ago", "from now")
		}
		rows = append(rows, []string{orDash(b.SerialNo), b.CustomerName, b.Room, b.CheckInDate(), string(b.Status), created})
	}
	sb.WriteString(th.title.Render("Recent customers") + "\n")
	sb.WriteString(th.table([]string{"Serial", "Guest", "Room", "Check-in", "Status", "Added"}, rows, nil))
	return sb.String()
}

func renderHistory(th theme, h *models.CustomerHistory) string {
	if !h.Found || h.Customer == nil {
		return "No earlier stays found."
	}
	c := h.Customer
	var sb strings.Builder

	title := "Customer " + c.Name
	if h.Archived {
		title += " (archived)"
	}
	sb.WriteString(th.title.Render(title) + "\n")
	sb.WriteString(th.label.Render("Mobile") + " " + orDash(c.Mobile) + "\n")
	sb.WriteString(th.label.Render("Aadhaar") + " " + orDash(c.Aadhaar) + "\n")
	sb.WriteString(th.label.Render("Visits") + " " + strconv.Itoa(c.VisitCount) + "\n")
	sb.WriteString(th.label.Render("Spent") + " " + rupees(c.TotalSpent) + "\n")
	sb.WriteString(th.label.Render("Last visit") + " " + orDash(c.LastVisit))

	if len(c.Visits) > 0 {
		rows := make([][]string, 0, len(c.Visits))
		for _, v := range c.Visits {
			rows = append(rows, []string{orDash(v.EntryNo), orDash(v.SerialNo), datePrefix(v.CheckIn), orDash(datePrefix(v.CheckOut)), v.Room, rupees(v.Rent)})
		}
		sb.WriteString("\n" + th.table([]string{"Entry", "Serial", "Check-in", "Check-out", "Room", "Rent"}, rows, nil))
	}
	return sb.String()
}

func datePrefix(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}
