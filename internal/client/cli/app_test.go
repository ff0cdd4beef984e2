package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/services"
	"github.com/dmitrijs2005/hoteldesk/internal/client/session"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
)

func TestDispatch_UnknownCommand(t *testing.T) {
	a := newTestApp(t)
	err := a.Dispatch(context.Background(), "teleport", nil)
	assert.ErrorIs(t, err, errUnknownCommand)
}

func TestStatus(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, "(admin)", a.status())
	a.session.user = nil
	assert.Equal(t, "(guest)", a.status())
}

func TestLogin_ShowsDashboard(t *testing.T) {
	a := newTestApp(t, "frontdesk")
	a.session.user = nil
	a.accounts.dashboard = &models.Dashboard{
		Stats:           models.DashboardStats{TotalBookings: 1250, ActiveBookings: 7, TodayRevenue: 12500, TotalRevenue: 1234567.5},
		RecentCustomers: sampleBookings()[:1],
	}
	stubPasswords(t, "s3cret!")

	require.NoError(t, a.Dispatch(context.Background(), "login", nil))

	assert.Equal(t, []string{"frontdesk:s3cret!"}, a.session.logins)
	out := a.out.String()
	assert.Contains(t, out, "Logged in as frontdesk")
	assert.Contains(t, out, "1,250")
	assert.Contains(t, out, "₹12,500")
	assert.Contains(t, out, "₹1,234,567.5")
	assert.Contains(t, out, "Naitik Kumar")
}

func TestLogin_Failures(t *testing.T) {
	a := newTestApp(t, "frontdesk", "")
	a.session.user = nil
	a.session.loginErr = fmt.Errorf("%w: %w", session.ErrInvalidCredentials, api.ErrUnauthorized)
	stubPasswords(t, "wrong")

	err := a.Dispatch(context.Background(), "login", nil)
	assert.Equal(t, "error: invalid username or password", describe(err))
	assert.False(t, a.isLoggedIn())

	err = a.Dispatch(context.Background(), "login", nil)
	assert.EqualError(t, err, "username is required")
}

func TestLogout(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Dispatch(context.Background(), "logout", nil))
	assert.Equal(t, 1, a.session.logouts)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, a.out.String(), "Logged out.")
}

func TestWhoami(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Dispatch(context.Background(), "whoami", nil))
	assert.Contains(t, a.out.String(), "admin (admin) <admin@hotel.test>")
	assert.Contains(t, a.out.String(), "logged in 2 hours ago")
}

func TestRegisterAdmin(t *testing.T) {
	a := newTestApp(t, "owner", "owner@hotel.test")
	require.NoError(t, a.Dispatch(context.Background(), "register-admin", nil))
	assert.Contains(t, a.out.String(), "Log out first")
	assert.Empty(t, a.accounts.registers)

	a.session.user = nil
	stubPasswords(t, "pw1234", "key-42")
	require.NoError(t, a.Dispatch(context.Background(), "register-admin", nil))
	want := []models.AdminRegistration{{Username: "owner", Email: "owner@hotel.test", Password: "pw1234", AdminKey: "key-42"}}
	if diff := cmp.Diff(want, a.accounts.registers); diff != "" {
		t.Errorf("registration mismatch (-want +got):\n%s", diff)
	}
}

func TestList_RendersRecords(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Dispatch(context.Background(), "list", nil))

	out := a.out.String()
	for _, s := range []string{"S044", "Naitik Kumar", "₹3,000", "₹4,500", "checked-out", "2024-05-03", "page 1 of 1", "3 booking(s)", "sorted by checkIn"} {
		assert.Contains(t, out, s)
	}
	require.Len(t, a.fetcher.calls, 1)
	assert.Equal(t, 1, a.fetcher.calls[0].Page)
}

func TestList_FetchError(t *testing.T) {
	a := newTestApp(t)
	a.fetcher.err = fmt.Errorf("%w: connection refused", api.ErrUnavailable)
	err := a.Dispatch(context.Background(), "list", nil)
	assert.ErrorIs(t, err, api.ErrUnavailable)
}

func TestSearchAndClear(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	a.out.Reset()

	require.NoError(t, a.Dispatch(ctx, "search", []string{"sharma"}))
	out := a.out.String()
	assert.Contains(t, out, "Priya Sharma")
	assert.NotContains(t, out, "Amit Verma")
	assert.Contains(t, out, `1 match(es) for "sharma"`)
	a.out.Reset()

	require.NoError(t, a.Dispatch(ctx, "clear", nil))
	assert.Contains(t, a.out.String(), "Amit Verma")

	assert.ErrorAs(t, a.Dispatch(ctx, "search", nil), new(*usageError))
}

func TestFilters(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Dispatch(ctx, "status", []string{"Checked-Out"}))
	assert.Contains(t, a.out.String(), "status checked-out")
	assert.Equal(t, "checked-out", a.fetcher.calls[len(a.fetcher.calls)-1].Status)

	require.NoError(t, a.Dispatch(ctx, "sort", []string{"rent"}))
	assert.Equal(t, "rent", a.records.View().Query.SortBy)

	require.NoError(t, a.Dispatch(ctx, "range", []string{"2024-05-01", "2024-05-31"}))
	q := a.records.View().Query
	assert.Equal(t, "2024-05-01", q.StartDate)
	assert.Equal(t, "2024-05-31", q.EndDate)

	require.NoError(t, a.Dispatch(ctx, "range", []string{"clear"}))
	q = a.records.View().Query
	assert.Empty(t, q.StartDate)
	assert.Empty(t, q.EndDate)

	assert.Error(t, a.Dispatch(ctx, "status", []string{"cancelled"}))
	assert.Error(t, a.Dispatch(ctx, "sort", []string{"price"}))
	assert.Error(t, a.Dispatch(ctx, "range", []string{"2024-05-31", "2024-05-01"}))
	assert.ErrorAs(t, a.Dispatch(ctx, "range", nil), new(*usageError))
}

func TestPaging(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))

	assert.Error(t, a.Dispatch(ctx, "next", nil))
	assert.Error(t, a.Dispatch(ctx, "prev", nil))
	assert.ErrorAs(t, a.Dispatch(ctx, "page", []string{"two"}), new(*usageError))
	require.NoError(t, a.Dispatch(ctx, "page", []string{"1"}))
}

func TestRefresh_Forces(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	assert.Len(t, a.fetcher.calls, 1)

	require.NoError(t, a.Dispatch(ctx, "refresh", nil))
	assert.Len(t, a.fetcher.calls, 2)
}

func TestShow(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))

	fresh := a.bookings.get["b2"]
	fresh.Room = "301"
	a.bookings.get["b2"] = fresh
	a.out.Reset()

	require.NoError(t, a.Dispatch(ctx, "show", []string{"s045"}))
	out := a.out.String()
	assert.Contains(t, out, "Booking S045")
	assert.Contains(t, out, "301")
	assert.Contains(t, out, "Group of 2")
	assert.Contains(t, out, "Rohan Sharma (spouse)")

	err := a.Dispatch(ctx, "show", []string{"S999"})
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "error: Booking not found", describe(err))
}

func TestShow_DeletedOnServer(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))

	// still on screen, gone on the backend
	delete(a.bookings.get, "b1")
	err := a.Dispatch(ctx, "show", []string{"S044"})
	assert.True(t, api.IsNotFound(err))
}

func TestShow_UsesLoadedRowWhenReloadFails(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	a.out.Reset()

	a.bookings.getErr = fmt.Errorf("%w: timeout", api.ErrUnavailable)
	require.NoError(t, a.Dispatch(ctx, "show", []string{"S044"}))
	assert.Contains(t, a.out.String(), "Naitik Kumar")
	assert.Contains(t, a.out.String(), "staying")
}

func TestCheckout(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))

	require.NoError(t, a.Dispatch(ctx, "checkout", []string{"S044"}))
	assert.Contains(t, a.out.String(), "Naitik Kumar checked out on 2024-05-12")
	require.Len(t, a.bookings.checked, 1)
	assert.Equal(t, "b1", a.bookings.checked[0].ID)

	err := a.Dispatch(ctx, "checkout", []string{"S046"})
	assert.ErrorIs(t, err, services.ErrAlreadyCheckedOut)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	a := newTestApp(t, "no")
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	require.NoError(t, a.Dispatch(ctx, "delete", []string{"S045"}))
	assert.Contains(t, a.out.String(), "Deletion cancelled.")
	assert.Empty(t, a.bookings.deleted)

	a = newTestApp(t, "yes")
	require.NoError(t, a.Dispatch(ctx, "list", nil))
	require.NoError(t, a.Dispatch(ctx, "delete", []string{"S045"}))
	assert.Equal(t, []string{"b2"}, a.bookings.deleted)
	assert.Contains(t, a.out.String(), "Delete booking S045 for Priya Sharma?")
	assert.Contains(t, a.out.String(), "Booking S045 deleted")
}

func TestHistory(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.bookings.history = &models.CustomerHistory{
		Found: true,
		Customer: &models.CustomerRecord{
			Name: "Naitik Kumar", Mobile: "9876543210", Aadhaar: "1234-5678-9012",
			VisitCount: 2, TotalSpent: 9000, LastVisit: "2024-04-02",
			Visits: []models.Visit{
				{EntryNo: "E-0001", SerialNo: "S001", CheckIn: "2024-03-01T00:00:00Z", CheckOut: "2024-03-03T00:00:00Z", Rent: 6000, Room: "101"},
				{SerialNo: "S020", CheckIn: "2024-04-01", Rent: 3000, Room: "102"},
			},
		},
	}

	require.NoError(t, a.Dispatch(ctx, "history", []string{"9876543210"}))
	require.NoError(t, a.Dispatch(ctx, "history", []string{"1234-5678-9012"}))
	assert.Equal(t, [][2]string{{"9876543210", ""}, {"", "123456789012"}}, a.bookings.lookups)

	out := a.out.String()
	assert.Contains(t, out, "Customer Naitik Kumar")
	assert.Contains(t, out, "₹9,000")
	assert.Contains(t, out, "2024-03-03")
	assert.Contains(t, out, "S020")

	assert.ErrorAs(t, a.Dispatch(ctx, "history", []string{"12345"}), new(*usageError))
}

func writeJPEG(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 2048)...), 0o600))
	return p
}

func TestAdd_FullForm(t *testing.T) {
	front := writeJPEG(t, "front.jpg")
	a := newTestApp(t,
		"9876543210",   // mobile
		"123456789012", // aadhaar
		"",             // name: keep the returning guest's
		"305",          // room
		"abc",          // rent, rejected
		"3000",         // rent
		"",             // check-in: today
		"/nope/x.jpg",  // front, unreadable
		front,          // front
		"",             // back: skip
		"yes",          // another guest
		"Rohan Sharma", // guest name
		"friend",       // relationship
		"",             // guest mobile
		"2345 6789 0123",
		"", "", // guest documents
		"no",
	)
	a.bookings.history = &models.CustomerHistory{Found: true, Customer: &models.CustomerRecord{Name: "Naitik Kumar", VisitCount: 3, LastVisit: "2024-04-02"}}

	require.NoError(t, a.Dispatch(context.Background(), "add", nil))

	require.Len(t, a.bookings.created, 1)
	nb := a.bookings.created[0]
	b := nb.Booking
	assert.Equal(t, "Naitik Kumar", b.CustomerName)
	assert.Equal(t, "9876543210", b.CustomerMobile)
	assert.Equal(t, "1234-5678-9012", b.CustomerAadhaar)
	assert.Equal(t, "305", b.Room)
	assert.Equal(t, 3000.0, b.Rent)
	assert.Equal(t, "2024-05-12", b.CheckIn)
	require.NotNil(t, nb.Front)
	assert.Equal(t, "front.jpg", nb.Front.Name)
	assert.Nil(t, nb.Back)
	require.Len(t, b.AdditionalGuests, 1)
	assert.Equal(t, models.AdditionalGuest{Name: "Rohan Sharma", Relationship: "friend", Aadhaar: "2345-6789-0123"}, b.AdditionalGuests[0])
	require.Len(t, nb.Guests, 1)

	out := a.out.String()
	assert.Contains(t, out, "Returning guest: Naitik Kumar, 3 visit(s)")
	assert.Contains(t, out, "Guest name [Naitik Kumar]")
	assert.Contains(t, out, "rent: must be a non-negative number")
	assert.Contains(t, out, "Uploading documents (2.1 kB)")
	assert.Contains(t, out, "Booking S047 created for Naitik Kumar, room 305 (group of 2)")
	assert.Equal(t, [][2]string{{"9876543210", "1234-5678-9012"}}, a.bookings.lookups)
}

func TestAdd_BlankRoomAndCreateError(t *testing.T) {
	a := newTestApp(t, "9876543210", "123456789012", "Asha Rao", "", "1500", "2024-05-11", "", "", "no")
	a.bookings.err = validate.ValidationErrors{{Field: "room", Message: "is required"}}

	err := a.Dispatch(context.Background(), "add", nil)
	require.Error(t, err)
	assert.Equal(t, "invalid input:\n  room: is required", describe(err))
	require.Len(t, a.bookings.created, 1)
	assert.Empty(t, a.bookings.created[0].Booking.Room)
	assert.Equal(t, "2024-05-11", a.bookings.created[0].Booking.CheckIn)
}

func TestAdd_AbortsOnEOF(t *testing.T) {
	a := newTestApp(t, "9876543210")
	err := a.Dispatch(context.Background(), "add", nil)
	assert.Error(t, err)
	assert.Empty(t, a.bookings.created)
}

func TestEdit_KeepsDefaults(t *testing.T) {
	a := newTestApp(t, "", "", "", "401", "", "", "")
	ctx := context.Background()
	require.NoError(t, a.Dispatch(ctx, "list", nil))

	require.NoError(t, a.Dispatch(ctx, "edit", []string{"S046"}))

	require.Len(t, a.bookings.updated, 1)
	want := sampleBookings()[2]
	want.Room = "401"
	if diff := cmp.Diff(want, a.bookings.updated[0]); diff != "" {
		t.Errorf("edited booking mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, a.out.String(), "Booking S046 updated")
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	a := newTestApp(t, "", "")
	require.NoError(t, a.Dispatch(ctx, "profile", nil))
	assert.Contains(t, a.out.String(), "Nothing changed.")
	assert.Empty(t, a.accounts.profiles)

	a = newTestApp(t, "", "desk@hotel.test")
	require.NoError(t, a.Dispatch(ctx, "profile", nil))
	assert.Equal(t, []models.ProfileUpdate{{Email: "desk@hotel.test"}}, a.accounts.profiles)
}

func TestPasswd(t *testing.T) {
	a := newTestApp(t)
	stubPasswords(t, "old", "newpass", "newpass")
	require.NoError(t, a.Dispatch(context.Background(), "passwd", nil))
	assert.Equal(t, [][3]string{{"old", "newpass", "newpass"}}, a.accounts.passwords)
	assert.Contains(t, a.out.String(), "Password changed")

	a.accounts.err = services.ErrPasswordMismatch
	stubPasswords(t, "old", "a", "b")
	assert.ErrorIs(t, a.Dispatch(context.Background(), "passwd", nil), services.ErrPasswordMismatch)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Dispatch(context.Background(), "health", nil))
	assert.Contains(t, a.out.String(), "Backend reachable at http://desk.test/api")

	a.accounts.err = fmt.Errorf("%w: dial tcp", api.ErrUnavailable)
	assert.ErrorIs(t, a.Dispatch(context.Background(), "health", nil), api.ErrUnavailable)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", validate.ValidationErrors{{Field: "customerName", Message: "is required"}, {Field: "rent", Message: "must be a non-negative number"}},
			"invalid input:\n  customerName: is required\n  rent: must be a non-negative number"},
		{"usage", usage("page <n>"), "usage: page <n>"},
		{"credentials", fmt.Errorf("%w: %w", session.ErrInvalidCredentials, api.ErrUnauthorized), "error: invalid username or password"},
		{"network", fmt.Errorf("list: %w: timeout", api.ErrUnavailable), "error: server unreachable (retry with 'refresh')"},
		{"unauthorized", &api.ServerError{Status: 401, Message: "Token expired"}, "error: session expired, please log in again"},
		{"server", fmt.Errorf("update booking: %w", &api.ServerError{Status: 409, Message: "Booking is locked"}), "error: Booking is locked"},
		{"other", errors.New("boom"), "error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err))
		})
	}
}
