package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/bookings"
	"github.com/dmitrijs2005/hoteldesk/internal/client/config"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/services"
	"github.com/dmitrijs2005/hoteldesk/internal/client/session"
	"github.com/dmitrijs2005/hoteldesk/internal/logging"
)

var testNow = time.Date(2024, 5, 12, 10, 0, 0, 0, time.Local)

func sampleBookings() []models.Booking {
	return []models.Booking{
		{
			ID: "b1", SerialNo: "S044", CustomerName: "Naitik Kumar", CustomerMobile: "9876543210",
			CustomerAadhaar: "1234-5678-9012", Room: "101", Rent: 3000, CheckIn: "2024-05-10",
			Status: models.StatusCheckedIn, GroupSize: 1,
		},
		{
			ID: "b2", SerialNo: "S045", CustomerName: "Priya Sharma", CustomerMobile: "8123456780",
			CustomerAadhaar: "2345-6789-0123", Room: "204", Rent: 4500, CheckIn: "2024-05-11",
			Status: models.StatusCheckedIn, GroupSize: 2,
			AdditionalGuests: []models.AdditionalGuest{{Name: "Rohan Sharma", Relationship: "spouse"}},
		},
		{
			ID: "b3", SerialNo: "S046", CustomerName: "Amit Verma", CustomerMobile: "7012345678",
			CustomerAadhaar: "3456-7890-1234", Room: "TBD", Rent: 1200, CheckIn: "2024-05-01",
			CheckOut: "2024-05-03", Status: models.StatusCheckedOut, GroupSize: 1,
		},
	}
}

type fakeFetcher struct {
	mu    sync.Mutex
	rows  []models.Booking
	err   error
	calls []models.ListParams
}

func (f *fakeFetcher) ListBookings(_ context.Context, p models.ListParams) (*models.BookingPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	rows := bookings.Filter(f.rows, p.Search)
	return &models.BookingPage{Bookings: rows, Total: len(rows)}, nil
}

type fakeSession struct {
	user      *models.User
	loginTime time.Time
	loginErr  error
	logins    []string
	logouts   int
}

func (f *fakeSession) Init(context.Context) session.State {
	if f.user != nil {
		return session.StateAuthenticated
	}
	return session.StateUnauthenticated
}

func (f *fakeSession) Login(_ context.Context, username, password string) error {
	f.logins = append(f.logins, username+":"+password)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.user = &models.User{ID: "u1", Username: username, Role: "admin"}
	f.loginTime = testNow
	return nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	f.user = nil
	return nil
}

func (f *fakeSession) IsAuthenticated() bool { return f.user != nil }

func (f *fakeSession) Session() (models.Session, error) {
	if f.user == nil {
		return models.Session{}, session.ErrNoSession
	}
	return models.Session{User: *f.user, Token: "t", LoginTime: f.loginTime}, nil
}

func (f *fakeSession) StartWatcher(context.Context, time.Duration) {}

type fakeBookings struct {
	get      map[string]models.Booking
	getErr   error
	history  *models.CustomerHistory
	err      error
	created  []services.NewBooking
	updated  []models.Booking
	checked  []models.Booking
	deleted  []string
	confirms []bool
	lookups  [][2]string
}

func (f *fakeBookings) Get(_ context.Context, id string) (*models.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.get[id]
	if !ok {
		return nil, &api.ServerError{Status: 404, Message: "Booking not found"}
	}
	return &b, nil
}

func (f *fakeBookings) Create(_ context.Context, nb services.NewBooking) (*models.Booking, error) {
	f.created = append(f.created, nb)
	if f.err != nil {
		return nil, f.err
	}
	b := nb.Booking.Clone()
	b.ID, b.SerialNo = "b9", "S047"
	if b.Room == "" {
		b.Room = models.DefaultRoom
	}
	return &b, nil
}

func (f *fakeBookings) Update(_ context.Context, b models.Booking) (*models.Booking, error) {
	f.updated = append(f.updated, b)
	if f.err != nil {
		return nil, f.err
	}
	return &b, nil
}

func (f *fakeBookings) Checkout(_ context.Context, b models.Booking) (*models.Booking, error) {
	f.checked = append(f.checked, b)
	if b.IsCheckedOut() {
		return nil, services.ErrAlreadyCheckedOut
	}
	b.CheckOut = "2024-05-12"
	b.Status = models.StatusCheckedOut
	return &b, nil
}

func (f *fakeBookings) Delete(_ context.Context, id string, confirm bool) error {
	f.confirms = append(f.confirms, confirm)
	if !confirm {
		return services.ErrNotConfirmed
	}
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeBookings) History(_ context.Context, mobile, aadhaar string) (*models.CustomerHistory, error) {
	f.lookups = append(f.lookups, [2]string{mobile, aadhaar})
	if f.history == nil {
		return &models.CustomerHistory{}, nil
	}
	return f.history, nil
}

type fakeAccounts struct {
	dashboard *models.Dashboard
	err       error
	profiles  []models.ProfileUpdate
	passwords [][3]string
	registers []models.AdminRegistration
	pings     int
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, p models.ProfileUpdate) (*models.User, error) {
	f.profiles = append(f.profiles, p)
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{Username: p.Username, Email: p.Email}, nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, current, next, confirm string) error {
	f.passwords = append(f.passwords, [3]string{current, next, confirm})
	return f.err
}

func (f *fakeAccounts) RegisterAdmin(_ context.Context, r models.AdminRegistration) error {
	f.registers = append(f.registers, r)
	return f.err
}

func (f *fakeAccounts) Dashboard(context.Context) (*models.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.dashboard == nil {
		return &models.Dashboard{}, nil
	}
	return f.dashboard, nil
}

func (f *fakeAccounts) Ping(context.Context) error {
	f.pings++
	return f.err
}

type testApp struct {
	*App
	out      *bytes.Buffer
	session  *fakeSession
	fetcher  *fakeFetcher
	bookings *fakeBookings
	accounts *fakeAccounts
}

func testRecords() config.RecordsConfig {
	return config.RecordsConfig{
		PageSize:            50,
		SearchPageSize:      300,
		ServerSearchAbove:   500,
		Freshness:           30 * time.Second,
		CacheTTL:            5 * time.Minute,
		CacheSize:           20,
		SearchDebounce:      5 * time.Millisecond,
		ClearSearchDebounce: time.Millisecond,
		IdleRefetch:         time.Minute,
	}
}

// newTestApp builds an App over fakes with a logged-in admin. input is
// what the operator types, one answer per line.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()

	out := &bytes.Buffer{}
	sess := &fakeSession{user: &models.User{ID: "u1", Username: "admin", Email: "admin@hotel.test", Role: "admin"}, loginTime: testNow.Add(-2 * time.Hour)}
	fetcher := &fakeFetcher{rows: sampleBookings()}
	records := bookings.NewCoordinator(fetcher, testRecords(), bookings.WithClock(func() time.Time { return testNow }))
	t.Cleanup(records.Close)

	get := map[string]models.Booking{}
	for _, b := range sampleBookings() {
		get[b.ID] = b
	}
	bs := &fakeBookings{get: get}
	as := &fakeAccounts{}

	text := ""
	if len(input) > 0 {
		text = strings.Join(input, "\n") + "\n"
	}

	return &testApp{
		App: &App{
			config:   &config.Config{APIBaseURL: "http://desk.test/api"},
			log:      logging.Nop(),
			session:  sess,
			records:  records,
			bookings: bs,
			accounts: as,
			reader:   bufio.NewReader(strings.NewReader(text)),
			out:      out,
			theme:    newTheme(out),
			now:      func() time.Time { return testNow },
		},
		out:      out,
		session:  sess,
		fetcher:  fetcher,
		bookings: bs,
		accounts: as,
	}
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) {
		if len(pws) == 0 {
			return nil, nil
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}
