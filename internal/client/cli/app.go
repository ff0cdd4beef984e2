package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/api"
	"github.com/dmitrijs2005/hoteldesk/internal/client/bookings"
	"github.com/dmitrijs2005/hoteldesk/internal/client/config"
	"github.com/dmitrijs2005/hoteldesk/internal/client/documents"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/services"
	"github.com/dmitrijs2005/hoteldesk/internal/client/session"
	"github.com/dmitrijs2005/hoteldesk/internal/client/storage"
	"github.com/dmitrijs2005/hoteldesk/internal/logging"
)

// sessionManager is the part of session.Store the console uses.
type sessionManager interface {
	Init(ctx context.Context) session.State
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Session() (models.Session, error)
	StartWatcher(ctx context.Context, interval time.Duration)
}

type handler func(ctx context.Context, args []string) error

type App struct {
	config   *config.Config
	log      logging.Logger
	session  sessionManager
	records  *bookings.Coordinator
	bookings services.BookingService
	accounts services.AccountService
	reader   *bufio.Reader
	out      io.Writer
	theme    theme
	now      func() time.Time
	closers  []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	client := api.New(c.APIBaseURL, api.WithTimeout(c.RequestTimeout), api.WithLogger(logger))
	store := session.NewStore(client, db, session.WithMaxAge(c.MaxSessionAge), session.WithLogger(logger))
	client.SetTokenSource(store)
	client.OnUnauthorized(store.HandleUnauthorized)

	records := bookings.NewCoordinator(client, c.Records, bookings.WithLogger(logger))
	unsubscribe := store.Subscribe(func(s session.State) {
		if s != session.StateAuthenticated {
			records.Reset()
		}
	})

	docs, err := newDocumentStore(ctx, c, client)
	if err != nil {
		unsubscribe()
		records.Close()
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:   c,
		log:      logger,
		session:  store,
		records:  records,
		bookings: services.NewBookingService(client, docs, records, services.WithLogger(logger)),
		accounts: services.NewAccountService(client, store),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		theme:    newTheme(os.Stdout),
		now:      time.Now,
		closers: []func() error{
			func() error { unsubscribe(); records.Close(); return nil },
			db.Close,
		},
	}
	return a, nil
}

func newDocumentStore(ctx context.Context, c *config.Config, client *api.Client) (documents.Store, error) {
	switch c.DocumentStore {
	case config.DocumentStoreS3:
		return documents.NewS3Store(ctx, c.S3)
	case config.DocumentStoreAPI, "":
		return documents.NewAPIStore(client), nil
	}
	return nil, fmt.Errorf("unknown document store %q", c.DocumentStore)
}

// Run restores the saved session, starts the session watcher and runs the
// REPL until the operator exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the hotel desk console (type 'help' for commands)")
	if err := a.health(ctx, nil); err != nil {
		printlnFn(describe(err))
	}

	if a.session.Init(ctx) == session.StateAuthenticated {
		if err := a.dashboard(ctx, nil); err != nil {
			printlnFn(describe(err))
		}
	} else {
		printlnFn("Not logged in. Type 'login' to start.")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.session.StartWatcher(watchCtx, a.config.AuthCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	sess, err := a.session.Session()
	if err != nil {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", sess.User.Username)
}

func (a *App) commands() map[string]handler {
	return map[string]handler{
		"login":          a.login,
		"logout":         a.logout,
		"register-admin": a.registerAdmin,
		"whoami":         a.whoami,
		"dashboard":      a.dashboard,
		"add":            a.add,
		"l":              a.list,
		"list":           a.list,
		"search":         a.search,
		"clear":          a.clearSearch,
		"status":         a.setStatus,
		"sort":           a.setSort,
		"range":          a.setRange,
		"page":           a.page,
		"next":           a.next,
		"prev":           a.prev,
		"refresh":        a.refresh,
		"show":           a.show,
		"edit":           a.edit,
		"checkout":       a.checkout,
		"delete":         a.delete,
		"history":        a.history,
		"profile":        a.profile,
		"passwd":         a.passwd,
		"health":         a.health,
	}
}

// Dispatch runs one command. Unknown commands return errUnknownCommand.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) error {
	h, ok := a.commands()[cmd]
	if !ok {
		return errUnknownCommand
	}
	return h(ctx, args)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
