// Package bookings coordinates the booking list shown at the desk: which
// page, filter and search are active, and whether a change is answered from
// the rows already loaded, from a short-lived cache or from the backend.
//
// While the backend holds few bookings, search runs over the loaded rows.
// Once a list response reports more than ServerSearchAbove bookings, search
// is sent to the backend for the rest of the session. Search input is
// debounced; filter, sort, date range and page changes fetch immediately.
// Every fetch carries a sequence number and only the newest response is
// applied.
package bookings

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/client/config"
	"github.com/dmitrijs2005/hoteldesk/internal/client/debounce"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/logging"
	"github.com/dmitrijs2005/hoteldesk/internal/timex"
)

var (
	ErrInvalidStatus = errors.New("status must be one of all, checked-in, checked-out")
	ErrInvalidSort   = errors.New("sort must be one of checkIn, customerName, rent, room, status")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrInvalidPage   = errors.New("page out of range")
	ErrClosed        = errors.New("booking list closed")
)

// Fetcher loads one page of bookings from the backend.
type Fetcher interface {
	ListBookings(ctx context.Context, p models.ListParams) (*models.BookingPage, error)
}

// View is a snapshot of what the records table shows.
type View struct {
	Query    models.Query
	Bookings []models.Booking
	Total    int
	Pages    int

	// Loading is set while a list request is in flight, Searching while a
	// search is waiting for input to settle.
	Loading   bool
	Searching bool
	Err       error

	ServerSearch bool
	FetchedAt    time.Time
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithOnChange registers fn to receive a fresh View after every change,
// including those made by debounced searches.
func WithOnChange(fn func(View)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

type Coordinator struct {
	fetcher  Fetcher
	cfg      config.RecordsConfig
	now      func() time.Time
	log      logging.Logger
	onChange func(View)
	timer    *debounce.Timer

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	query models.Query
	rows  []models.Booking
	total int
	err   error

	// allLoaded is true when the last unsearched fetch returned every
	// booking matching the filters; search can then stay local.
	allLoaded    bool
	serverSearch bool
	rowsSearched bool

	lastFingerprint string
	lastFetch       time.Time
	cache           *pageCache
	removed         map[string]struct{}

	seq     uint64
	loading bool
	pending bool
	closed  bool
	waiters []chan struct{}
}

func NewCoordinator(fetcher Fetcher, cfg config.RecordsConfig, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
		log:     logging.Nop(),
		timer:   debounce.New(),
		ctx:     ctx,
		cancel:  cancel,
		query:   models.DefaultQuery(),
		cache:   newPageCache(cfg.CacheTTL, cfg.CacheSize),
		removed: map[string]struct{}{},
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "bookings")
	return c
}

// Load fetches the current query unless it was fetched moments ago or is
// cached.
func (c *Coordinator) Load(ctx context.Context) error {
	return c.fetch(ctx, false, false)
}

// Refresh is Load; with force it bypasses the freshness window and the
// cache.
func (c *Coordinator) Refresh(ctx context.Context, force bool) error {
	return c.fetch(ctx, force, false)
}

// View returns the rows to display for the current query.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Coordinator) viewLocked() View {
	v := View{
		Query:        c.query,
		Total:        c.total,
		Pages:        1,
		Loading:      c.loading,
		Searching:    c.pending,
		Err:          c.err,
		ServerSearch: c.serverSearch,
		FetchedAt:    c.lastFetch,
	}

	switch {
	case c.query.Search != "" && !c.rowsSearched:
		v.Bookings = Filter(c.rows, c.query.Search)
		v.Total = len(v.Bookings)
	case c.rowsSearched:
		v.Bookings = append([]models.Booking(nil), c.rows...)
	default:
		v.Bookings = append([]models.Booking(nil), c.rows...)
		if c.cfg.PageSize > 0 && c.total > 0 {
			v.Pages = int(math.Ceil(float64(c.total) / float64(c.cfg.PageSize)))
		}
	}
	return v
}

// SetSearch records a new search term and schedules the matching fetch
// after the input settles. A term the loaded rows can answer needs no
// fetch at all.
func (c *Coordinator) SetSearch(term string) {
	term = strings.TrimSpace(term)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query.Search = term
	c.query.Page = 1

	var delay time.Duration
	need := false
	if term != "" {
		need = c.serverSearch || !c.allLoaded || c.rowsSearched
		delay = c.cfg.SearchDebounce
	} else {
		need = c.rowsSearched || c.now().Sub(c.lastFetch) > c.cfg.IdleRefetch
		delay = c.cfg.ClearSearchDebounce
	}

	if !need {
		// answering locally supersedes a search still in flight
		c.seq++
		c.loading = false
		c.pending = false
		c.releaseLocked()
		v := c.viewLocked()
		c.mu.Unlock()
		c.timer.Cancel()
		c.notify(v)
		return
	}

	c.pending = true
	v := c.viewLocked()
	c.mu.Unlock()

	c.timer.Trigger(delay, c.debouncedFetch)
	c.notify(v)
}

func (c *Coordinator) debouncedFetch() {
	if err := c.fetch(c.ctx, false, true); err != nil && !errors.Is(err, context.Canceled) {
		c.log.Warn(c.ctx, "search fetch failed", "error", err)
	}
}

func (c *Coordinator) SetStatus(ctx context.Context, status string) error {
	if !models.IsStatusFilter(status) {
		return ErrInvalidStatus
	}
	return c.reshape(ctx, func(q *models.Query) { q.Status = status })
}

func (c *Coordinator) SetSort(ctx context.Context, sortBy string) error {
	if !models.IsSortField(sortBy) {
		return ErrInvalidSort
	}
	return c.reshape(ctx, func(q *models.Query) { q.SortBy = sortBy })
}

// SetDateRange filters by check-in date. Empty bounds are open; both empty
// clears the filter.
func (c *Coordinator) SetDateRange(ctx context.Context, start, end string) error {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = timex.ParseDate(start, time.Local); err != nil {
			return errors.Join(ErrInvalidRange, err)
		}
	}
	if end != "" {
		if to, err = timex.ParseDate(end, time.Local); err != nil {
			return errors.Join(ErrInvalidRange, err)
		}
	}
	if start != "" && end != "" && to.Before(from) {
		return ErrInvalidRange
	}
	return c.reshape(ctx, func(q *models.Query) {
		q.StartDate = start
		q.EndDate = end
	})
}

// reshape applies a filter change, which always starts again from page one.
func (c *Coordinator) reshape(ctx context.Context, fn func(q *models.Query)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	fn(&c.query)
	c.query.Page = 1
	c.mu.Unlock()

	c.cancelPending()
	return c.fetch(ctx, false, false)
}

func (c *Coordinator) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	pages := c.viewLocked().Pages
	if page < 1 || page > pages {
		c.mu.Unlock()
		return ErrInvalidPage
	}
	c.query.Page = page
	c.mu.Unlock()

	c.cancelPending()
	return c.fetch(ctx, false, false)
}

func (c *Coordinator) NextPage(ctx context.Context) error {
	return c.SetPage(ctx, c.View().Query.Page+1)
}

func (c *Coordinator) PrevPage(ctx context.Context) error {
	return c.SetPage(ctx, c.View().Query.Page-1)
}

// Patch replaces a booking in the loaded rows after a successful edit and
// drops the cache. Unlike Remove it makes no fetch: the server response
// already carries the updated booking.
func (c *Coordinator) Patch(b models.Booking) {
	c.mu.Lock()
	c.rows, _ = ReplaceByID(c.rows, b)
	c.cache.clear()
	v := c.viewLocked()
	c.mu.Unlock()
	c.notify(v)
}

// Remove drops a deleted booking and refetches the current query. The
// booking is also filtered out of any later response, so a lagging backend
// or cache cannot bring it back.
func (c *Coordinator) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	c.removed[id] = struct{}{}
	before := len(c.rows)
	c.rows = RemoveByID(c.rows, id)
	if n := before - len(c.rows); n > 0 && c.total >= n {
		c.total -= n
	}
	c.cache.clear()
	v := c.viewLocked()
	c.mu.Unlock()
	c.notify(v)

	return c.fetch(ctx, true, false)
}

// Invalidate drops the cache and refetches, e.g. after a booking was
// created.
func (c *Coordinator) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.cache.clear()
	c.mu.Unlock()
	return c.fetch(ctx, true, false)
}

// Reset forgets everything loaded so far, e.g. when the operator logs out.
// The next Load starts from the default query.
func (c *Coordinator) Reset() {
	c.timer.Cancel()

	c.mu.Lock()
	c.seq++
	c.query = models.DefaultQuery()
	c.rows = nil
	c.total = 0
	c.err = nil
	c.allLoaded = false
	c.serverSearch = false
	c.rowsSearched = false
	c.lastFingerprint = ""
	c.lastFetch = time.Time{}
	c.cache.clear()
	c.removed = map[string]struct{}{}
	c.loading = false
	c.pending = false
	c.releaseLocked()
	c.mu.Unlock()
}

// Wait blocks until no search is pending and no fetch is in flight.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	if !c.pending && !c.loading {
		c.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops pending searches and cancels background fetches.
func (c *Coordinator) Close() {
	c.timer.Stop()
	c.cancel()

	c.mu.Lock()
	c.closed = true
	c.pending = false
	c.loading = false
	c.releaseLocked()
	c.mu.Unlock()
}

func (c *Coordinator) cancelPending() {
	c.timer.Cancel()
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// releaseLocked wakes Wait callers once the coordinator is idle.
func (c *Coordinator) releaseLocked() {
	if c.pending || c.loading {
		return
	}
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

func (c *Coordinator) notify(v View) {
	if c.onChange != nil {
		c.onChange(v)
	}
}

// searchOnServerLocked reports whether term has to be sent to the backend.
func (c *Coordinator) searchOnServerLocked(term string) bool {
	return term != "" && (c.serverSearch || !c.allLoaded)
}

func (c *Coordinator) paramsLocked() models.ListParams {
	q := c.query
	p := models.ListParams{
		Page:      q.Page,
		Limit:     c.cfg.PageSize,
		Status:    q.Status,
		SortBy:    q.SortBy,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Fields:    models.ListFields,
	}
	if c.searchOnServerLocked(q.Search) {
		p.Page = 1
		p.Limit = c.cfg.SearchPageSize
		p.Search = q.Search
	}
	return p
}

// fetch loads the current query. fromTimer marks the call made when a
// debounced search settles.
func (c *Coordinator) fetch(ctx context.Context, force, fromTimer bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if fromTimer {
		c.pending = false
	}

	p := c.paramsLocked()
	fp := Fingerprint(p)
	now := c.now()

	if !force && c.err == nil && fp == c.lastFingerprint && now.Sub(c.lastFetch) < c.cfg.Freshness {
		c.log.Debug(ctx, "list is fresh", "fingerprint", fp)
		c.seq++
		c.loading = false
		c.releaseLocked()
		v := c.viewLocked()
		c.mu.Unlock()
		c.notify(v)
		return nil
	}

	if !force && p.Search == "" {
		if e, ok := c.cache.get(fp, now); ok {
			c.log.Debug(ctx, "list served from cache", "fingerprint", fp)
			// a cache hit supersedes anything still in flight
			c.seq++
			c.loading = false
			c.applyLocked(p, fp, e.bookings, e.total, e.at)
			c.releaseLocked()
			v := c.viewLocked()
			c.mu.Unlock()
			c.notify(v)
			return nil
		}
	}

	c.seq++
	seq := c.seq
	c.loading = true
	v := c.viewLocked()
	c.mu.Unlock()
	c.notify(v)

	page, err := c.fetcher.ListBookings(ctx, p)

	c.mu.Lock()
	if seq != c.seq || c.closed {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded list response", "seq", seq)
		// the rows are stale but a failed request still reaches the caller
		return err
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.releaseLocked()
		v := c.viewLocked()
		c.mu.Unlock()
		c.notify(v)
		return err
	}

	fetchedAt := c.now()
	rows, dropped := c.withoutRemovedLocked(page.Bookings)
	total := page.Total - dropped
	if total < len(rows) {
		total = len(rows)
	}
	c.applyLocked(p, fp, rows, total, fetchedAt)
	if p.Search == "" {
		c.cache.put(fp, cacheEntry{bookings: rows, total: total, at: fetchedAt})
	}
	c.releaseLocked()
	v = c.viewLocked()
	c.mu.Unlock()

	c.log.Debug(ctx, "list fetched", "fingerprint", fp, "rows", len(rows), "total", total)
	c.notify(v)
	return nil
}

func (c *Coordinator) applyLocked(p models.ListParams, fp string, rows []models.Booking, total int, at time.Time) {
	c.rows = rows
	c.total = total
	c.err = nil
	c.rowsSearched = p.Search != ""
	c.lastFingerprint = fp
	c.lastFetch = at

	if p.Search != "" {
		return
	}
	c.allLoaded = p.Page == 1 && len(rows) >= total
	if !c.serverSearch && total > c.cfg.ServerSearchAbove {
		c.serverSearch = true
		c.log.Info(c.ctx, "switching to server-side search", "total", total)
	}
}

func (c *Coordinator) withoutRemovedLocked(rows []models.Booking) ([]models.Booking, int) {
	if len(c.removed) == 0 {
		return rows, 0
	}
	out := make([]models.Booking, 0, len(rows))
	for _, b := range rows {
		if _, gone := c.removed[b.Key()]; gone {
			continue
		}
		out = append(out, b)
	}
	return out, len(rows) - len(out)
}
