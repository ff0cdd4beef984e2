// Package services holds the desk operations that change bookings and
// accounts. Every operation validates its input before any request and
// leaves local state untouched when the backend rejects it.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/hoteldesk/internal/client/documents"
	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
	"github.com/dmitrijs2005/hoteldesk/internal/logging"
	"github.com/dmitrijs2005/hoteldesk/internal/timex"
)

// BookingAPI is the bookings part of the backend client.
type BookingAPI interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, b *models.Booking) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	SearchHistory(ctx context.Context, mobile, aadhaar string) (*models.CustomerHistory, error)
}

// ListSync is told about successful mutations so the visible list follows
// them.
type ListSync interface {
	Patch(b models.Booking)
	Remove(ctx context.Context, id string) error
	Invalidate(ctx context.Context) error
}

// NewBooking is a filled-in add-booking form. Guests[i] holds the
// documents of Booking.AdditionalGuests[i].
type NewBooking struct {
	Booking models.Booking
	Front   *models.DocumentFile
	Back    *models.DocumentFile
	Guests  []DocumentPair
}

type DocumentPair struct {
	Front *models.DocumentFile
	Back  *models.DocumentFile
}

type BookingService interface {
	Get(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, nb NewBooking) (*models.Booking, error)
	Update(ctx context.Context, b models.Booking) (*models.Booking, error)
	Checkout(ctx context.Context, b models.Booking) (*models.Booking, error)
	Delete(ctx context.Context, id string, confirm bool) error
	History(ctx context.Context, mobile, aadhaar string) (*models.CustomerHistory, error)
}

type Option func(*bookingService)

func WithClock(now func() time.Time) Option {
	return func(s *bookingService) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *bookingService) { s.log = l }
}

type bookingService struct {
	api  BookingAPI
	docs documents.Store
	list ListSync
	log  logging.Logger
	now  func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewBookingService(api BookingAPI, docs documents.Store, list ListSync, opts ...Option) BookingService {
	s := &bookingService{
		api:      api,
		docs:     docs,
		list:     list,
		log:      logging.Nop(),
		now:      time.Now,
		inFlight: map[string]struct{}{},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "booking-service")
	return s
}

// acquire marks id busy; the returned func releases it.
func (s *bookingService) acquire(id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return nil, ErrOperationInProgress
	}
	s.inFlight[id] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, ErrNoBookingID
	}
	return s.api.GetBooking(ctx, id)
}

// prepare normalizes form input the way the add-booking form does.
func (s *bookingService) prepare(b *models.Booking) {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	b.CustomerAadhaar = validate.FormatAadhaar(b.CustomerAadhaar)
	b.Room = strings.TrimSpace(b.Room)
	for i := range b.AdditionalGuests {
		g := &b.AdditionalGuests[i]
		g.Name = strings.TrimSpace(g.Name)
		if g.Aadhaar != "" {
			g.Aadhaar = validate.FormatAadhaar(g.Aadhaar)
		}
	}
	b.Normalize()
}

// Create validates the form, uploads the documents and submits the
// booking. A failed upload of the primary guest's documents aborts the
// submission; a failed guest upload only leaves that document out.
// Documents already stored for an aborted submission are deleted again.
func (s *bookingService) Create(ctx context.Context, nb NewBooking) (*models.Booking, error) {
	b := nb.Booking.Clone()
	if b.Room == "" {
		b.Room = models.DefaultRoom
	}
	if b.CheckIn == "" {
		b.CheckIn = timex.Today(s.now())
	}
	b.Status = models.StatusCheckedIn
	b.CheckOut = ""
	b.Documents, b.DocumentTypes, b.DocumentPublicIDs = nil, nil, nil
	s.prepare(&b)

	if err := validate.Booking(&b); err != nil {
		return nil, err
	}
	for _, f := range []*models.DocumentFile{nb.Front, nb.Back} {
		if f == nil {
			continue
		}
		if err := validate.Document(*f); err != nil {
			return nil, err
		}
	}

	var stored []string
	rollback := func() {
		for _, id := range stored {
			// the request context may already be gone
			if err := s.docs.Delete(context.WithoutCancel(ctx), id); err != nil {
				s.log.Warn(ctx, "failed to delete orphaned document", "publicId", id, "error", err)
			}
		}
	}

	primary, err := s.uploadPair(ctx, nb.Front, nb.Back)
	for _, d := range primary {
		if d != nil {
			stored = append(stored, d.PublicID)
		}
	}
	if err != nil {
		rollback()
		return nil, err
	}
	if primary[0] != nil {
		b.AttachDocument(*primary[0], models.DocAadhaarFront)
	}
	if primary[1] != nil {
		b.AttachDocument(*primary[1], models.DocAadhaarBack)
	}

	for i, pair := range nb.Guests {
		if i >= len(b.AdditionalGuests) {
			break
		}
		g := &b.AdditionalGuests[i]
		for _, side := range []struct {
			file    *models.DocumentFile
			docType string
		}{{pair.Front, models.DocAadhaarFront}, {pair.Back, models.DocAadhaarBack}} {
			if side.file == nil {
				continue
			}
			doc, err := s.docs.Upload(ctx, *side.file)
			if err != nil {
				s.log.Warn(ctx, "guest document upload failed", "guest", g.Name, "side", side.docType, "error", err)
				continue
			}
			stored = append(stored, doc.PublicID)
			g.AttachDocument(*doc, side.docType)
		}
	}

	created, err := s.api.CreateBooking(ctx, &b)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info(ctx, "booking created", "serial", created.SerialNo, "room", created.Room, "documents", len(stored))
	if err := s.list.Invalidate(ctx); err != nil {
		s.log.Warn(ctx, "booking list refresh failed", "error", err)
	}
	return created, nil
}

// uploadPair uploads the front and back side in parallel. The result holds
// whatever was stored even when err is set.
func (s *bookingService) uploadPair(ctx context.Context, front, back *models.DocumentFile) ([2]*models.UploadedDocument, error) {
	var out [2]*models.UploadedDocument
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range []*models.DocumentFile{front, back} {
		if f == nil {
			continue
		}
		side := models.DocAadhaarFront
		if i == 1 {
			side = models.DocAadhaarBack
		}
		g.Go(func() error {
			doc, err := s.docs.Upload(gctx, *f)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrDocumentUpload, side, err)
			}
			out[i] = doc
			return nil
		})
	}
	err := g.Wait()
	return out, err
}

// Update saves an edited booking and patches it into the list.
func (s *bookingService) Update(ctx context.Context, b models.Booking) (*models.Booking, error) {
	if b.ID == "" {
		return nil, ErrNoBookingID
	}
	b = b.Clone()
	s.prepare(&b)
	if err := validate.Booking(&b); err != nil {
		return nil, err
	}

	release, err := s.acquire(b.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.api.UpdateBooking(ctx, b.ID, &b)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	s.list.Patch(*updated)
	s.log.Info(ctx, "booking updated", "serial", updated.SerialNo)
	return updated, nil
}

// Checkout marks the guest as left today. A booking that is already
// checked out is rejected, so its checkout date never changes.
func (s *bookingService) Checkout(ctx context.Context, b models.Booking) (*models.Booking, error) {
	if b.ID == "" {
		return nil, ErrNoBookingID
	}
	if b.IsCheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}

	release, err := s.acquire(b.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	c := b.Clone()
	c.CheckOut = timex.Today(s.now())
	c.Status = models.StatusCheckedOut
	c.Normalize()

	updated, err := s.api.UpdateBooking(ctx, c.ID, &c)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	s.list.Patch(*updated)
	s.log.Info(ctx, "guest checked out", "serial", updated.SerialNo, "checkOut", updated.CheckOut)
	return updated, nil
}

// Delete removes a booking after the operator confirmed it.
func (s *bookingService) Delete(ctx context.Context, id string, confirm bool) error {
	if id == "" {
		return ErrNoBookingID
	}
	if !confirm {
		return ErrNotConfirmed
	}

	release, err := s.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.api.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	s.log.Info(ctx, "booking deleted", "id", id)

	if err := s.list.Remove(ctx, id); err != nil {
		s.log.Warn(ctx, "booking list refresh failed", "error", err)
	}
	return nil
}

// History looks up earlier stays by mobile number, Aadhaar number or both.
func (s *bookingService) History(ctx context.Context, mobile, aadhaar string) (*models.CustomerHistory, error) {
	mobile = strings.TrimSpace(mobile)
	if aadhaar != "" {
		aadhaar = validate.FormatAadhaar(aadhaar)
	}
	if mobile == "" && aadhaar == "" {
		return nil, ErrHistoryQuery
	}
	if mobile != "" {
		if err := validate.Mobile(mobile); err != nil {
			return nil, err
		}
	}
	if aadhaar != "" {
		if err := validate.Aadhaar(aadhaar); err != nil {
			return nil, err
		}
	}
	return s.api.SearchHistory(ctx, mobile, aadhaar)
}
