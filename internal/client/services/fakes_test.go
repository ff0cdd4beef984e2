package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

type fakeBookingAPI struct {
	mu sync.Mutex

	created  []models.Booking
	updated  []models.Booking
	deleted  []string
	history  [][2]string
	createFn func(b *models.Booking) (*models.Booking, error)
	updateFn func(id string, b *models.Booking) (*models.Booking, error)
	deleteFn func(id string) error
}

func (f *fakeBookingAPI) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	return &models.Booking{ID: id, SerialNo: "S001"}, nil
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, b *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	f.created = append(f.created, b.Clone())
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(b)
	}
	out := b.Clone()
	out.ID = "new-id"
	out.SerialNo = "S100"
	return &out, nil
}

func (f *fakeBookingAPI) UpdateBooking(_ context.Context, id string, b *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	f.updated = append(f.updated, b.Clone())
	fn := f.updateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id, b)
	}
	out := b.Clone()
	return &out, nil
}

func (f *fakeBookingAPI) DeleteBooking(_ context.Context, id string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return nil
}

func (f *fakeBookingAPI) SearchHistory(_ context.Context, mobile, aadhaar string) (*models.CustomerHistory, error) {
	f.history = append(f.history, [2]string{mobile, aadhaar})
	return &models.CustomerHistory{Found: true}, nil
}

type fakeDocs struct {
	mu       sync.Mutex
	failOn   map[string]error
	uploaded []string
	deleted  []string
}

func (f *fakeDocs) Upload(_ context.Context, d models.DocumentFile) (*models.UploadedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[d.Name]; err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, d.Name)
	return &models.UploadedDocument{URL: "https://cdn.example/" + d.Name, PublicID: "pid-" + d.Name}, nil
}

func (f *fakeDocs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeList struct {
	patched     []models.Booking
	removed     []string
	invalidated int
}

func (f *fakeList) Patch(b models.Booking) { f.patched = append(f.patched, b) }

func (f *fakeList) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeList) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}
