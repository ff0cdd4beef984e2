package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

func listQuery(p models.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" && p.Status != models.StatusAll {
		q.Set("status", p.Status)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	if p.Fields != "" {
		q.Set("fields", p.Fields)
	}
	return q
}

type bookingList struct {
	Bookings   []models.Booking `json:"bookings"`
	TotalCount int              `json:"totalCount"`
	Pagination struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

// ListBookings fetches one page of bookings. The total is read from
// data.totalCount, falling back to data.pagination.total.
func (c *Client) ListBookings(ctx context.Context, p models.ListParams) (*models.BookingPage, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings", listQuery(p), nil)
	if err != nil {
		return nil, err
	}

	var list bookingList
	if err := decodeData(env, "", &list); err != nil {
		return nil, err
	}

	total := list.TotalCount
	if total == 0 {
		total = list.Pagination.Total
	}
	if list.Bookings == nil {
		list.Bookings = []models.Booking{}
	}
	return &models.BookingPage{Bookings: list.Bookings, Total: total}, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var b models.Booking
	if err := decodeData(env, "booking", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking submits a new booking and returns it as stored, including
// the serial and entry numbers assigned by the backend.
func (c *Client) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodPost, "/bookings", nil, b)
	if err != nil {
		return nil, err
	}
	var created models.Booking
	if err := decodeData(env, "booking", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBooking replaces booking id with b. When the backend answers
// without a body the sent record is returned.
func (c *Client) UpdateBooking(ctx context.Context, id string, b *models.Booking) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id), nil, b)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		updated := b.Clone()
		return &updated, nil
	}
	var updated models.Booking
	if err := decodeData(env, "booking", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil)
	return err
}

// SearchHistory looks up a returning customer's past stays by mobile
// and/or Aadhaar.
func (c *Client) SearchHistory(ctx context.Context, mobile, aadhaar string) (*models.CustomerHistory, error) {
	q := url.Values{}
	if mobile != "" {
		q.Set("mobile", mobile)
	}
	if aadhaar != "" {
		q.Set("aadhaar", aadhaar)
	}
	env, err := c.do(ctx, http.MethodGet, "/bookings/search", q, nil)
	if err != nil {
		return nil, err
	}
	var h models.CustomerHistory
	if err := decodeData(env, "", &h); err != nil {
		return nil, err
	}
	return &h, nil
}
