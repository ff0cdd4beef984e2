package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	env, err := c.do(ctx, http.MethodGet, "/analytics/dashboard", nil, nil)
	if err != nil {
		return nil, err
	}
	var d models.Dashboard
	if err := decodeData(env, "", &d); err != nil {
		return nil, err
	}
	return &d, nil
}
