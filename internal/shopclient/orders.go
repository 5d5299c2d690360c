package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// OrderClient drives the order lifecycle. Status transitions are
// server-authoritative: Pay and Cancel only request the transition, and a
// caller that needs the resulting state re-fetches the order.
type OrderClient struct {
	gw *gateway.Client
}

// Create turns the whole cart into a pending order.
func (c *OrderClient) Create(ctx context.Context) (domain.Order, error) {
	return c.create(ctx, nil)
}

// CreateDirect orders a single ebook without going through the cart.
func (c *OrderClient) CreateDirect(ctx context.Context, ebookID int64) (domain.Order, error) {
	if ebookID <= 0 {
		return domain.Order{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	return c.create(ctx, url.Values{"ebookId": {strconv.FormatInt(ebookID, 10)}})
}

func (c *OrderClient) create(ctx context.Context, query url.Values) (domain.Order, error) {
	payload, err := c.gw.Do(ctx, http.MethodPost, "/orders", query, nil)
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode created order: %w", err)
	}
	return order, nil
}

func (c *OrderClient) List(ctx context.Context) ([]domain.OrderSummary, error) {
	payload, err := c.gw.Do(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	var orders []domain.OrderSummary
	if err := json.Unmarshal(gateway.ToList(payload), &orders); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	return orders, nil
}

func (c *OrderClient) Get(ctx context.Context, id int64) (domain.Order, error) {
	if id <= 0 {
		return domain.Order{}, &ValidationError{Field: "orderId", Reason: "is required"}
	}
	payload, err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil)
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

// Pay requests the PENDING -> PAID transition.
func (c *OrderClient) Pay(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: "orderId", Reason: "is required"}
	}
	_, err := c.gw.Do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/pay", id), nil, nil)
	return err
}

// Cancel requests the PENDING -> CANCELED transition.
func (c *OrderClient) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: "orderId", Reason: "is required"}
	}
	_, err := c.gw.Do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", id), nil, nil)
	return err
}
