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

// CartClient reads and writes the caller's cart. Every operation is
// parameterized by the session subject, the way the server keys carts.
type CartClient struct {
	gw *gateway.Client
}

// CartItem is the server's acknowledgement of a cart write.
type CartItem struct {
	ID       int64 `json:"id"`
	EbookID  int64 `json:"ebookId"`
	Quantity int   `json:"quantity"`
}

// AddItem puts qty copies of an ebook in the cart; the server increments
// the quantity when the line already exists.
func (c *CartClient) AddItem(ctx context.Context, ebookID int64, qty int) (CartItem, error) {
	if ebookID <= 0 {
		return CartItem{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	if qty < 1 {
		return CartItem{}, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	userID, err := subjectID(c.gw)
	if err != nil {
		return CartItem{}, err
	}
	payload, err := c.gw.Do(ctx, http.MethodPost, "/cart/items", nil, map[string]any{
		"userId":   userID,
		"ebookId":  ebookID,
		"quantity": qty,
	})
	if err != nil {
		return CartItem{}, err
	}
	return decodeCartItem(payload)
}

// SetQuantity replaces a line's quantity. Zero and negative values are
// rejected locally; removal is a distinct operation.
func (c *CartClient) SetQuantity(ctx context.Context, ebookID int64, qty int) (CartItem, error) {
	if ebookID <= 0 {
		return CartItem{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	if qty < 1 {
		return CartItem{}, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	userID, err := subjectID(c.gw)
	if err != nil {
		return CartItem{}, err
	}
	payload, err := c.gw.Do(ctx, http.MethodPatch, "/cart/items", nil, map[string]any{
		"userId":   userID,
		"ebookId":  ebookID,
		"quantity": qty,
	})
	if err != nil {
		return CartItem{}, err
	}
	return decodeCartItem(payload)
}

func (c *CartClient) Items(ctx context.Context) ([]domain.CartLine, error) {
	userID, err := subjectID(c.gw)
	if err != nil {
		return nil, err
	}
	payload, err := c.gw.Do(ctx, http.MethodGet, "/cart/items", userQuery(userID), nil)
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(gateway.ToList(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return lines, nil
}

func (c *CartClient) RemoveItem(ctx context.Context, ebookID int64) error {
	if ebookID <= 0 {
		return &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	userID, err := subjectID(c.gw)
	if err != nil {
		return err
	}
	_, err = c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", ebookID), userQuery(userID), nil)
	return err
}

func (c *CartClient) Summary(ctx context.Context) (domain.CartSummary, error) {
	userID, err := subjectID(c.gw)
	if err != nil {
		return domain.CartSummary{}, err
	}
	payload, err := c.gw.Do(ctx, http.MethodGet, "/cart/summary", userQuery(userID), nil)
	if err != nil {
		return domain.CartSummary{}, err
	}
	var summary domain.CartSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return domain.CartSummary{}, fmt.Errorf("decode cart summary: %w", err)
	}
	return summary, nil
}

func decodeCartItem(payload json.RawMessage) (CartItem, error) {
	var item CartItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return CartItem{}, fmt.Errorf("decode cart item: %w", err)
	}
	return item, nil
}

func userQuery(userID int64) url.Values {
	return url.Values{"userId": {strconv.FormatInt(userID, 10)}}
}
