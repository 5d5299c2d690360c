package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// EbookClient reads the public catalog.
type EbookClient struct {
	gw *gateway.Client
}

// List returns the catalog. The server has answered both as a bare array
// and as a paginated envelope over time, so the payload goes through list
// normalization.
func (c *EbookClient) List(ctx context.Context) ([]domain.Ebook, error) {
	payload, err := c.gw.Do(ctx, http.MethodGet, "/api/ebooks", nil, nil)
	if err != nil {
		return nil, err
	}
	var ebooks []domain.Ebook
	if err := json.Unmarshal(gateway.ToList(payload), &ebooks); err != nil {
		return nil, fmt.Errorf("decode ebook list: %w", err)
	}
	return ebooks, nil
}

func (c *EbookClient) Get(ctx context.Context, id int64) (domain.Ebook, error) {
	if id <= 0 {
		return domain.Ebook{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	payload, err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/api/ebooks/%d", id), nil, nil)
	if err != nil {
		return domain.Ebook{}, err
	}
	var ebook domain.Ebook
	if err := json.Unmarshal(payload, &ebook); err != nil {
		return domain.Ebook{}, fmt.Errorf("decode ebook: %w", err)
	}
	return ebook, nil
}
