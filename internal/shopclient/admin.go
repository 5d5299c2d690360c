package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// AdminClient is the catalog write path; the server rejects it without an
// ADMIN credential.
type AdminClient struct {
	gw *gateway.Client
}

// CreateEbookParams describes a new catalog entry. Thumbnail and File are
// optional uploads.
type CreateEbookParams struct {
	Title         string
	Author        string
	Price         int64
	Status        domain.EbookStatus
	Thumbnail     io.Reader
	ThumbnailName string
	File          io.Reader
	Filename      string
}

// UpdateEbookParams carries the PATCH body; nil fields are left unchanged.
type UpdateEbookParams struct {
	Title     *string             `json:"title,omitempty"`
	Author    *string             `json:"author,omitempty"`
	Price     *int64              `json:"price,omitempty"`
	Thumbnail *string             `json:"thumbnail,omitempty"`
	Status    *domain.EbookStatus `json:"status,omitempty"`
}

// ListEbooks pages through the full catalog, optionally filtered by status
// (empty or "ALL" means everything).
func (c *AdminClient) ListEbooks(ctx context.Context, page, size int, status string) (domain.EbookPage, error) {
	if page < 0 {
		return domain.EbookPage{}, &ValidationError{Field: "page", Reason: "must be at least 0"}
	}
	if size < 1 {
		return domain.EbookPage{}, &ValidationError{Field: "size", Reason: "must be at least 1"}
	}
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	if s := strings.TrimSpace(status); s != "" {
		query.Set("status", s)
	}
	payload, err := c.gw.Do(ctx, http.MethodGet, "/admin/ebooks", query, nil)
	if err != nil {
		return domain.EbookPage{}, err
	}
	var result domain.EbookPage
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.EbookPage{}, fmt.Errorf("decode ebook page: %w", err)
	}
	return result, nil
}

// CreateEbook uploads a new catalog entry as a multipart form.
func (c *AdminClient) CreateEbook(ctx context.Context, params CreateEbookParams) (domain.Ebook, error) {
	if strings.TrimSpace(params.Title) == "" {
		return domain.Ebook{}, &ValidationError{Field: "title", Reason: "is required"}
	}
	if params.Price < 0 {
		return domain.Ebook{}, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if params.Status == "" {
		return domain.Ebook{}, &ValidationError{Field: "status", Reason: "is required"}
	}
	payload, err := c.gw.DoMultipart(ctx, http.MethodPost, "/admin/ebooks", func(w *multipart.Writer) error {
		fields := map[string]string{
			"title":  params.Title,
			"author": params.Author,
			"price":  strconv.FormatInt(params.Price, 10),
			"status": string(params.Status),
		}
		for name, value := range fields {
			if err := w.WriteField(name, value); err != nil {
				return err
			}
		}
		if params.Thumbnail != nil {
			part, err := w.CreateFormFile("thumbnail", params.ThumbnailName)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, params.Thumbnail); err != nil {
				return err
			}
		}
		if params.File != nil {
			part, err := w.CreateFormFile("file", params.Filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, params.File); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Ebook{}, err
	}
	var ebook domain.Ebook
	if err := json.Unmarshal(payload, &ebook); err != nil {
		return domain.Ebook{}, fmt.Errorf("decode created ebook: %w", err)
	}
	return ebook, nil
}

func (c *AdminClient) UpdateEbook(ctx context.Context, id int64, params UpdateEbookParams) (domain.Ebook, error) {
	if id <= 0 {
		return domain.Ebook{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	payload, err := c.gw.Do(ctx, http.MethodPatch, fmt.Sprintf("/admin/ebooks/%d", id), nil, params)
	if err != nil {
		return domain.Ebook{}, err
	}
	var ebook domain.Ebook
	if err := json.Unmarshal(payload, &ebook); err != nil {
		return domain.Ebook{}, fmt.Errorf("decode updated ebook: %w", err)
	}
	return ebook, nil
}

func (c *AdminClient) DeleteEbook(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	_, err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/ebooks/%d", id), nil, nil)
	return err
}
