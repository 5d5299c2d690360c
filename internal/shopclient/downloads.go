package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// DownloadClient retrieves purchased assets. A download is a two-step
// exchange: issue a short-lived token for a paid order line, then fetch
// the bytes with it. The token itself is opaque to the client.
type DownloadClient struct {
	gw *gateway.Client
}

func (c *DownloadClient) IssueToken(ctx context.Context, orderID, ebookID int64) (domain.DownloadToken, error) {
	if orderID <= 0 {
		return domain.DownloadToken{}, &ValidationError{Field: "orderId", Reason: "is required"}
	}
	if ebookID <= 0 {
		return domain.DownloadToken{}, &ValidationError{Field: "ebookId", Reason: "is required"}
	}
	query := url.Values{
		"orderId": {strconv.FormatInt(orderID, 10)},
		"ebookId": {strconv.FormatInt(ebookID, 10)},
	}
	payload, err := c.gw.Do(ctx, http.MethodPost, "/downloads/tokens", query, nil)
	if err != nil {
		return domain.DownloadToken{}, err
	}
	var token domain.DownloadToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return domain.DownloadToken{}, fmt.Errorf("decode download token: %w", err)
	}
	return token, nil
}

// Fetch streams the asset for a previously issued token into w.
func (c *DownloadClient) Fetch(ctx context.Context, token string, w io.Writer) error {
	if strings.TrimSpace(token) == "" {
		return &ValidationError{Field: "token", Reason: "is required"}
	}
	return c.gw.Download(ctx, "/downloads/"+url.PathEscape(token), nil, w)
}
