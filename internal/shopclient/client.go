// Package shopclient exposes one typed client per shop endpoint family.
// Each client is a thin façade over the gateway: it validates inputs
// locally before any network round trip and maps payloads to domain types.
package shopclient

import (
	"fmt"
	"strconv"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
)

// ValidationError is a local, pre-dispatch rejection; it never reaches the
// network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Clients bundles every domain client over one gateway.
type Clients struct {
	Auth      *AuthClient
	Ebooks    *EbookClient
	Cart      *CartClient
	Orders    *OrderClient
	Admin     *AdminClient
	Downloads *DownloadClient
}

// New wires all domain clients.
func New(gw *gateway.Client) *Clients {
	return &Clients{
		Auth:      &AuthClient{gw: gw},
		Ebooks:    &EbookClient{gw: gw},
		Cart:      &CartClient{gw: gw},
		Orders:    &OrderClient{gw: gw},
		Admin:     &AdminClient{gw: gw},
		Downloads: &DownloadClient{gw: gw},
	}
}

// subjectID returns the session's subject as the numeric id the cart
// endpoints are parameterized by.
func subjectID(gw *gateway.Client) (int64, error) {
	sess := gw.Sessions().Get()
	if !sess.Active() {
		return 0, &ValidationError{Field: "session", Reason: "not logged in"}
	}
	id, err := strconv.ParseInt(sess.UserID, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "session", Reason: "subject is not a numeric id"}
	}
	return id, nil
}
