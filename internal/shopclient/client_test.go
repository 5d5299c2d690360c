package shopclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/internal/session"
)

const testJWTHeader = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"

func mintToken(t *testing.T, sub, role string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"sub": sub, "role": role})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return testJWTHeader + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// newTestEnv builds the full client stack against an httptest handler with
// a logged-in USER session.
func newTestEnv(t *testing.T, handler http.HandlerFunc) (*Clients, session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	if _, err := store.Set(mintToken(t, "7", "USER")); err != nil {
		t.Fatalf("set session: %v", err)
	}
	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL, Sessions: store})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return New(gw), store
}

func TestValidationFailsBeforeDispatch(t *testing.T) {
	var calls int
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
	}{
		{"set quantity zero", func() error { _, err := clients.Cart.SetQuantity(ctx, 7, 0); return err }},
		{"set quantity negative", func() error { _, err := clients.Cart.SetQuantity(ctx, 7, -1); return err }},
		{"add item zero quantity", func() error { _, err := clients.Cart.AddItem(ctx, 7, 0); return err }},
		{"add item missing id", func() error { _, err := clients.Cart.AddItem(ctx, 0, 1); return err }},
		{"remove missing id", func() error { return clients.Cart.RemoveItem(ctx, 0) }},
		{"ebook missing id", func() error { _, err := clients.Ebooks.Get(ctx, 0); return err }},
		{"order missing id", func() error { _, err := clients.Orders.Get(ctx, 0); return err }},
		{"pay missing id", func() error { return clients.Orders.Pay(ctx, 0) }},
		{"cancel missing id", func() error { return clients.Orders.Cancel(ctx, 0) }},
		{"direct order missing id", func() error { _, err := clients.Orders.CreateDirect(ctx, 0); return err }},
		{"login empty email", func() error { _, err := clients.Auth.Login(ctx, " ", "pw"); return err }},
		{"register empty name", func() error { _, err := clients.Auth.Register(ctx, "a@b.c", "pw", ""); return err }},
		{"admin delete missing id", func() error { return clients.Admin.DeleteEbook(ctx, 0) }},
		{"download token missing order", func() error { _, err := clients.Downloads.IssueToken(ctx, 0, 1); return err }},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("transport reached %d times for locally invalid input", calls)
	}
}
