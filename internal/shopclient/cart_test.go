package shopclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

func TestAddItemSendsSubjectAndQuantity(t *testing.T) {
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			UserID   int64 `json:"userId"`
			EbookID  int64 `json:"ebookId"`
			Quantity int   `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.UserID != 7 || body.EbookID != 3 || body.Quantity != 2 {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CartItem{ID: 11, EbookID: 3, Quantity: 2})
	})

	item, err := clients.Cart.AddItem(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ID != 11 || item.Quantity != 2 {
		t.Fatalf("item = %+v", item)
	}
}

func TestItemsNormalizesEnvelope(t *testing.T) {
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "7" {
			t.Errorf("userId = %q", got)
		}
		_, _ = w.Write([]byte(`{"items":[{"ebookId":1,"title":"Go","price":1000,"quantity":2,"subTotal":2000}]}`))
	})

	lines, err := clients.Cart.Items(context.Background())
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("len = %d, want 1", len(lines))
	}
	want := domain.CartLine{EbookID: 1, Title: "Go", Price: 1000, Quantity: 2, SubTotal: 2000}
	if lines[0] != want {
		t.Fatalf("line = %+v, want %+v", lines[0], want)
	}
}

func TestItemsBareArray(t *testing.T) {
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"ebookId":5,"title":"K8s","price":500,"quantity":1,"subTotal":500}]`))
	})

	lines, err := clients.Cart.Items(context.Background())
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(lines) != 1 || lines[0].EbookID != 5 {
		t.Fatalf("lines = %+v", lines)
	}
}

func TestRemoveItemUsesPathAndQuery(t *testing.T) {
	var gotPath, gotUser, gotMethod string
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("userId")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := clients.Cart.RemoveItem(context.Background(), 9); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/cart/items/9" || gotUser != "7" {
		t.Fatalf("request = %s %s?userId=%s", gotMethod, gotPath, gotUser)
	}
}

func TestSummaryDecodes(t *testing.T) {
	clients, _ := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/summary" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items":[{"ebookId":1,"title":"Go","price":1000,"quantity":3,"subTotal":3000}],"totalQuantity":3,"totalAmount":3000}`))
	})

	summary, err := clients.Cart.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalQuantity != 3 || summary.TotalAmount != 3000 || len(summary.Items) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}
