// Package cartview keeps a locally displayed copy of the cart and applies
// mutations optimistically: the visible state changes the moment the user
// acts, the confirming request runs afterwards, and a rejection is handed
// back to the caller together with the pre-mutation snapshot so the caller
// decides between rollback and retry. Automatic rollback is deliberately
// not done here: it could race with a later, unrelated mutation on the
// same collection and silently discard it.
package cartview

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hwangsangha/ebook-client/internal/shopclient"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

var (
	// ErrUnknownLine means the target ebook is not in the displayed cart.
	ErrUnknownLine = errors.New("no such cart line")
	// ErrMutationInFlight rejects a second mutation on a line whose
	// confirming request has not returned yet. Mutations on distinct
	// lines are independent; same-line mutations must be serialized.
	ErrMutationInFlight = errors.New("mutation already in flight for this line")
)

// MutationError reports a rejected mutation. Previous is the full line
// snapshot from before the optimistic transform; the view itself still
// shows the optimistic state.
type MutationError struct {
	Err      error
	Previous []domain.CartLine
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("cart mutation rejected: %v", e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// CartService is the slice of the cart client the view needs; split out so
// tests can drive the view with a fake.
type CartService interface {
	Items(ctx context.Context) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, ebookID int64, qty int) (shopclient.CartItem, error)
	RemoveItem(ctx context.Context, ebookID int64) error
}

// View is a page-local cart snapshot. It is not safe for concurrent use;
// like the rest of the layer it assumes a single caller goroutine.
type View struct {
	cart    CartService
	lines   []domain.CartLine
	pending map[int64]bool
}

// New builds an empty view over the cart service.
func New(cart CartService) *View {
	return &View{cart: cart, pending: make(map[int64]bool)}
}

// Load replaces the snapshot with the server's cart contents.
func (v *View) Load(ctx context.Context) error {
	lines, err := v.cart.Items(ctx)
	if err != nil {
		return err
	}
	v.lines = lines
	v.pending = make(map[int64]bool)
	return nil
}

// Lines returns a copy of the displayed lines.
func (v *View) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(v.lines))
	copy(out, v.lines)
	return out
}

// Increment raises a line's quantity by one, optimistically.
func (v *View) Increment(ctx context.Context, ebookID int64) error {
	idx, err := v.begin(ebookID)
	if err != nil {
		return err
	}
	snapshot := v.Lines()
	qty := v.lines[idx].Quantity + 1
	v.applyQuantity(idx, qty)
	return v.confirmQuantity(ctx, ebookID, qty, snapshot)
}

// Decrement lowers a line's quantity by one. At quantity one the line is
// removed instead; a stored zero never exists.
func (v *View) Decrement(ctx context.Context, ebookID int64) error {
	idx, err := v.begin(ebookID)
	if err != nil {
		return err
	}
	if v.lines[idx].Quantity <= 1 {
		return v.remove(ctx, ebookID, idx)
	}
	snapshot := v.Lines()
	qty := v.lines[idx].Quantity - 1
	v.applyQuantity(idx, qty)
	return v.confirmQuantity(ctx, ebookID, qty, snapshot)
}

// Remove drops a line, optimistically.
func (v *View) Remove(ctx context.Context, ebookID int64) error {
	idx, err := v.begin(ebookID)
	if err != nil {
		return err
	}
	return v.remove(ctx, ebookID, idx)
}

func (v *View) begin(ebookID int64) (int, error) {
	idx := -1
	for i := range v.lines {
		if v.lines[i].EbookID == ebookID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrUnknownLine
	}
	if v.pending[ebookID] {
		return 0, ErrMutationInFlight
	}
	return idx, nil
}

func (v *View) applyQuantity(idx, qty int) {
	v.lines[idx].Quantity = qty
	v.lines[idx].SubTotal = v.lines[idx].Price * int64(qty)
}

func (v *View) confirmQuantity(ctx context.Context, ebookID int64, qty int, snapshot []domain.CartLine) error {
	v.pending[ebookID] = true
	item, err := v.cart.SetQuantity(ctx, ebookID, qty)
	delete(v.pending, ebookID)
	if err != nil {
		return &MutationError{Err: err, Previous: snapshot}
	}
	// The server's quantity is authoritative; reconcile if it disagrees
	// (for example when another client touched the same cart).
	if item.Quantity > 0 && item.Quantity != qty {
		if idx, err := v.begin(ebookID); err == nil {
			v.applyQuantity(idx, item.Quantity)
		}
	}
	return nil
}

func (v *View) remove(ctx context.Context, ebookID int64, idx int) error {
	snapshot := v.Lines()
	v.lines = append(v.lines[:idx], v.lines[idx+1:]...)
	v.pending[ebookID] = true
	err := v.cart.RemoveItem(ctx, ebookID)
	delete(v.pending, ebookID)
	if err != nil {
		return &MutationError{Err: err, Previous: snapshot}
	}
	return nil
}
