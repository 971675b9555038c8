package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/notice"
)

// ErrDuplicateItem is returned when a duplicate-preventing add finds the
// product already in the cart. It is a validation refusal, not a failure:
// no network call was made and the caller already has what it needs.
var ErrDuplicateItem = errors.New("cart: item already present")

// IsDuplicate reports whether err is a duplicate-add refusal.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateItem)
}

const (
	msgDuplicateItem = "Item already in cart. Use the cart sidebar to update quantity or remove item."
	msgUnreachable   = "Check that the backend is running, reachable and returns valid JSON."
	msgCartFetch     = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
)

// Writer is the backend surface the mutator depends on.
type Writer interface {
	Cart(ctx context.Context, token string) ([]Entry, error)
	UpsertCart(ctx context.Context, token, productID string, qty int) ([]Entry, error)
}

// Options controls a single add-or-update operation.
type Options struct {
	// PreventDuplicate refuses the write locally when the product already
	// has a cart entry. Used by fresh adds; quantity updates leave it unset.
	PreventDuplicate bool
}

// Mutator persists cart changes remotely before reflecting them locally. On
// a successful write the local record is replaced wholesale with the
// backend's returned state, so it can never diverge from server truth; on
// failure the record is left untouched.
type Mutator struct {
	writer Writer
	state  *State
	log    *zap.Logger
}

// NewMutator wires a Mutator. A nil logger is replaced with a no-op.
func NewMutator(writer Writer, state *State, log *zap.Logger) *Mutator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mutator{writer: writer, state: state, log: log}
}

// AddOrUpdate sets the cart quantity for a product. The caller supplies the
// target quantity: 1 for a fresh add, or the displayed quantity plus or minus
// one for the stepper buttons. A quantity of zero is passed through; the
// backend decides that it means removal. Callers without a session token must
// be rejected before this point.
func (m *Mutator) AddOrUpdate(ctx context.Context, token, productID string, qty int, opts Options) error {
	if opts.PreventDuplicate && m.state.Contains(productID) {
		notice.Publish(ctx, notice.ToneWarning, msgDuplicateItem)
		return fmt.Errorf("%w: %s", ErrDuplicateItem, productID)
	}

	entries, err := m.writer.UpsertCart(ctx, token, productID, qty)
	if err != nil {
		m.log.Warn("cart write failed",
			zap.String("productId", productID),
			zap.Int("qty", qty),
			zap.Error(err))
		if rejection, ok := backend.AsRejection(err); ok {
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgUnreachable)
		}
		return err
	}

	m.state.Replace(entries)
	return nil
}

// Refresh fetches the cart record and replaces the local copy wholesale.
// Without a token it is a no-op, not an error. On any failure the record is
// invalidated: unknown rather than empty.
func (m *Mutator) Refresh(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	entries, err := m.writer.Cart(ctx, token)
	if err != nil {
		m.log.Warn("cart fetch failed", zap.Error(err))
		if backend.IsClientRejection(err) {
			rejection, _ := backend.AsRejection(err)
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgCartFetch)
		}
		m.state.Invalidate()
		return err
	}

	m.state.Replace(entries)
	return nil
}
