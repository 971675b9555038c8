// Package storefront orchestrates the client-side state of the store: the
// catalog cache, the cart record and its mutator, and the debounced search
// pipeline. It mirrors what the browser page owns in a single-page
// storefront, with the backend remaining authoritative for every collection.
package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/cart"
	"github.com/oakmart/storefront-web/internal/catalog"
	"github.com/oakmart/storefront-web/internal/notice"
	"github.com/oakmart/storefront-web/internal/search"
	"github.com/oakmart/storefront-web/internal/session"
)

const (
	msgLoginToAdd  = "Login to add an item to the Cart"
	msgUnreachable = "Check that the backend is running, reachable and returns valid JSON."
)

// Backend is the remote API surface the app depends on.
type Backend interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	SearchProducts(ctx context.Context, value string) ([]catalog.Product, error)
	Cart(ctx context.Context, token string) ([]cart.Entry, error)
	UpsertCart(ctx context.Context, token, productID string, qty int) ([]cart.Entry, error)
}

// Config tunes the app.
type Config struct {
	// Quiescence is the search debounce window; zero means the default.
	Quiescence time.Duration
}

// App owns the storefront client state and forwards user intents into it.
type App struct {
	backend   Backend
	catalog   *catalog.Cache
	cartState *cart.State
	mutator   *cart.Mutator
	debouncer *search.Debouncer
	notifier  notice.Notifier
	log       *zap.Logger

	// Search responses are applied in issue order: a late-resolving stale
	// response is discarded instead of overwriting a fresher one.
	seqMu   sync.Mutex
	issued  uint64
	applied uint64
}

// New wires an App. The notifier receives notices raised outside a request
// scope (debounced searches fire from a timer); request-scoped operations
// additionally publish to the context notifier when one is attached.
func New(be Backend, cfg Config, notifier notice.Notifier, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notice.Nop
	}

	state := cart.NewState()
	app := &App{
		backend:   be,
		catalog:   catalog.NewCache(),
		cartState: state,
		mutator:   cart.NewMutator(be, state, log.Named("cart")),
		notifier:  notifier,
		log:       log,
	}
	app.debouncer = search.NewDebouncer(cfg.Quiescence, app.fireSearch)
	return app
}

// Mount performs the initial page load: fetch the full catalog, then the
// visitor's cart when a session token exists. Either fetch failing degrades
// to a notice and a consistent (if empty) state.
func (a *App) Mount(ctx context.Context, sess *session.Data) {
	a.refreshCatalog(ctx)
	_ = a.mutator.Refresh(ctx, sess.Token)
}

// QueryChanged coalesces a stream of search-box input; after the quiescence
// window the settled text is searched exactly once.
func (a *App) QueryChanged(text string) {
	a.debouncer.QueryChanged(text)
}

// fireSearch runs on debounce expiry, outside any request scope.
func (a *App) fireSearch(text string) {
	ctx := notice.NewContext(context.Background(), a.notifier)
	a.Search(ctx, text)
}

// Search resolves the query against the backend and updates the displayed
// catalog. Empty text reverts to the full unfiltered catalog. An empty
// result is a distinct "no products found" state, not an error; a transport
// or server failure leaves the previously displayed listing untouched.
func (a *App) Search(ctx context.Context, text string) {
	if text == "" {
		a.refreshCatalog(ctx)
		return
	}

	seq := a.nextSeq()
	products, err := a.backend.SearchProducts(ctx, text)
	if err != nil {
		a.log.Warn("search failed", zap.String("value", text), zap.Error(err))
		if rejection, ok := backend.AsRejection(err); ok {
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgUnreachable)
		}
		return
	}
	if !a.claimSeq(seq) {
		a.log.Debug("discarding stale search response", zap.String("value", text))
		return
	}
	if len(products) == 0 {
		a.catalog.MarkNoMatches()
		return
	}
	a.catalog.ReplaceDisplayed(products)
}

// refreshCatalog fetches the unfiltered catalog and treats the result as
// authoritative for both cache views.
func (a *App) refreshCatalog(ctx context.Context) {
	seq := a.nextSeq()
	products, err := a.backend.Products(ctx)
	if err != nil {
		a.log.Warn("catalog fetch failed", zap.Error(err))
		if rejection, ok := backend.AsRejection(err); ok {
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgUnreachable)
		}
		return
	}
	if !a.claimSeq(seq) {
		return
	}
	a.catalog.ReplaceAll(products)
}

// AddToCart handles the product card's add button: a fresh add of quantity
// one, refused locally when the product is already in the cart or when the
// visitor is signed out.
func (a *App) AddToCart(ctx context.Context, sess *session.Data, productID string) error {
	if !sess.SignedIn() {
		notice.Publish(ctx, notice.ToneWarning, msgLoginToAdd)
		return nil
	}
	err := a.mutator.AddOrUpdate(ctx, sess.Token, productID, 1, cart.Options{PreventDuplicate: true})
	if err != nil && !cart.IsDuplicate(err) {
		return err
	}
	return nil
}

// ChangeQuantity handles the cart sidebar's plus/minus stepper: the target
// quantity is the currently recorded quantity plus delta. A decrement to
// zero passes through; the backend interprets it as removal.
func (a *App) ChangeQuantity(ctx context.Context, sess *session.Data, productID string, delta int) error {
	if !sess.SignedIn() {
		notice.Publish(ctx, notice.ToneWarning, msgLoginToAdd)
		return nil
	}
	qty := a.cartState.Qty(productID) + delta
	return a.mutator.AddOrUpdate(ctx, sess.Token, productID, qty, cart.Options{})
}

// RefreshCart re-fetches the cart record for the given session.
func (a *App) RefreshCart(ctx context.Context, sess *session.Data) {
	_ = a.mutator.Refresh(ctx, sess.Token)
}

// Snapshot is a derived view of the current state. It is recomputed on every
// call; nothing in it is cached independently of its inputs.
type Snapshot struct {
	Products   []catalog.Product
	NoMatches  bool
	Items      []cart.Item
	TotalValue float64
	TotalItems int
	CartKnown  bool
}

// Snapshot reconciles the cart against the full catalog and returns the
// displayed listing alongside it.
func (a *App) Snapshot() Snapshot {
	entries, known := a.cartState.Entries()
	items := cart.Reconcile(entries, a.catalog.All())
	return Snapshot{
		Products:   a.catalog.Displayed(),
		NoMatches:  a.catalog.NoMatches(),
		Items:      items,
		TotalValue: cart.TotalValue(items),
		TotalItems: cart.TotalItems(items),
		CartKnown:  known,
	}
}

// Close cancels any pending debounce timer.
func (a *App) Close() {
	a.debouncer.Stop()
}

func (a *App) nextSeq() uint64 {
	a.seqMu.Lock()
	defer a.seqMu.Unlock()
	a.issued++
	return a.issued
}

// claimSeq reports whether a response with the given sequence number is
// still the freshest and records it as applied.
func (a *App) claimSeq(seq uint64) bool {
	a.seqMu.Lock()
	defer a.seqMu.Unlock()
	if seq <= a.applied {
		return false
	}
	a.applied = seq
	return true
}
