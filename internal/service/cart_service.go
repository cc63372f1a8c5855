package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/api"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/cart"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
)

// CartAPI is the slice of the backend client the cart store needs.
type CartAPI interface {
	GetCart(ctx context.Context) (*cart.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*cart.Cart, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*cart.Cart, error)
	ClearCart(ctx context.Context) (*cart.Cart, error)
}

// AuthState is the session view the cart store depends on.
type AuthState interface {
	IsAuthenticated() bool
}

// CartService mirrors the server's cart. Local state is always the last
// successful server snapshot, replaced wholesale; totals and counts are
// never recomputed locally.
//
// No ordering is enforced across concurrent mutations: two racing calls
// settle at the transport and the last response to arrive becomes the new
// snapshot (last-write-wins, as the backend contract allows).
type CartService struct {
	api      CartAPI
	session  AuthState
	notifier outbound.Notifier
	history  outbound.HistoryStore // optional, may be nil
	logger   *slog.Logger
	metrics  *api.Metrics // optional, may be nil

	mu       sync.RWMutex
	snapshot *cart.Cart
	inFlight atomic.Int32
}

// NewCartService creates a cart store. history and metrics may be nil.
func NewCartService(cartAPI CartAPI, session AuthState, notifier outbound.Notifier, history outbound.HistoryStore, metrics *api.Metrics, logger *slog.Logger) *CartService {
	return &CartService{
		api:      cartAPI,
		session:  session,
		notifier: notifier,
		history:  history,
		metrics:  metrics,
		logger:   logger,
		snapshot: cart.Empty(),
	}
}

// Refresh fetches the current cart and replaces local state. When no
// session is active it returns nil without any network call, so routine
// refreshes never surface login-prompt errors.
func (s *CartService) Refresh(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	s.begin()
	defer s.end()

	start := time.Now()
	snap, err := s.api.GetCart(ctx)
	s.record(ctx, "cart.refresh", err, time.Since(start))
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}
	s.replace(snap)
	return nil
}

// AddItem posts a new line to the cart. Quantity validity (positive
// integer) is the caller's contract; the server rejects invalid values.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "cart.add", "item added to cart", func(ctx context.Context) (*cart.Cart, error) {
		return s.api.AddItem(ctx, productID, quantity)
	})
}

// UpdateItemQuantity replaces the quantity of a cart line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	return s.mutate(ctx, "cart.update", "cart updated", func(ctx context.Context) (*cart.Cart, error) {
		return s.api.UpdateItem(ctx, itemID, quantity)
	})
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	return s.mutate(ctx, "cart.remove", "item removed from cart", func(ctx context.Context) (*cart.Cart, error) {
		return s.api.RemoveItem(ctx, itemID)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	return s.mutate(ctx, "cart.clear", "cart cleared", func(ctx context.Context) (*cart.Cart, error) {
		return s.api.ClearCart(ctx)
	})
}

// Reset drops local cart state without a network call. Called on logout.
func (s *CartService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = cart.Empty()
}

// Snapshot returns a copy of the current cart snapshot.
func (s *CartService) Snapshot() *cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := *s.snapshot
	snap.Items = make([]cart.Item, len(s.snapshot.Items))
	copy(snap.Items, s.snapshot.Items)
	return &snap
}

// ItemCount returns the server-reported item count of the last snapshot.
func (s *CartService) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ItemCount
}

// InFlight reports whether any cart operation is currently running, for
// callers that disable controls during calls.
func (s *CartService) InFlight() bool {
	return s.inFlight.Load() > 0
}

// mutate is the shared shape of every cart mutation: guard on
// authentication, call the API, replace local state wholesale with the
// server's snapshot, notify; on failure notify with the extracted message
// and return the error. The in-flight flag is always released.
func (s *CartService) mutate(ctx context.Context, op, successMsg string, call func(context.Context) (*cart.Cart, error)) error {
	if !s.session.IsAuthenticated() {
		return api.ErrNotAuthenticated
	}

	s.begin()
	defer s.end()

	start := time.Now()
	snap, err := call(ctx)
	s.record(ctx, op, err, time.Since(start))
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}

	s.replace(snap)
	s.notifier.Success(successMsg)
	return nil
}

// replace installs a server snapshot as the new local state.
func (s *CartService) replace(snap *cart.Cart) {
	if snap == nil {
		snap = cart.Empty()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Fingerprint() != snap.Fingerprint() {
		s.logger.Debug("cart snapshot replaced",
			"items", len(snap.Items), "item_count", snap.ItemCount, "total", snap.Total)
	}
	s.snapshot = snap
}

func (s *CartService) begin() {
	s.inFlight.Add(1)
	if s.metrics != nil {
		s.metrics.CartOpsInFlight.Inc()
	}
}

func (s *CartService) end() {
	s.inFlight.Add(-1)
	if s.metrics != nil {
		s.metrics.CartOpsInFlight.Dec()
	}
}

// record appends an operation outcome to the local history, when enabled.
func (s *CartService) record(ctx context.Context, op string, err error, d time.Duration) {
	if s.history == nil {
		return
	}
	entry := outbound.HistoryEntry{Op: op, Outcome: outbound.OutcomeOK, Duration: d}
	if err != nil {
		entry.Outcome = outbound.OutcomeError
		entry.Detail = api.Message(err)
	}
	if recordErr := s.history.Record(ctx, entry); recordErr != nil {
		s.logger.Warn("failed to record history entry", "op", op, "error", recordErr)
	}
}
