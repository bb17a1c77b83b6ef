package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dukerupert/megapdv/internal/cart"
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/events"
	"github.com/dukerupert/megapdv/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionState is the position of a checkout session in its lifecycle.
type SessionState string

const (
	StateEmpty      SessionState = "empty"
	StateBuilding   SessionState = "building"
	StateReadyToPay SessionState = "ready_to_pay"
	StatePaid       SessionState = "paid"
)

const publishTimeout = 5 * time.Second

// CheckoutService runs register sessions. Each session owns one cart ledger
// and belongs to the cashier that started it; other users see
// ErrSessionNotFound.
type CheckoutService interface {
	StartSession(ctx context.Context, cashier domain.User) (*CheckoutSession, error)
	GetSession(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error)
	ListSessions(ctx context.Context, cashier domain.User) ([]CheckoutSession, error)

	// AbandonSession discards the session and its cart without a sale
	AbandonSession(ctx context.Context, cashier domain.User, sessionID string) error

	// AddItem rings up one unit of a product; products without stock are rejected
	AddItem(ctx context.Context, cashier domain.User, sessionID, productID string) (*CheckoutSession, error)
	RemoveItem(ctx context.Context, cashier domain.User, sessionID, productID string) (*CheckoutSession, error)
	UpdateQuantity(ctx context.Context, cashier domain.User, sessionID, productID string, quantity int) (*CheckoutSession, error)
	ApplyItemDiscount(ctx context.Context, cashier domain.User, sessionID, productID string, discount decimal.Decimal) (*CheckoutSession, error)
	SetGlobalDiscount(ctx context.Context, cashier domain.User, sessionID string, amount decimal.Decimal) (*CheckoutSession, error)
	ClearCart(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error)

	// BeginPayment moves a non-empty cart to ready_to_pay
	BeginPayment(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error)

	// CancelPayment returns a ready_to_pay session to building
	CancelPayment(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error)

	// Finalize records the cart as a sale paid with method and clears the cart.
	// Rejections leave the cart, the session and the history untouched.
	Finalize(ctx context.Context, cashier domain.User, sessionID, method string) (*domain.Sale, error)

	// PruneIdle abandons sessions not touched for longer than maxIdle
	PruneIdle(ctx context.Context, maxIdle time.Duration) int
}

// CheckoutSession is a snapshot of a session returned after every operation.
type CheckoutSession struct {
	ID          string       `json:"id"`
	State       SessionState `json:"state"`
	CashierID   string       `json:"cashier_id"`
	CashierName string       `json:"cashier_name"`
	Cart        cart.Summary `json:"cart"`
	LastSale    *domain.Sale `json:"last_sale,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type checkoutSession struct {
	mu        sync.Mutex
	id        string
	cashier   domain.User
	state     SessionState
	ledger    *cart.Ledger
	lastSale  *domain.Sale
	startedAt time.Time
	updatedAt time.Time
}

func (s *checkoutSession) view() *CheckoutSession {
	v := &CheckoutSession{
		ID:          s.id,
		State:       s.state,
		CashierID:   s.cashier.ID,
		CashierName: s.cashier.Name,
		Cart:        s.ledger.Summary(),
		StartedAt:   s.startedAt,
		UpdatedAt:   s.updatedAt,
	}
	if s.lastSale != nil {
		sale := *s.lastSale
		v.LastSale = &sale
	}
	return v
}

// settle sets the state implied by the ledger after a cart mutation.
func (s *checkoutSession) settle(now time.Time) {
	if s.ledger.IsEmpty() {
		s.state = StateEmpty
	} else {
		s.state = StateBuilding
	}
	s.updatedAt = now
}

type checkoutService struct {
	products  domain.ProductRepository
	sales     domain.SaleRepository
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*checkoutSession
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(
	products domain.ProductRepository,
	sales domain.SaleRepository,
	publisher events.Publisher,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) CheckoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &checkoutService{
		products:  products,
		sales:     sales,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*checkoutSession),
	}
}

func (s *checkoutService) StartSession(ctx context.Context, cashier domain.User) (*CheckoutSession, error) {
	if cashier.ID == "" {
		return nil, domain.Unauthorized("checkout.start", "Authentication required")
	}

	now := s.now()
	sess := &checkoutSession{
		id:        uuid.NewString(),
		cashier:   cashier,
		state:     StateEmpty,
		ledger:    cart.New(),
		startedAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.metrics.RecordSessionStarted()
	s.logger.Debug("checkout session started", "session_id", sess.id, "cashier_id", cashier.ID)

	return sess.view(), nil
}

// lookup returns the session when it exists and belongs to cashier.
func (s *checkoutService) lookup(cashier domain.User, sessionID string) (*checkoutSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || sess.cashier.ID != cashier.ID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// acquire returns the session locked. A session abandoned or pruned while
// the caller waited for its lock is reported as not found; callers must
// unlock sess.mu.
func (s *checkoutService) acquire(cashier domain.User, sessionID string) (*checkoutSession, error) {
	sess, err := s.lookup(cashier, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	s.mu.RLock()
	current := s.sessions[sessionID]
	s.mu.RUnlock()

	if current != sess {
		sess.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// withSession runs fn holding the session lock and returns the resulting view.
func (s *checkoutService) withSession(cashier domain.User, sessionID string, fn func(sess *checkoutSession) error) (*CheckoutSession, error) {
	sess, err := s.acquire(cashier, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *checkoutService) GetSession(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(*checkoutSession) error { return nil })
}

// ListSessions returns the cashier's open sessions, oldest first
func (s *checkoutService) ListSessions(ctx context.Context, cashier domain.User) ([]CheckoutSession, error) {
	s.mu.RLock()
	owned := make([]*checkoutSession, 0)
	for _, sess := range s.sessions {
		if sess.cashier.ID == cashier.ID {
			owned = append(owned, sess)
		}
	}
	s.mu.RUnlock()

	out := make([]CheckoutSession, 0, len(owned))
	for _, sess := range owned {
		sess.mu.Lock()
		out = append(out, *sess.view())
		sess.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *checkoutService) AbandonSession(ctx context.Context, cashier domain.User, sessionID string) error {
	if _, err := s.lookup(cashier, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	s.metrics.RecordSessionAbandoned()
	s.logger.Debug("checkout session abandoned", "session_id", sessionID, "cashier_id", cashier.ID)
	return nil
}

func (s *checkoutService) AddItem(ctx context.Context, cashier domain.User, sessionID, productID string) (*CheckoutSession, error) {
	sess, err := s.acquire(cashier, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.IsOutOfStock() {
		s.metrics.RecordCheckoutRejected("out_of_stock")
		return nil, ErrOutOfStock
	}

	sess.ledger.AddItem(*product)
	sess.settle(s.now())
	s.metrics.RecordCartOperation("add")
	return sess.view(), nil
}

func (s *checkoutService) RemoveItem(ctx context.Context, cashier domain.User, sessionID, productID string) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		sess.ledger.RemoveItem(productID)
		sess.settle(s.now())
		s.metrics.RecordCartOperation("remove")
		return nil
	})
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
// Quantities are not bounded by stock.
func (s *checkoutService) UpdateQuantity(ctx context.Context, cashier domain.User, sessionID, productID string, quantity int) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		sess.ledger.UpdateQuantity(productID, quantity)
		sess.settle(s.now())
		s.metrics.RecordCartOperation("update_quantity")
		return nil
	})
}

func (s *checkoutService) ApplyItemDiscount(ctx context.Context, cashier domain.User, sessionID, productID string, discount decimal.Decimal) (*CheckoutSession, error) {
	if discount.IsNegative() {
		return nil, ErrInvalidDiscount
	}
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		sess.ledger.ApplyItemDiscount(productID, discount)
		sess.settle(s.now())
		s.metrics.RecordCartOperation("item_discount")
		return nil
	})
}

func (s *checkoutService) SetGlobalDiscount(ctx context.Context, cashier domain.User, sessionID string, amount decimal.Decimal) (*CheckoutSession, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidDiscount
	}
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		sess.ledger.SetGlobalDiscount(amount)
		sess.settle(s.now())
		s.metrics.RecordCartOperation("global_discount")
		return nil
	})
}

func (s *checkoutService) ClearCart(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		sess.ledger.Clear()
		sess.settle(s.now())
		s.metrics.RecordCartOperation("clear")
		return nil
	})
}

func (s *checkoutService) BeginPayment(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		if sess.ledger.IsEmpty() {
			s.metrics.RecordCheckoutRejected("empty_cart")
			return ErrEmptyCart
		}
		sess.state = StateReadyToPay
		sess.updatedAt = s.now()
		return nil
	})
}

func (s *checkoutService) CancelPayment(ctx context.Context, cashier domain.User, sessionID string) (*CheckoutSession, error) {
	return s.withSession(cashier, sessionID, func(sess *checkoutSession) error {
		if sess.state != StateReadyToPay {
			return ErrNotReadyToPay
		}
		sess.settle(s.now())
		return nil
	})
}

func (s *checkoutService) Finalize(ctx context.Context, cashier domain.User, sessionID, method string) (*domain.Sale, error) {
	sale, err := s.commitSale(ctx, cashier, sessionID, method)
	if err != nil {
		return nil, err
	}

	// Published without the session lock held.
	s.publish(ctx, *sale)
	return sale, nil
}

// commitSale validates the cart, records the sale and resets the session.
// It returns a copy of the recorded sale.
func (s *checkoutService) commitSale(ctx context.Context, cashier domain.User, sessionID, method string) (*domain.Sale, error) {
	sess, err := s.acquire(cashier, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if sess.ledger.IsEmpty() {
		s.metrics.RecordCheckoutRejected("empty_cart")
		return nil, ErrEmptyCart
	}
	if method == "" {
		s.metrics.RecordCheckoutRejected("payment_method_required")
		return nil, ErrPaymentMethodRequired
	}
	pm, err := domain.ParsePaymentMethod(method)
	if err != nil {
		s.metrics.RecordCheckoutRejected("invalid_payment_method")
		return nil, ErrInvalidPaymentMethod
	}

	summary := sess.ledger.Summary()
	items := make([]domain.SaleItem, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, domain.SaleItem{
			Product:  line.Product,
			Quantity: line.Quantity,
			Discount: line.Discount,
		})
	}

	now := s.now()
	sale := &domain.Sale{
		Items:         items,
		Subtotal:      summary.Subtotal,
		Discount:      summary.Discount,
		Total:         summary.Total,
		PaymentMethod: pm,
		CashierID:     sess.cashier.ID,
		CashierName:   sess.cashier.Name,
		CreatedAt:     now,
	}
	if err := s.sales.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	sess.ledger.Clear()
	sess.state = StatePaid
	sess.lastSale = sale
	sess.updatedAt = now

	s.metrics.RecordSale(*sale)
	telemetry.AddBreadcrumb("checkout", "sale finalized", map[string]interface{}{
		"sale_id":        sale.ID,
		"payment_method": string(sale.PaymentMethod),
		"total":          sale.Total.StringFixed(2),
	})
	s.logger.Info("sale finalized",
		"sale_id", sale.ID,
		"session_id", sess.id,
		"cashier_id", sale.CashierID,
		"payment_method", sale.PaymentMethod,
		"total", sale.Total.StringFixed(2),
		"items", sale.ItemCount(),
	)

	out := *sale
	return &out, nil
}

// publish delivers the sale.completed event. The sale is already committed,
// so failures are logged and counted only.
func (s *checkoutService) publish(ctx context.Context, sale domain.Sale) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.publisher.PublishSaleCompleted(pubCtx, sale)
	s.metrics.RecordEventPublished(events.SubjectSaleCompleted, err)
	if err != nil {
		s.logger.Warn("failed to publish sale event", "sale_id", sale.ID, "error", err)
		telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{"sale_id": sale.ID})
	}
}

func (s *checkoutService) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	// Session locks are never taken while holding s.mu, so one busy
	// register cannot stall lookups for the others.
	s.mu.RLock()
	candidates := make([]*checkoutSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.RUnlock()

	var idle []*checkoutSession
	for _, sess := range candidates {
		sess.mu.Lock()
		if sess.updatedAt.Before(cutoff) {
			idle = append(idle, sess)
		}
		sess.mu.Unlock()
	}

	var stale []string
	s.mu.Lock()
	for _, sess := range idle {
		if s.sessions[sess.id] == sess {
			delete(s.sessions, sess.id)
			stale = append(stale, sess.id)
		}
	}
	s.mu.Unlock()

	for range stale {
		s.metrics.RecordSessionAbandoned()
	}
	if len(stale) > 0 {
		s.logger.Info("pruned idle checkout sessions", "count", len(stale), "max_idle", maxIdle)
	}
	return len(stale)
}
