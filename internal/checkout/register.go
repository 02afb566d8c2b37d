// Package checkout runs one register session: building the cart and settling it
// into a recorded transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"regi/m/domain"
	"regi/m/internal/cart"
	"regi/m/internal/receipt"
)

// InsufficientPaymentMessage is shown to the operator when the payment is short.
const InsufficientPaymentMessage = "支払い金額が不足しています。"

// Recorder persists settled transactions.
type Recorder interface {
	Record(ctx context.Context, tx domain.Transaction) error
}

// State is the register's settlement state.
type State string

const (
	// StateOpen accepts cart changes and payments.
	StateOpen State = "open"
	// StateClosed holds a sale whose detailed rows were recorded but whose
	// summary was not. Only Finalize is accepted until it settles.
	StateClosed State = "closed"
)

// Result is what the operator sees after a successful payment.
type Result struct {
	Cart        cart.Display       `json:"cart"`
	Change      string             `json:"change"`
	Receipt     string             `json:"receipt"`
	Transaction domain.Transaction `json:"transaction"`
}

// Register owns the session cart and the transaction counter. All methods are
// safe for concurrent use; calls are serialised.
type Register struct {
	mu       sync.Mutex
	cart     *cart.Cart
	counter  *Counter
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
	state    State
	pending  domain.Transaction
}

// Option configures a Register.
type Option func(*Register)

// WithClock replaces time.Now as the transaction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Register) { r.now = now }
}

// WithCounter sets the counter the register draws transaction ids from.
func WithCounter(c *Counter) Option {
	return func(r *Register) { r.counter = c }
}

// NewRegister returns an open register with an empty cart and the counter at 1.
func NewRegister(catalog cart.Catalog, recorder Recorder, logger *zap.Logger, opts ...Option) *Register {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Register{
		cart:     cart.New(catalog),
		counter:  NewCounter(),
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		state:    StateOpen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddToCart appends a line for the named product.
func (r *Register) AddToCart(name string, quantity int64) (cart.Display, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateClosed {
		return r.cart.Display(), domain.ErrSettlementPending
	}

	item, err := r.cart.Add(name, quantity)
	if err != nil {
		r.logger.Debug("add to cart rejected", zap.String("product", name), zap.Int64("quantity", quantity), zap.Error(err))
		return r.cart.Display(), err
	}
	r.logger.Debug("added to cart", zap.String("line_id", item.ID), zap.String("product", name), zap.Int64("quantity", quantity))
	return r.cart.Display(), nil
}

// RemoveFromCart removes the line with id. Unknown ids leave the cart unchanged.
func (r *Register) RemoveFromCart(id string) (cart.Display, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateClosed {
		return r.cart.Display(), domain.ErrSettlementPending
	}
	r.cart.Remove(id)
	return r.cart.Display(), nil
}

// RemoveFromCartByLabel removes the first line displayed as label.
func (r *Register) RemoveFromCartByLabel(label string) (cart.Display, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateClosed {
		return r.cart.Display(), domain.ErrSettlementPending
	}
	r.cart.RemoveByLabel(label)
	return r.cart.Display(), nil
}

// Cart returns the current cart display.
func (r *Register) Cart() cart.Display {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Display()
}

// NextTransactionID is the id the next successful payment will receive.
func (r *Register) NextTransactionID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter.Current()
}

// State reports whether the register is waiting to settle a partially recorded sale.
func (r *Register) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Finalize settles the cart against payment. On any error the cart and the
// transaction counter are left as they were. After a partial write the
// register closes and the next Finalize retries the same transaction id,
// items and timestamp.
func (r *Register) Finalize(ctx context.Context, payment decimal.Decimal) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.IsNegative() {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrInvalidPayment, payment)
	}
	if r.cart.Len() == 0 {
		return Result{}, domain.ErrEmptyCart
	}
	total := r.cart.Total()
	if payment.LessThan(total) {
		r.logger.Info("payment refused",
			zap.String("total", total.String()),
			zap.String("payment", payment.String()))
		return Result{}, fmt.Errorf("%w: total %s, paid %s", domain.ErrInsufficientPayment, total, payment)
	}

	tx := domain.Transaction{
		ID:        r.counter.Current(),
		Items:     r.cart.Items(),
		Total:     total,
		Payment:   payment,
		Change:    payment.Sub(total),
		Timestamp: r.now(),
	}
	if r.state == StateClosed {
		tx.Items = r.pending.Items
		tx.Timestamp = r.pending.Timestamp
	}

	if err := r.recorder.Record(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrPartialWrite) {
			r.state = StateClosed
			r.pending = tx
		}
		r.logger.Error("sale not recorded, cart kept",
			zap.Int64("transaction_id", tx.ID),
			zap.String("total", tx.Total.String()),
			zap.Int("items", len(tx.Items)),
			zap.String("state", string(r.state)),
			zap.Error(err))
		return Result{}, fmt.Errorf("record transaction %d: %w", tx.ID, err)
	}

	text := receipt.Generate(tx)
	r.counter.Advance()
	r.cart.Reset()
	r.state = StateOpen
	r.pending = domain.Transaction{}

	r.logger.Info("transaction finalized",
		zap.Int64("transaction_id", tx.ID),
		zap.String("total", tx.Total.String()),
		zap.String("payment", tx.Payment.String()),
		zap.String("change", tx.Change.String()),
		zap.Int("items", len(tx.Items)))

	return Result{
		Cart:        r.cart.Display(),
		Change:      "おつり: " + cart.Yen(tx.Change),
		Receipt:     text,
		Transaction: tx,
	}, nil
}
