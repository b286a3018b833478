package payment

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmlink/farm-market-backend/internal/cart"
	"github.com/farmlink/farm-market-backend/internal/metrics"
	"github.com/farmlink/farm-market-backend/internal/order"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "payment").Logger()

var (
	// ErrPaymentFailed marks provider-side failures so the client can offer
	// "retry payment or switch to cash on delivery" instead of a generic
	// order error.
	ErrPaymentFailed = errors.New("payment session could not be created")

	ErrEmptyCart = errors.New("cart is empty")
)

// sessionTimeout bounds the wait on the external session-creation call.
const sessionTimeout = 15 * time.Second

type Service struct {
	provider   Provider
	orders     order.Repository
	reconciler *order.Reconciler
	carts      cart.ServiceInterface
	cache      SessionCache
	metrics    *metrics.Metrics

	successURL string
	cancelURL  string
}

func NewService(provider Provider, orders order.Repository, reconciler *order.Reconciler, carts cart.ServiceInterface, cache SessionCache, m *metrics.Metrics) *Service {
	return &Service{
		provider:   provider,
		orders:     orders,
		reconciler: reconciler,
		carts:      carts,
		cache:      cache,
		metrics:    m,
		successURL: os.Getenv("PAYMENT_SUCCESS_URL"),
		cancelURL:  os.Getenv("PAYMENT_CANCEL_URL"),
	}
}

// CreateSession snapshots the cart into session metadata and asks the
// provider for a hosted checkout URL. Product ids travel in the metadata so
// verification never has to guess products from line descriptions.
func (s *Service) CreateSession(ctx context.Context, userID int, input order.CheckoutInput) (Session, error) {
	if err := input.Shipping.Validate(); err != nil {
		return Session{}, err
	}
	if input.PaymentMethod != order.PaymentCreditCard && input.PaymentMethod != order.PaymentStripe {
		return Session{}, errors.New("payment method does not use a checkout session")
	}

	crt, err := s.carts.GetCart(userID)
	if err != nil {
		return Session{}, err
	}
	if len(crt.Items) == 0 {
		return Session{}, ErrEmptyCart
	}

	lines := make([]order.Line, 0, len(crt.Items))
	for _, item := range crt.Items {
		lines = append(lines, order.Line{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()

	session, err := s.provider.CreateSession(ctx, CreateSessionRequest{
		Amount:     order.LineTotal(lines),
		Currency:   "usd",
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata: SessionMetadata{
			UserID:        userID,
			PaymentMethod: input.PaymentMethod,
			Shipping:      input.Shipping,
			TotalAmount:   order.LineTotal(lines),
			Lines:         lines,
		},
	})
	if err != nil {
		logger.Error().Int("user_id", userID).Err(err).Msg("payment session creation failed")
		return Session{}, ErrPaymentFailed
	}
	return session, nil
}

type VerifyResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
}

// Verify confirms a completed payment and materializes the order. It runs
// out-of-band from the checkout flow and must be safe against redelivered
// confirmations: a session that already produced an order resolves to the
// same order id instead of creating a second one.
func (s *Service) Verify(ctx context.Context, sessionID string) (VerifyResult, error) {
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		s.metrics.PaymentVerification("provider_error")
		return VerifyResult{}, err
	}

	// an order must never be materialized for an unconfirmed payment
	if session.PaymentStatus != SessionPaid {
		s.metrics.PaymentVerification("unpaid")
		return VerifyResult{Success: false}, nil
	}

	if existing := s.lookupExisting(ctx, sessionID); existing != "" {
		s.metrics.PaymentVerification("duplicate")
		return VerifyResult{Success: true, OrderID: existing}, nil
	}

	meta := session.Metadata
	items := s.reconciler.Resolve(meta.Lines)

	created, err := s.orders.Create(order.Order{
		ID:               uuid.New().String(),
		UserID:           meta.UserID,
		Status:           order.StatusPaid,
		TotalAmount:      meta.TotalAmount,
		Shipping:         meta.Shipping,
		PaymentMethod:    meta.PaymentMethod,
		PaymentSessionID: &sessionID,
	}, items)
	if err != nil {
		// a racing verification may have created the order first; fall back
		// to the session lookup before giving up
		if existing, lookupErr := s.orders.GetBySessionID(sessionID); lookupErr == nil {
			s.metrics.PaymentVerification("duplicate")
			return VerifyResult{Success: true, OrderID: existing.ID}, nil
		}
		s.metrics.PaymentVerification("error")
		return VerifyResult{}, err
	}

	// the buyer has been charged: from here every failure degrades instead
	// of unwinding the order
	if err := s.carts.ClearCart(meta.UserID); err != nil {
		logger.Warn().Int("user_id", meta.UserID).Err(err).Msg("could not clear cart after payment")
	}

	if s.cache != nil {
		if err := s.cache.SetOrderID(ctx, sessionID, created.ID); err != nil {
			logger.Warn().Str("session_id", sessionID).Err(err).Msg("could not cache session order")
		}
	}

	s.metrics.PaymentVerification("paid")
	s.metrics.OrderCreated(meta.PaymentMethod)
	return VerifyResult{Success: true, OrderID: created.ID}, nil
}

func (s *Service) lookupExisting(ctx context.Context, sessionID string) string {
	if s.cache != nil {
		if orderID, err := s.cache.GetOrderID(ctx, sessionID); err == nil && orderID != "" {
			return orderID
		}
	}
	if existing, err := s.orders.GetBySessionID(sessionID); err == nil {
		return existing.ID
	}
	return ""
}
