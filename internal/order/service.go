package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farmlink/farm-market-backend/internal/cart"
	"github.com/farmlink/farm-market-backend/internal/events"
	"github.com/farmlink/farm-market-backend/internal/metrics"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrUnknownAction = errors.New("unknown order action")
	ErrNotYourOrder  = errors.New("order has no items belonging to this farmer")
)

// Publisher matches the events.Producer surface; nil-able so the service
// works without a broker configured.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service struct {
	repo       Repository
	reconciler *Reconciler
	carts      cart.ServiceInterface
	producer   Publisher
	metrics    *metrics.Metrics
}

func NewService(repo Repository, reconciler *Reconciler, carts cart.ServiceInterface, producer Publisher, m *metrics.Metrics) *Service {
	return &Service{repo: repo, reconciler: reconciler, carts: carts, producer: producer, metrics: m}
}

// CheckoutInput is the shipping/payment form submission.
type CheckoutInput struct {
	Shipping      ShippingAddress `json:"shippingAddress"`
	PaymentMethod string          `json:"paymentMethod"`
}

// CartLines snapshots the user's cart as order lines, pricing each line from
// the cart (buyer-cart price), and returns them with the computed total.
func (s *Service) CartLines(userID int) ([]Line, error) {
	crt, err := s.carts.GetCart(userID)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(crt.Items))
	for _, item := range crt.Items {
		lines = append(lines, Line{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return lines, nil
}

// Checkout handles the cash-on-delivery path: validate, snapshot the cart,
// create the order with all items in one transaction, then clear the cart.
// The cart is only cleared after the order exists, so any failure leaves it
// intact for a retry.
func (s *Service) Checkout(ctx context.Context, userID int, input CheckoutInput) (Order, error) {
	if userID <= 0 {
		return Order{}, errors.New("invalid user")
	}
	if !ValidPaymentMethod(input.PaymentMethod) {
		return Order{}, errors.New("unknown payment method")
	}
	if err := input.Shipping.Validate(); err != nil {
		return Order{}, err
	}

	lines, err := s.CartLines(userID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	items := s.reconciler.Resolve(lines)
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	created, err := s.repo.Create(Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Status:        StatusPending,
		TotalAmount:   LineTotal(lines),
		Shipping:      input.Shipping,
		PaymentMethod: input.PaymentMethod,
	}, items)
	if err != nil {
		return Order{}, err
	}

	if err := s.carts.ClearCart(userID); err != nil {
		logger.Warn().Int("user_id", userID).Err(err).Msg("could not clear cart after checkout")
	}

	s.metrics.OrderCreated(created.PaymentMethod)
	s.publish(ctx, created, "Order placed")
	return created, nil
}

func (s *Service) GetOrder(id string) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListForUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListForFarmer(farmerID int) ([]Order, error) {
	return s.repo.ListByFarmer(farmerID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// ApplyAction performs a farmer workflow action (accept, reject, ship,
// deliver) on an order. Farmers may only act on orders that contain at
// least one of their items; admins may act on any order. The returned order
// is scoped to the acting farmer's items.
func (s *Service) ApplyAction(ctx context.Context, orderID string, farmerID int, admin bool, action string) (Order, string, error) {
	target, ok := actionTargets[action]
	if !ok {
		return Order{}, "", ErrUnknownAction
	}

	if !admin {
		current, err := s.repo.GetByID(orderID)
		if err != nil {
			return Order{}, "", err
		}
		if !ownsItems(current, farmerID) {
			return Order{}, "", ErrNotYourOrder
		}
	}

	updated, err := s.repo.UpdateStatus(orderID, target)
	if err != nil {
		return Order{}, "", err
	}

	s.metrics.StatusTransition(string(target))
	message := statusMessages[target]
	s.publish(ctx, updated, message)

	if !admin {
		updated = filterItems(updated, farmerID)
	}
	return updated, message, nil
}

func ownsItems(ord Order, farmerID int) bool {
	for _, item := range ord.Items {
		if item.FarmerID == farmerID {
			return true
		}
	}
	return false
}

func filterItems(ord Order, farmerID int) Order {
	mine := make([]Item, 0, len(ord.Items))
	for _, item := range ord.Items {
		if item.FarmerID == farmerID {
			mine = append(mine, item)
		}
	}
	ord.Items = mine
	return ord
}

func (s *Service) publish(ctx context.Context, ord Order, message string) {
	if s.producer == nil {
		return
	}
	event := events.OrderEvent{
		OrderID:    ord.ID,
		UserID:     ord.UserID,
		Status:     string(ord.Status),
		Message:    message,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.producer.Publish(ctx, ord.ID, event); err != nil {
		logger.Warn().Str("order_id", ord.ID).Err(err).Msg("could not publish order event")
	}
}
