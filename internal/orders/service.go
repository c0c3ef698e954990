package orders

import (
	"context"
	"time"

	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/events"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultDeliveryWindow = 30 * time.Minute

type Options struct {
	DeliveryFee    decimal.Decimal
	DeliveryWindow time.Duration
	Producer       string
	Now            func() time.Time
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *zap.Logger
	fee       decimal.Decimal
	window    time.Duration
	producer  string
	now       func() time.Time
}

func NewService(repo Repository, pub events.Publisher, logger *zap.Logger, opts Options) *Service {
	s := &Service{
		repo:      repo,
		publisher: pub,
		logger:    logger,
		fee:       opts.DeliveryFee,
		window:    opts.DeliveryWindow,
		producer:  opts.Producer,
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.window <= 0 {
		s.window = DefaultDeliveryWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// Checkout places the session's cart as an order. The ordered lines leave
// the cart only after the order write succeeds; a failed write leaves it as
// it was.
func (s *Service) Checkout(ctx context.Context, sess *cart.Session, req CheckoutRequest) (*Order, error) {
	snapshot := sess.Cart()
	o, err := BuildOrder(snapshot, req.ShippingAddress, req.PaymentMethod, sess.UserID(), s.fee, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("order write failed", zap.String("user_id", o.UserID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("total", o.TotalPrice.StringFixed(2)),
	)

	// The order is stored; a failed cart update is logged, not returned.
	if _, err := sess.Deduct(ctx, snapshot.Items); err != nil {
		s.logger.Warn("cart not cleared after checkout", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.publishCreated(ctx, o)
	return o, nil
}

func (s *Service) publishCreated(ctx context.Context, o *Order) {
	env, err := events.New(EventOrderCreated, s.producer, o.ID, createdPayload(o))
	if err != nil {
		s.logger.Warn("order event not built", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, TopicOrderCreated, PartitionKey(o.ID), env); err != nil {
		s.logger.Warn("order event not published", zap.String("order_id", o.ID), zap.Error(err))
	}
}

// ListAll marks overdue orders delivered, then returns every order with its
// customer attached.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	if err := s.sweep(ctx, ""); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Query{WithCustomer: true})
}

// ListForUser marks the user's overdue orders delivered, then returns them.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	if err := s.sweep(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Query{UserID: userID})
}

// Get returns one order, marking it delivered first when it is overdue.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.DueForDelivery(s.now(), s.window) {
		if err := s.sweep(ctx, o.UserID); err != nil {
			return nil, err
		}
		o.IsDelivered = true
	}
	return o, nil
}

// sweep runs before every listing; there is no background timer, so an
// order only shows as delivered once some listing has been read.
func (s *Service) sweep(ctx context.Context, userID string) error {
	n, err := s.repo.MarkDelivered(ctx, userID, s.now().Add(-s.window))
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("orders marked delivered", zap.Int64("count", n), zap.String("user_id", userID))
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.Revenue(ctx)
}
