package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/publisher"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/repository"
)

// OrderService records paid checkout sessions.
type OrderService struct {
	repo      repository.OrderRepository
	publisher publisher.OrderPublisher
	log       *slog.Logger
}

func NewOrderService(repo repository.OrderRepository, pub publisher.OrderPublisher, log *slog.Logger) *OrderService {
	if pub == nil {
		pub = publisher.Noop{}
	}
	return &OrderService{repo: repo, publisher: pub, log: log}
}

// RecordOrder stores order and announces it. A redelivered session is
// reported through repository.ErrDuplicateSession and not announced again.
func (s *OrderService) RecordOrder(ctx context.Context, order *domain.Order) error {
	if order.CheckoutSessionID == "" {
		return errors.New("order without checkout session id")
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			return err
		}
		return fmt.Errorf("record order for session %s: %w", order.CheckoutSessionID, err)
	}

	s.log.InfoContext(ctx, "order recorded",
		slog.String("order_id", order.ID.String()),
		slog.String("checkout_session_id", order.CheckoutSessionID),
		slog.Int64("amount_total", order.AmountTotal),
		slog.String("currency", order.Currency))

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderRecorded(pubCtx, order); err != nil {
		s.log.WarnContext(ctx, "publish order recorded failed",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()))
	}
	return nil
}

// OrderForSession reports the stored order for a checkout session, if any.
func (s *OrderService) OrderForSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	o, err := s.repo.GetOrderBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) RecentOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
