package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

var _ port.OrderCreator = (*OrderService)(nil)
var _ port.OrderManager = (*OrderService)(nil)

type OrderServiceConfig struct {
	Policy      domain.TransitionPolicy
	VerifyTotal bool
}

type OrderServiceOpt func(*OrderService)

// WithOrderClock replaces the time source used for timestamps.
func WithOrderClock(now func() time.Time) OrderServiceOpt {
	return func(s *OrderService) { s.now = now }
}

// WithOrderIDs replaces the order id generator.
func WithOrderIDs(newID func() string) OrderServiceOpt {
	return func(s *OrderService) { s.newID = newID }
}

type OrderService struct {
	storage     port.OrdersStorage
	events      port.OrderEventsProducer
	policy      domain.TransitionPolicy
	verifyTotal bool
	now         func() time.Time
	newID       func() string
}

// NewOrderService returns the order lifecycle service.
//
// events may be nil, status changes are then not published.
func NewOrderService(
	storage port.OrdersStorage,
	events port.OrderEventsProducer,
	config OrderServiceConfig,
	opts ...OrderServiceOpt,
) OrderService {
	if storage == nil {
		panic("orders storage is nil") // develop mistake
	}

	policy := config.Policy
	if policy == "" {
		policy = domain.StrictTransitions
	}

	s := OrderService{
		storage:     storage,
		events:      events,
		policy:      policy,
		verifyTotal: config.VerifyTotal,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s OrderService) CreateOrder(
	ctx context.Context, draft domain.OrderDraft,
) (domain.Order, bool, error) {
	const op = "OrderService.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, false, fmt.Errorf("%s: %w", op, err)
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return domain.Order{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if s.verifyTotal && !draft.Total.Equal(draft.ItemsTotal()) {
		err := domain.NewValidationError("total", "does not match the item prices")
		return domain.Order{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if draft.IdempotencyKey != "" {
		o, err := s.storage.ReadOrderByIdempotencyKey(ctx, draft.IdempotencyKey)
		switch {
		case err == nil:
			return o, true, nil
		case !errors.Is(err, domain.ErrNotFound):
			return domain.Order{}, false, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := s.timestamp()
	o := domain.Order{
		ID:                s.newID(),
		CustomerName:      draft.CustomerName,
		Phone:             draft.Phone,
		Address:           draft.Address,
		Items:             draft.Items,
		Total:             draft.Total,
		PaymentScreenshot: draft.PaymentScreenshot,
		Status:            domain.OrderStatusPending,
		Notes:             draft.Notes,
		IdempotencyKey:    draft.IdempotencyKey,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := s.storage.StoreOrder(ctx, o)
	if err == nil {
		return o, false, nil
	}

	if errors.Is(err, domain.ErrConflict) && o.IdempotencyKey != "" {
		stored, readErr := s.storage.ReadOrderByIdempotencyKey(ctx, o.IdempotencyKey)
		if readErr != nil {
			return domain.Order{}, false, fmt.Errorf("%s: %w", op, readErr)
		}
		return stored, true, nil
	}
	return domain.Order{}, false, fmt.Errorf("%s: %w", op, err)
}

func (s OrderService) ListOrders(
	ctx context.Context, filter domain.OrderFilter,
) ([]domain.Order, error) {
	const op = "OrderService.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if filter.Status != "" && !filter.Status.Valid() {
		_, err := domain.ParseOrderStatus(string(filter.Status))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.storage.ReadOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "OrderService.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.storage.ReadOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// maxChangeAttempts bounds how often a status change is re-checked after
// the order moved under it.
const maxChangeAttempts = 3

// ChangeOrder applies an admin change to the status and/or notes.
//
// The status change is checked against the transition policy. Under a
// policy other than permissive the write only lands while the order is
// still in the status it was checked from. Otherwise concurrent changes
// to the same order are last-write-wins.
func (s OrderService) ChangeOrder(
	ctx context.Context, id string, change domain.OrderChange,
) (domain.Order, error) {
	const op = "OrderService.ChangeOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if change.Empty() {
		err := domain.NewValidationError("status", "is required")
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if change.Status != nil && !change.Status.Valid() {
		_, err := domain.ParseOrderStatus(string(*change.Status))
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	var (
		current, updated domain.Order
		err              error
	)
	for attempt := 1; ; attempt++ {
		current, err = s.storage.ReadOrder(ctx, id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}

		var expected domain.OrderStatus
		if change.Status != nil {
			if err := s.policy.Check(current.Status, *change.Status); err != nil {
				return domain.Order{}, fmt.Errorf("%s: %w", op, err)
			}
			if s.policy != domain.PermissiveTransitions {
				expected = current.Status
			}
		}

		updated, err = s.storage.UpdateOrder(ctx, id, expected, change, s.timestamp())
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == maxChangeAttempts {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Warn("order changed concurrently, checking again",
			"orderID", id, "attempt", attempt)
	}

	if change.Status != nil && current.Status != updated.Status {
		s.publishStatusChanged(ctx, current.Status, updated)
		log.Info("order status changed",
			"orderID", id, "from", current.Status, "to", updated.Status)
	}

	return updated, nil
}

func (s OrderService) DeleteOrder(ctx context.Context, id string) error {
	const op = "OrderService.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s OrderService) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	const op = "OrderService.OrderStats"

	if err := ctx.Err(); err != nil {
		return domain.OrderStats{}, fmt.Errorf("%s: %w", op, err)
	}

	stats, err := s.storage.ReadOrderStats(ctx)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

func (s OrderService) publishStatusChanged(
	ctx context.Context, previous domain.OrderStatus, o domain.Order,
) {
	const op = "OrderService.publishStatusChanged"

	if s.events == nil {
		return
	}

	evt := domain.OrderStatusChanged{
		OrderID:        o.ID,
		PreviousStatus: previous,
		Status:         o.Status,
		ChangedAt:      o.UpdatedAt,
	}
	if err := s.events.ProduceStatusChanged(ctx, evt); err != nil {
		slog.Error("failed to publish status change",
			"op", op, "orderID", o.ID, "err", err)
	}
}

// timestamp is millisecond precision so both storage backends round-trip it.
func (s OrderService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
