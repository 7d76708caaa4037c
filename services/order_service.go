package services

import (
	"context"
	"strings"
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	DB        *gorm.DB
	OrderRepo *repository.OrderRepository
	CartRepo  *repository.CartRepository
	locks     *DeviceLocks
	notify    Notifier
	now       func() time.Time
	log       *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	or *repository.OrderRepository,
	cr *repository.CartRepository,
	locks *DeviceLocks,
	notify Notifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		DB: db, OrderRepo: or, CartRepo: cr,
		locks: locks, notify: notifierOrNop(notify), now: time.Now, log: log,
	}
}

// Caller identifies who is acting: always a device, and the signed-in user
// when there is one.
type Caller struct {
	DeviceKey string
	UserID    string
}

func (c Caller) scope() repository.OrderScope {
	return repository.OrderScope{OwnerKey: c.DeviceKey, UserID: c.UserID}
}

type CreateOrderIn struct {
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	OrderType       entity.OrderType `json:"orderType"`
	DeliveryAddress *string          `json:"deliveryAddress"`
	Notes           *string          `json:"notes"`
}

// CreateOrder snapshots the caller's cart into a new order and empties the
// cart, all in one transaction under the device lock. Nothing changes when
// it fails.
func (s *OrderService) CreateOrder(ctx context.Context, caller Caller, in CreateOrderIn) (*entity.Order, error) {
	unlock := s.locks.Lock(caller.DeviceKey)
	defer unlock()

	var order *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.CartRepo.Get(tx, caller.DeviceKey)
		if err != nil {
			return internal("load cart", err)
		}
		if cart.IsEmpty() {
			return validation(CodeEmptyCart, ErrMsgEmptyCart)
		}
		name := strings.TrimSpace(in.CustomerName)
		phone := strings.TrimSpace(in.CustomerPhone)
		if name == "" || phone == "" {
			return validation(CodeMissingCustomer, ErrMsgMissingCustomer)
		}
		orderType := entity.OrderType(strings.ToUpper(strings.TrimSpace(string(in.OrderType))))
		if !orderType.Valid() {
			return validation(CodeInvalidOrderType, ErrMsgInvalidOrderType)
		}

		o := &entity.Order{
			ID:              uuid.NewString(),
			OwnerKey:        caller.DeviceKey,
			Lines:           cart.Snapshot(),
			Total:           cart.Total(),
			CustomerName:    name,
			CustomerPhone:   phone,
			OrderType:       orderType,
			DeliveryAddress: trimmedOrNil(in.DeliveryAddress),
			Notes:           trimmedOrNil(in.Notes),
			CreatedAt:       s.now(),
		}
		if caller.UserID != "" {
			uid := caller.UserID
			o.UserID = &uid
		}
		if err := s.OrderRepo.Create(tx, o); err != nil {
			return internal("save order", err)
		}
		if err := s.CartRepo.ClearCart(tx, caller.DeviceKey); err != nil {
			return internal("clear cart", err)
		}
		order = o
		return nil
	})
	if err != nil {
		if IsValidation(err) {
			s.log.Info("order rejected", zap.String("device", caller.DeviceKey), zap.String("code", CodeOf(err)))
		} else {
			s.log.Error("create order failed", zap.String("device", caller.DeviceKey), zap.Error(err))
		}
		return nil, asServiceError("create order", err)
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("device", caller.DeviceKey),
		zap.String("user_id", caller.UserID),
		zap.String("total", order.Total.String()),
	)
	s.notify.Publish(caller.DeviceKey, Event{Type: EventOrderCreated, Data: order})
	s.notify.Publish(caller.DeviceKey, Event{Type: EventCartUpdated, Data: CartSummary{Lines: []entity.CartLine{}}})
	return order, nil
}

// ListOrders returns the caller's orders oldest first.
func (s *OrderService) ListOrders(ctx context.Context, caller Caller) ([]entity.Order, error) {
	out, err := s.OrderRepo.List(ctx, caller.scope(), false)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return out, nil
}

// History returns the caller's orders, most recent first.
func (s *OrderService) History(ctx context.Context, caller Caller) ([]entity.Order, error) {
	out, err := s.OrderRepo.List(ctx, caller.scope(), true)
	if err != nil {
		return nil, internal("order history", err)
	}
	return out, nil
}

// FindOrder reports false for unknown ids and for orders the caller cannot see.
func (s *OrderService) FindOrder(ctx context.Context, caller Caller, id string) (*entity.Order, bool, error) {
	o, ok, err := s.OrderRepo.FindByID(ctx, caller.scope(), id)
	if err != nil {
		return nil, false, internal("find order", err)
	}
	return o, ok, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
