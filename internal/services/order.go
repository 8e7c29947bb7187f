package service

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"time"

	"cosmetics-store-backend/internal/cache"
	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/metrics"
	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	PlaceOrderFromCart(ctx context.Context, actor models.Actor, req *models.PlaceOrderRequest) (*models.Order, error)
	PlaceOrderFromInstantCheckout(ctx context.Context, req *models.PlaceInstantOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	db           *sql.DB
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	checkoutRepo repository.CheckoutRepository
	notifier     OrderNotifier
	cache        cache.Cache
}

func NewOrderService(db *sql.DB, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, checkoutRepo repository.CheckoutRepository, notifier OrderNotifier, productCache cache.Cache) OrderService {
	return &orderService{
		db:           db,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		checkoutRepo: checkoutRepo,
		notifier:     notifier,
		cache:        productCache,
	}
}

// PlaceOrderFromCart converts the actor's cart into an order in one
// serializable transaction: every product row is locked in ascending id
// order, stock is verified and decremented, the order and its frozen item
// snapshots are inserted and the cart lines are deleted. Any violation rolls
// the whole transaction back; no partial order is ever created.
func (s *orderService) PlaceOrderFromCart(ctx context.Context, actor models.Actor, req *models.PlaceOrderRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByActor(ctx, actor)
	if err != nil {
		if err == sql.ErrNoRows {
			metrics.OrderPlacementFailures.WithLabelValues("empty_cart").Inc()

			return nil, errors.EmptyCartError()
		}

		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		metrics.OrderPlacementFailures.WithLabelValues("empty_cart").Inc()

		return nil, errors.EmptyCartError()
	}

	// Deterministic lock acquisition order across concurrent checkouts.
	lines := slices.Clone(cart.Items)
	slices.SortFunc(lines, func(a, b models.CartItem) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction").WithError(err)
	}

	defer func() { _ = tx.Rollback() }()

	order := &models.Order{
		ID:          uuid.New(),
		Status:      models.OrderStatusPending,
		Shipping:    req.Shipping,
		TotalAmount: decimal.Zero,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	order.SetActor(actor)

	for _, line := range lines {

		product, err := s.productRepo.GetProductForUpdate(ctx, tx, line.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, errors.NotFoundError("Product not found: " + line.ProductID.String()).WithError(err)
			}

			return nil, errors.DatabaseError("Failed to lock product").WithError(err)
		}

		if product.Stock < line.Quantity {
			metrics.OrderPlacementFailures.WithLabelValues("insufficient_stock").Inc()

			return nil, errors.InsufficientStockError(product.Name)
		}

		// Snapshot name/price from the locked row, not from the cart join.
		item := models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			CreatedAt: time.Now(),
		}

		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if err == repository.ErrInsufficientStock {
				return nil, errors.InsufficientStockError(item.Name)
			}

			return nil, errors.DatabaseError("Failed to update inventory").WithError(err)
		}
	}

	if err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
		return nil, errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit order").WithError(err)
	}

	metrics.OrdersCreated.WithLabelValues("cart").Inc()

	s.invalidateProducts(ctx, order)
	s.notify(ctx, order)

	return order, nil
}

// PlaceOrderFromInstantCheckout converts a "buy now" checkout into an order.
// Preconditions are checked in a fixed sequence: unknown id, already used,
// expired. Stock is re-verified under lock even though it was checked when
// the checkout was created.
func (s *orderService) PlaceOrderFromInstantCheckout(ctx context.Context, req *models.PlaceInstantOrderRequest) (*models.Order, error) {

	checkout, err := s.checkoutRepo.GetCheckoutByID(ctx, req.CheckoutID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Checkout not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load checkout").WithError(err)
	}

	if checkout.IsCompleted {
		metrics.OrderPlacementFailures.WithLabelValues("checkout_already_used").Inc()

		return nil, errors.CheckoutAlreadyUsedError()
	}

	if checkout.Expired(time.Now()) {
		metrics.OrderPlacementFailures.WithLabelValues("checkout_expired").Inc()

		return nil, errors.CheckoutExpiredError()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction").WithError(err)
	}

	defer func() { _ = tx.Rollback() }()

	product, err := s.productRepo.GetProductForUpdate(ctx, tx, checkout.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found: " + checkout.ProductID.String()).WithError(err)
		}

		return nil, errors.DatabaseError("Failed to lock product").WithError(err)
	}

	if product.Stock < checkout.Quantity {
		metrics.OrderPlacementFailures.WithLabelValues("insufficient_stock").Inc()

		return nil, errors.InsufficientStockError(product.Name)
	}

	if err := s.productRepo.DecrementStock(ctx, tx, product.ID, checkout.Quantity); err != nil {
		if err == repository.ErrInsufficientStock {
			return nil, errors.InsufficientStockError(product.Name)
		}

		return nil, errors.DatabaseError("Failed to update inventory").WithError(err)
	}

	// Unit price frozen at checkout creation; dividing the stored total keeps
	// the order total identical to what the buyer was shown.
	unitPrice := checkout.TotalAmount.Div(decimal.NewFromInt(int64(checkout.Quantity)))

	order := &models.Order{
		ID:          uuid.New(),
		Status:      models.OrderStatusPending,
		TotalAmount: checkout.TotalAmount,
		Shipping:    req.Shipping,
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				ProductID: product.ID,
				Name:      product.Name,
				Price:     unitPrice,
				Quantity:  checkout.Quantity,
				CreatedAt: time.Now(),
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	order.SetActor(checkout.Actor)
	order.Items[0].OrderID = order.ID

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	if err := s.checkoutRepo.MarkCompleted(ctx, tx, checkout.ID); err != nil {
		if err == repository.ErrCheckoutCompleted {
			// Lost the race against a concurrent conversion of the same
			// checkout; the rollback undoes our decrement and order.
			metrics.OrderPlacementFailures.WithLabelValues("checkout_already_used").Inc()

			return nil, errors.CheckoutAlreadyUsedError()
		}

		return nil, errors.DatabaseError("Failed to complete checkout").WithError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit order").WithError(err)
	}

	metrics.OrdersCreated.WithLabelValues("instant_checkout").Inc()

	s.invalidateProducts(ctx, order)
	s.notify(ctx, order)

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load order").WithError(err)
	}

	if order.Actor() != actor {
		return nil, errors.ForbiddenError("You don't have permission to access this order")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByActor(ctx, actor, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to reload order").WithError(err)
	}

	return order, nil
}

// invalidateProducts drops cached catalog entries whose stock the committed
// order just changed.
func (s *orderService) invalidateProducts(ctx context.Context, order *models.Order) {
	if s.cache == nil {
		return
	}

	for _, item := range order.Items {

		key := cache.Key(cache.ProductKeyPrefix, item.ProductID.String())

		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Debug("Product cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// notify runs the single post-commit notification step. Failures are logged
// and swallowed; they never surface to the caller or undo the order.
func (s *orderService) notify(ctx context.Context, order *models.Order) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.OrderCreated(ctx, order); err != nil {
		slog.Warn("Order notification failed",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()))
	}
}
