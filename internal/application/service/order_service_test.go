package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	svc      *OrderService
}

func newOrderFixture(products ...entity.Product) *orderFixture {
	productRepo := newFakeProductRepo(products...)
	orderRepo := newFakeOrderRepo(newFakeCustomerRepo())
	orderRepo.products = productRepo
	return &orderFixture{
		products: productRepo,
		orders:   orderRepo,
		svc:      NewOrderService(orderRepo, productRepo, testLog, testClock),
	}
}

func catalogItem(name string, cents int64, stock int) entity.Product {
	return entity.Product{ID: uuid.New(), Name: name, Price: cents, Stock: stock, IsActive: true}
}

func (f *orderFixture) place(t *testing.T, actor entity.Actor, items ...OrderItemInput) *entity.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), actor, &CreateOrderInput{Items: items})
	require.NoError(t, err)
	return order
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	widget := catalogItem("Widget", 1250, 10)
	gadget := catalogItem("Gadget", 399, 5)
	f := newOrderFixture(widget, gadget)

	order := f.place(t, buyer,
		OrderItemInput{ProductID: widget.ID, Quantity: 2},
		OrderItemInput{ProductID: gadget.ID, Quantity: 1},
		OrderItemInput{ProductID: widget.ID, Quantity: 1},
	)

	assert.Equal(t, int64(3*1250+399), order.TotalAmount)
	assert.Equal(t, buyer.UserID, order.UserID)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, testNow, order.OrderDate)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-20260615-"))

	require.Len(t, order.Items, 2)
	assert.Equal(t, widget.ID, order.Items[0].ProductID)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, int64(1250), order.Items[0].UnitPrice)
	assert.Equal(t, int64(3750), order.Items[0].Subtotal)

	assert.Equal(t, 7, f.products.stock(widget.ID))
	assert.Equal(t, 4, f.products.stock(gadget.ID))
}

func TestCreateOrderKeepsPlacedPrice(t *testing.T) {
	widget := catalogItem("Widget", 1000, 10)
	f := newOrderFixture(widget)
	order := f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 1})

	products := NewProductService(f.products, testLog)
	_, err := products.UpdateProduct(context.Background(), admin, widget.ID, &ProductInput{Price: floatPtr(25)})
	require.NoError(t, err)

	stored, err := f.svc.GetOrder(context.Background(), buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stored.TotalAmount)
	assert.Equal(t, int64(1000), stored.Items[0].UnitPrice)
}

func TestCreateOrderValidation(t *testing.T) {
	widget := catalogItem("Widget", 1000, 2)
	retired := catalogItem("Retired", 500, 10)
	retired.IsActive = false
	f := newOrderFixture(widget, retired)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, buyer, &CreateOrderInput{})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	_, err = f.svc.CreateOrder(ctx, buyer, &CreateOrderInput{Items: []OrderItemInput{{ProductID: widget.ID, Quantity: 0}}})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	_, err = f.svc.CreateOrder(ctx, buyer, &CreateOrderInput{Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}}})
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	_, err = f.svc.CreateOrder(ctx, buyer, &CreateOrderInput{Items: []OrderItemInput{{ProductID: retired.ID, Quantity: 1}}})
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = f.svc.CreateOrder(ctx, buyer, &CreateOrderInput{Items: []OrderItemInput{{ProductID: widget.ID, Quantity: 3}}})
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.Equal(t, 2, f.products.stock(widget.ID))
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderLosesStockRace(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	// The guarded decrement sees another order's reservation
	f.orders.products = newFakeProductRepo(entity.Product{ID: widget.ID, Name: "Widget", Stock: 0, IsActive: true})

	_, err := f.svc.CreateOrder(context.Background(), buyer, &CreateOrderInput{
		Items: []OrderItemInput{{ProductID: widget.ID, Quantity: 1}},
	})
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.Equal(t, "Insufficient stock for Widget", apperror.GetAppError(err).Message)
}

func TestCancelOrder(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	ctx := context.Background()

	order := f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 2})
	assert.Equal(t, 3, f.products.stock(widget.ID))

	other := entity.Actor{UserID: uuid.New(), Role: enum.UserRoleCustomer}
	_, err := f.svc.CancelOrder(ctx, other, order.ID)
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	cancelled, err := f.svc.CancelOrder(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, f.products.stock(widget.ID))

	_, err = f.svc.CancelOrder(ctx, buyer, order.ID)
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.Equal(t, 5, f.products.stock(widget.ID))

	_, err = f.svc.CancelOrder(ctx, buyer, uuid.New())
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}

func TestCancelOrderOnlyWhilePending(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	ctx := context.Background()

	order := f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 1})
	_, err := f.svc.UpdateStatus(ctx, admin, order.ID, "processing")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, buyer, order.ID)
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.Equal(t, 4, f.products.stock(widget.ID))
}

func TestGetOrderHidesOtherBuyersOrders(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	order := f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 1})

	_, err := f.svc.GetOrder(context.Background(), entity.Actor{UserID: uuid.New(), Role: enum.UserRoleCustomer}, order.ID)
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	seen, err := f.svc.GetOrder(context.Background(), staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, seen.ID)
}

func TestListOrdersScopesCustomersToTheirOwn(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	ctx := context.Background()

	f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 1})
	f.place(t, staff, OrderItemInput{ProductID: widget.ID, Quantity: 1})

	mine, err := f.svc.ListOrders(ctx, buyer, &ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)

	all, err := f.svc.ListOrders(ctx, staff, &ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	_, err = f.svc.ListOrders(ctx, staff, &ListOrdersInput{Status: "lost"})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestUpdateOrderStatus(t *testing.T) {
	widget := catalogItem("Widget", 1000, 5)
	f := newOrderFixture(widget)
	ctx := context.Background()

	order := f.place(t, buyer, OrderItemInput{ProductID: widget.ID, Quantity: 3})

	_, err := f.svc.UpdateStatus(ctx, staff, order.ID, "completed")
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	shipped, err := f.svc.UpdateStatus(ctx, admin, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusShipped, shipped.Status)

	updated, err := f.svc.UpdateStatus(ctx, admin, order.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 5, f.products.stock(widget.ID))

	_, err = f.svc.UpdateStatus(ctx, admin, order.ID, "completed")
	assert.Equal(t, http.StatusConflict, appCode(t, err))

	_, err = f.svc.UpdateStatus(ctx, admin, uuid.New(), "completed")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
