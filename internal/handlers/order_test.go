package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/models"
)

func fixedOrderClock(t *testing.T, id string, at time.Time) {
	t.Helper()
	prevID, prevNow := newOrderID, now
	newOrderID = func() string { return id }
	now = func() time.Time { return at }
	t.Cleanup(func() {
		newOrderID, now = prevID, prevNow
	})
}

func TestPlaceOrderSnapshotsAndClearsCart(t *testing.T) {
	s := newTestServer(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fixedOrderClock(t, "order-1", at)

	user, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	cart := []models.CartLine{
		{BookID: primitive.NewObjectID(), Quantity: 2},
		{BookID: primitive.NewObjectID(), Quantity: 1},
	}
	user.Cart = append([]models.CartLine{}, cart...)

	req := PlaceOrderRequest{
		Address:        models.ShippingAddress{Name: "Reader", Phone: "555", Address: "1 Main", City: "Town", PostalCode: "111"},
		Notes:          "leave at door",
		PaymentDetails: models.PaymentDetails{Method: "cod", TotalPrice: 42.5},
	}
	w := s.do(t, http.MethodPost, "/order/add", token, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Order placed successfully", body.Message)
	assert.Equal(t, "order-1", body.Order.OrderID)
	assert.Equal(t, models.OrderPending, body.Order.Status)
	assert.Equal(t, "uid-1", body.Order.UID)
	assert.True(t, at.Equal(body.Order.OrderDate))

	assert.Empty(t, user.Cart)
	require.Len(t, user.Orders, 1)
	assert.Equal(t, cart, user.Orders[0].Items)
	assert.Equal(t, req.Address, user.Orders[0].Address)
}

func TestPlaceOrderWithoutBody(t *testing.T) {
	s := newTestServer(t)
	fixedOrderClock(t, "order-2", time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC))

	user, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	user.Cart = []models.CartLine{{BookID: primitive.NewObjectID(), Quantity: 1}}

	w := s.do(t, http.MethodPost, "/order/add", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order placed successfully", message(t, w))

	assert.Empty(t, user.Cart)
	require.Len(t, user.Orders, 1)
	assert.Equal(t, "order-2", user.Orders[0].OrderID)
	assert.Empty(t, user.Orders[0].Notes)
	assert.Equal(t, models.ShippingAddress{}, user.Orders[0].Address)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	s := newTestServer(t)
	user, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")

	w := s.do(t, http.MethodPost, "/order/add", token, PlaceOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty or user not found", message(t, w))
	assert.Empty(t, user.Orders)
}

func seedOrder(user *models.User, id string, status models.OrderStatus) {
	user.Orders = append(user.Orders, models.Order{
		OrderID: id,
		UID:     user.UID,
		Items:   []models.CartLine{{BookID: primitive.NewObjectID(), Quantity: 1}},
		Status:  status,
	})
}

func TestCancelOrder(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	stranger, strangerToken := s.seedUser(t, "uid-2", "other", "other@example.com")
	seedOrder(owner, "pending-1", models.OrderPending)
	seedOrder(owner, "approved-1", models.OrderApproved)
	seedOrder(owner, "canceled-1", models.OrderCanceled)
	seedOrder(stranger, "theirs-1", models.OrderPending)

	w := s.do(t, http.MethodPatch, "/cancel-order/pending-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order canceled successfully.", message(t, w))
	assert.Equal(t, models.OrderCanceled, owner.Orders[0].Status)

	w = s.do(t, http.MethodPatch, "/cancel-order/approved-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderCanceled, owner.Orders[1].Status)

	w = s.do(t, http.MethodPatch, "/cancel-order/canceled-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only pending or approved orders can be cancelled.", message(t, w))
	assert.Equal(t, models.OrderCanceled, owner.Orders[2].Status)

	w = s.do(t, http.MethodPatch, "/cancel-order/theirs-1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.OrderPending, stranger.Orders[0].Status)

	w = s.do(t, http.MethodPatch, "/cancel-order/pending-1", strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyOrdersAndAllOrders(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/all-orders", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No orders found", message(t, w))

	owner, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	other, _ := s.seedUser(t, "uid-2", "other", "other@example.com")

	w = s.do(t, http.MethodGet, "/my-orders", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No orders found for this user", message(t, w))

	seedOrder(owner, "o-1", models.OrderPending)
	seedOrder(other, "o-2", models.OrderApproved)
	owner.Orders[0].Notes = "ring twice"

	w = s.do(t, http.MethodGet, "/my-orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.OrderView
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "o-1", mine[0].OrderID)
	assert.Equal(t, "reader", mine[0].Username)
	assert.Equal(t, "reader@example.com", mine[0].Email)
	assert.Equal(t, "ring twice", mine[0].Notes)

	w = s.do(t, http.MethodGet, "/all-orders", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.OrderView
	decode(t, w, &all)
	assert.Len(t, all, 2)
	assert.NotContains(t, w.Body.String(), "notes")
}

func TestApproveOrderNotifiesOwner(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	seedOrder(owner, "o-1", models.OrderPending)

	w := s.do(t, http.MethodPut, "/approve-order/o-1", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized: No token provided", message(t, w))

	w = s.do(t, http.MethodPut, "/approve-order/o-1", "user-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized: Admin privileges required", message(t, w))

	w = s.do(t, http.MethodPut, "/approve-order/missing", "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/approve-order/o-1", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order approved successfully", message(t, w))
	assert.Equal(t, models.OrderApproved, owner.Orders[0].Status)

	require.Len(t, s.notifications.items, 1)
	n := s.notifications.items[0]
	assert.Equal(t, "uid-1", n.UID)
	assert.Equal(t, "Your order with ID o-1 has been approved!", n.Message)
	assert.False(t, n.Read)
}

func TestDeleteOrders(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.seedUser(t, "uid-1", "reader", "reader@example.com")
	other, _ := s.seedUser(t, "uid-2", "other", "other@example.com")
	seedOrder(owner, "mine", models.OrderCanceled)
	seedOrder(other, "theirs", models.OrderPending)

	w := s.do(t, http.MethodDelete, "/delete-my-order/theirs", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, other.Orders, 1)

	w = s.do(t, http.MethodDelete, "/delete-my-order/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, owner.Orders)

	w = s.do(t, http.MethodDelete, "/delete-order/theirs", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, other.Orders)

	w = s.do(t, http.MethodDelete, "/delete-order/theirs", "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found or already deleted", message(t, w))
}
