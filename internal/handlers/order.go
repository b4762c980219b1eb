package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/metrics"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

var newOrderID = uuid.NewString

type PlaceOrderRequest struct {
	Address        models.ShippingAddress `json:"address"`
	Notes          string                 `json:"notes"`
	PaymentDetails models.PaymentDetails  `json:"paymentDetails"`
}

// PlaceOrder snapshots the caller's cart into a pending order and clears the
// cart in the same update.
func PlaceOrder(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")

		userID, uid, ok := requireUser(c)
		if !ok {
			return
		}

		var req PlaceOrderRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithError(c, log, http.StatusInternalServerError, "Failed to place order", err)
			return
		}
		if user == nil || len(user.Cart) == 0 {
			respondMessage(c, http.StatusBadRequest, "Cart is empty or user not found")
			return
		}

		order := models.NewOrder(newOrderID(), uid, user.Cart, req.Address, req.Notes, req.PaymentDetails, now())
		placed, err := users.PlaceOrder(ctx, userID, order)
		if err != nil || !placed {
			respondWithError(c, log, http.StatusInternalServerError, "Failed to place order", err)
			return
		}

		metrics.OrderPlaced()
		log.Info().Str("orderId", order.OrderID).Int("items", len(order.Items)).Msg("order placed")
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order": order})
	}
}

func MyOrders(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching your orders", err)
			return
		}

		views := make([]models.OrderView, 0, len(user.Orders))
		for _, o := range user.Orders {
			views = append(views, models.NewOrderView(*user, o))
		}
		if len(views) == 0 {
			respondMessage(c, http.StatusNotFound, "No orders found for this user")
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

func AllOrders(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := users.List(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching orders", err)
			return
		}

		views := make([]models.OrderView, 0)
		for _, u := range list {
			for _, o := range u.Orders {
				view := models.NewOrderView(u, o)
				// buyer notes are only shown to the buyer
				view.Notes = ""
				views = append(views, view)
			}
		}
		if len(views) == 0 {
			respondMessage(c, http.StatusNotFound, "No orders found")
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// ApproveOrder marks the order approved and notifies its owner.
func ApproveOrder(users store.UserStore, notifications store.NotificationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")
		orderID := c.Param("orderId")

		ctx, cancel := requestContext(c)
		defer cancel()

		owner, err := users.FindByOrderID(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while approving the order", err)
			return
		}

		matched, err := users.SetOrderStatus(ctx, orderID, models.OrderApproved)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while approving the order", err)
			return
		}
		if !matched {
			respondMessage(c, http.StatusNotFound, "Order not found")
			return
		}
		metrics.OrderStatusChanged(string(models.OrderApproved))

		_, err = notifications.Create(ctx, models.Notification{
			UID:       owner.UID,
			Message:   fmt.Sprintf("Your order with ID %s has been approved!", orderID),
			Read:      false,
			Timestamp: now(),
		})
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while approving the order", err)
			return
		}

		log.Info().Str("orderId", orderID).Msg("order approved")
		respondMessage(c, http.StatusOK, "Order approved successfully")
	}
}

// CancelOrder cancels one of the caller's own orders while it is pending or
// approved.
func CancelOrder(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")
		orderID := c.Param("orderId")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Order not found.")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}

		order, found := user.FindOrder(orderID)
		if !found {
			respondMessage(c, http.StatusNotFound, "Order not found.")
			return
		}
		if !order.Status.Cancelable() {
			respondMessage(c, http.StatusBadRequest, "Only pending or approved orders can be cancelled.")
			return
		}

		changed, err := users.SetOwnOrderStatus(ctx, userID, orderID, models.CancelableStatuses, models.OrderCanceled)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}
		if !changed {
			respondMessage(c, http.StatusBadRequest, "Only pending or approved orders can be cancelled.")
			return
		}

		metrics.OrderStatusChanged(string(models.OrderCanceled))
		log.Info().Str("orderId", orderID).Msg("order canceled")
		respondMessage(c, http.StatusOK, "Order canceled successfully.")
	}
}

func DeleteMyOrder(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")
		orderID := c.Param("orderId")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		removed, err := users.PullOwnOrder(ctx, userID, orderID)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}
		if !removed {
			respondMessage(c, http.StatusNotFound, "Order not found.")
			return
		}

		respondMessage(c, http.StatusOK, "Order deleted successfully.")
	}
}

func DeleteOrder(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ORDER")
		orderID := c.Param("orderId")

		ctx, cancel := requestContext(c)
		defer cancel()

		removed, err := users.PullOrder(ctx, orderID)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}
		if !removed {
			respondMessage(c, http.StatusNotFound, "Order not found or already deleted")
			return
		}

		log.Info().Str("orderId", orderID).Msg("order deleted by admin")
		respondMessage(c, http.StatusOK, "Order deleted successfully")
	}
}
