package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderCanceled OrderStatus = "canceled"
)

// CancelableStatuses lists the states an owner may cancel from.
var CancelableStatuses = []OrderStatus{OrderPending, OrderApproved}

func (s OrderStatus) Cancelable() bool {
	for _, st := range CancelableStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ShippingAddress is the delivery block submitted at checkout.
type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
}

// PaymentDetails captures the chosen method and the total shown to the buyer.
type PaymentDetails struct {
	Method     string  `bson:"method" json:"method"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice"`
}

// Order is embedded in User.Orders. Items is a by-value copy of the cart at
// checkout time.
type Order struct {
	OrderID        string          `bson:"orderId" json:"orderId"`
	OrderDate      time.Time       `bson:"orderDate" json:"orderDate"`
	UID            string          `bson:"uid" json:"uid"`
	Items          []CartLine      `bson:"items" json:"items"`
	Address        ShippingAddress `bson:"address" json:"address"`
	Notes          string          `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentDetails PaymentDetails  `bson:"paymentDetails" json:"paymentDetails"`
	Status         OrderStatus     `bson:"status" json:"status"`
}

// NewOrder snapshots cart into a pending order. The slice is copied so later
// cart mutation cannot reach the order.
func NewOrder(orderID, uid string, cart []CartLine, address ShippingAddress, notes string, payment PaymentDetails, now time.Time) Order {
	items := make([]CartLine, len(cart))
	copy(items, cart)
	return Order{
		OrderID:        orderID,
		OrderDate:      now,
		UID:            uid,
		Items:          items,
		Address:        address,
		Notes:          notes,
		PaymentDetails: payment,
		Status:         OrderPending,
	}
}

// OrderView is the listing shape used by /my-orders and /all-orders.
type OrderView struct {
	OwnerID        primitive.ObjectID `json:"-"`
	Username       string             `json:"username"`
	Email          string             `json:"email"`
	OrderID        string             `json:"orderId"`
	OrderDate      time.Time          `json:"orderDate"`
	Items          []CartLine         `json:"items"`
	Address        ShippingAddress    `json:"address"`
	Notes          string             `json:"notes,omitempty"`
	PaymentDetails PaymentDetails     `json:"paymentDetails"`
	Status         OrderStatus        `json:"status"`
}

func NewOrderView(u User, o Order) OrderView {
	return OrderView{
		OwnerID:        u.ID,
		Username:       u.Username,
		Email:          u.Email,
		OrderID:        o.OrderID,
		OrderDate:      o.OrderDate,
		Items:          o.Items,
		Address:        o.Address,
		Notes:          o.Notes,
		PaymentDetails: o.PaymentDetails,
		Status:         o.Status,
	}
}
