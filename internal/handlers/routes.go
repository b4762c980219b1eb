package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/identity"
	"github.com/Daffariandhika/ReadUniverse/internal/metrics"
	"github.com/Daffariandhika/ReadUniverse/internal/middleware"
	"github.com/Daffariandhika/ReadUniverse/internal/session"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

// Deps carries everything the routes need.
type Deps struct {
	Users         store.UserStore
	Books         store.BookStore
	Notifications store.NotificationStore
	Sessions      *session.Issuer
	Identity      identity.Provider
	SuperAdminID  string
	Ping          func(ctx context.Context) error
}

func RegisterRoutes(r gin.IRouter, d Deps) {
	auth := middleware.Authenticate(d.Sessions)
	admin := middleware.VerifyAdmin(d.Identity)

	r.GET("/healthz", Health(d.Ping))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/signup", Signup(d.Users))
	r.POST("/login", Login(d.Users, d.Sessions))
	r.POST("/check-username", CheckUsername(d.Users))
	r.POST("/availability-check", AvailabilityCheck(d.Users))
	r.PUT("/update-password", UpdatePassword(d.Users, d.Sessions))

	r.GET("/user/:uid", GetUserByUID(d.Users))
	r.GET("/all-users", ListUsers(d.Users))
	r.DELETE("/delete/users/:id", DeleteUser(d.Users))
	r.DELETE("/firebase-user/:uid", admin, DeleteIdentityUser(d.Identity))

	cart := r.Group("/cart", auth)
	{
		cart.POST("/add", AddToCart(d.Users))
		cart.DELETE("/remove", RemoveFromCart(d.Users))
		cart.PATCH("/update", UpdateCartQuantity(d.Users))
		cart.GET("", GetCart(d.Users, d.Books))
	}

	r.POST("/order/add", auth, PlaceOrder(d.Users))
	r.GET("/my-orders", auth, MyOrders(d.Users))
	r.GET("/all-orders", AllOrders(d.Users))
	r.PUT("/approve-order/:orderId", admin, ApproveOrder(d.Users, d.Notifications))
	r.PATCH("/cancel-order/:orderId", auth, CancelOrder(d.Users))
	r.DELETE("/delete-my-order/:orderId", auth, DeleteMyOrder(d.Users))
	r.DELETE("/delete-order/:orderId", admin, DeleteOrder(d.Users))

	r.GET("/notifications/:uid", ListNotifications(d.Notifications, false))
	r.GET("/notifications/readed/:uid", ListNotifications(d.Notifications, true))
	r.DELETE("/notifications/:id", DeleteNotification(d.Notifications))
	r.PUT("/mark-notification-read/:id", MarkNotificationRead(d.Notifications))
	r.PUT("/mark-all-read/:uid", MarkAllNotificationsRead(d.Notifications))

	r.POST("/users/:uid/add-review", AddReview(d.Users))
	r.GET("/all-feedback", AllFeedback(d.Users))

	r.GET("/count-all-users", Stat("count", d.Users.Count, "An error occurred while counting user"))
	r.GET("/count-all-books", Stat("count", d.Books.Count, "An error occurred while counting books"))
	r.GET("/count-book-categories", Stat("count", d.Books.CountDistinctCategories, "An error occurred while counting book category"))
	r.GET("/count-authors", Stat("count", d.Books.CountDistinctAuthors, "An error occurred while counting book author"))
	r.GET("/count-total-stock", Stat("totalStock", d.Books.TotalStock, "An error occurred while counting book stocks"))
	r.GET("/count-total-likes", Stat("totalLikes", d.Books.TotalLikes, "An error occurred while counting book likes"))
	r.GET("/count-user-reviews", Stat("count", d.Users.CountDistinctReviews, "Error fetching user reviews"))
	r.GET("/count-user-order", Stat("count", d.Users.CountDistinctOrders, "Error fetching user order"))

	r.POST("/upload-book", auth, UploadBooks(d.Books))
	r.GET("/user-books", auth, UserBooks(d.Books, d.SuperAdminID))
	r.GET("/all-books", AllBooks(d.Books))
	r.GET("/books-by-category", BooksByCategory(d.Books))
	r.GET("/top-books", TopBooks(d.Books))
	r.GET("/book/:id", GetBook(d.Books))
	r.PATCH("/book/:id", UpdateBook(d.Books))
	r.DELETE("/book/:id", DeleteBook(d.Books))
	r.GET("/book/:id/likes", BookLikes(d.Books))
	r.POST("/book/:id/likes", auth, ToggleLike(d.Users, d.Books))

	r.GET("/liked", auth, LikedBookIDs(d.Users))
	r.GET("/liked-books", auth, LikedBooks(d.Users, d.Books))
}
