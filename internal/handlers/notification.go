package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

// ListNotifications returns the uid's notifications with the given read
// flag, newest first.
func ListNotifications(notifications store.NotificationStore, read bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "NOTIFICATION")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := notifications.ListByUID(ctx, c.Param("uid"), read)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching notifications", err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func DeleteNotification(notifications store.NotificationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "NOTIFICATION")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		deleted, err := notifications.Delete(ctx, id)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal Server Error", err)
			return
		}
		if deleted == 0 {
			respondMessage(c, http.StatusNotFound, "Notification not found")
			return
		}

		respondMessage(c, http.StatusOK, "Notification deleted successfully")
	}
}

func MarkNotificationRead(notifications store.NotificationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "NOTIFICATION")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		matched, err := notifications.MarkRead(ctx, id)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while marking the notification", err)
			return
		}
		if matched == 0 {
			respondMessage(c, http.StatusNotFound, "Notification not found")
			return
		}

		respondMessage(c, http.StatusOK, "Notification marked as read")
	}
}

func MarkAllNotificationsRead(notifications store.NotificationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "NOTIFICATION")

		ctx, cancel := requestContext(c)
		defer cancel()

		modified, err := notifications.MarkAllRead(ctx, c.Param("uid"))
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while marking notifications", err)
			return
		}
		if modified == 0 {
			respondMessage(c, http.StatusNotFound, "No unread notifications found")
			return
		}

		respondMessage(c, http.StatusOK, "All notifications marked as read")
	}
}
