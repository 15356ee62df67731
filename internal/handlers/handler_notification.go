package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/harborbank/corebank_backend/internal/middleware"
)

// notificationHandler handles notification reads for the logged-in profile.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers the notification routes.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:notificationID/read", h.markRead)
	}
}

func (h *notificationHandler) listNotifications(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), parseLimit(c, 50), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListNotificationResponse(notifications))
}

func (h *notificationHandler) markRead(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkNotificationRead(c.Request.Context(), c.Param("notificationID"), actor); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
