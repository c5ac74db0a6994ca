package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

type NotificationHandler struct {
	service notificationService
	logger  logger.Interface
}

func NewNotificationHandler(service notificationService, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// ListUnread godoc
// @Summary List unread notifications
// @Description Returns the caller's unread notifications, newest first
// @Security Bearer
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.NotificationItem}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications/unread [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items, err := h.service.ListUnread(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// ListNotifications godoc
// @Summary List notifications
// @Description Returns the caller's notifications newest first, optionally unread only
// @Security Bearer
// @Tags notifications
// @Produce json
// @Param unread_only query bool false "Only unread notifications"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.NotificationItem}}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	unreadOnly, err := utils.ParseBoolQuery(c, "unread_only", false)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	page := utils.ParsePagination(c)

	result, err := h.service.ListNotifications(c.Request.Context(), dto.ListNotificationsRequest{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, page.Limit, page.Offset)
}

// MarkRead godoc
// @Summary Mark notifications as read
// @Description Marks the given notification ids read for the caller. Foreign or already read ids are ignored.
// @Security Bearer
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "Notification ids"
// @Success 200 {object} utils.APIResponse{data=dto.MarkReadResponse}
// @Failure 400 {object} utils.APIResponse "Malformed id list"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for mark read", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid id list", err.Error()))
		return
	}

	result, err := h.service.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Security Bearer
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.MarkReadResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetUnreadCount godoc
// @Summary Count unread notifications
// @Security Bearer
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UnreadCountResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateNotification godoc
// @Summary Create notification
// @Description Creates a notification and fans it out to the targeted users
// @Security Bearer
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body dto.CreateNotificationRequest true "Notification data"
// @Success 201 {object} utils.APIResponse{data=dto.CreateNotificationResponse}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 429 {object} utils.APIResponse "Rate limit exceeded"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create notification", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Notification created successfully")
}

// DispatchNotification godoc
// @Summary Re-run fan-out
// @Description Delivers an existing notification to targeted users who do not have it yet
// @Security Bearer
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.APIResponse{data=dto.DispatchResponse}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Notification not found"
// @Failure 503 {object} utils.APIResponse "Store temporarily unavailable"
// @Router /notifications/{id}/dispatch [post]
func (h *NotificationHandler) DispatchNotification(c *gin.Context) {
	notificationID, err := utils.ParseUintParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Dispatch(c.Request.Context(), notificationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
