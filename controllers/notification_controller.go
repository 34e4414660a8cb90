package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JDanielFV/erp/models"
	"github.com/JDanielFV/erp/utils"
)

const notificationPageSize = 50

// NotificationController persists notifications and triggers push delivery.
type NotificationController struct {
	db   *gorm.DB
	push *utils.PushEngine
}

// NewNotificationController creates a new controller instance.
func NewNotificationController(db *gorm.DB, push *utils.PushEngine) *NotificationController {
	return &NotificationController{db: db, push: push}
}

type createNotificationRequest struct {
	UserID  *string `json:"userId"`
	Title   string  `json:"title" binding:"required"`
	Message string  `json:"message" binding:"required"`
	Type    string  `json:"type"`
	OrderID *string `json:"orderId"`
}

// Create stores the notification row first; the row is the source of truth
// and must exist before any push attempt. Targeted notifications then
// trigger push delivery on a background goroutine whose failure is logged
// and swallowed. Broadcasts (no userId) are readable by everyone and never
// pushed.
func (n *NotificationController) Create(ctx *gin.Context) {
	var req createNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "title and message are required")
		return
	}

	if req.Type == "" {
		req.Type = models.NotifTypeInfo
	}
	if !models.ValidNotificationType(req.Type) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "unknown notification type")
		return
	}

	notification := models.Notification{
		UserID:  req.UserID,
		Title:   utils.Sanitize(req.Title),
		Message: utils.Sanitize(req.Message),
		Type:    req.Type,
		OrderID: req.OrderID,
	}

	if err := n.db.Create(&notification).Error; err != nil {
		utils.Sugar.Errorw("failed to store notification", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create notification")
		return
	}

	if req.UserID != nil {
		userID := *req.UserID
		title := notification.Title
		message := notification.Message
		go func() {
			if err := n.push.Deliver(context.Background(), userID, title, message); err != nil {
				utils.Sugar.Warnw("push trigger failed", "user_id", userID, "err", err)
			}
		}()
	}

	utils.Success(ctx, notification)
}

// List returns the caller's notifications plus broadcasts, newest first,
// bounded to one page.
func (n *NotificationController) List(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "user_id is required")
		return
	}

	var notifications []models.Notification
	err := n.db.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("created_at DESC").
		Limit(notificationPageSize).
		Find(&notifications).Error
	if err != nil {
		utils.Sugar.Errorw("failed to list notifications", "user_id", userID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list notifications")
		return
	}

	utils.Success(ctx, notifications)
}

// MarkRead flips is_read on a single notification.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	id := ctx.Param("id")

	res := n.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to mark notification as read")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "notification not found")
		return
	}

	utils.Success(ctx, gin.H{"id": id, "is_read": true})
}

type markAllReadRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// MarkAllRead flips is_read on every targeted notification of a user.
// Broadcast rows are shared and keep their own read state out of scope, same
// as the original dashboard behavior.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	var req markAllReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "userId is required")
		return
	}

	res := n.db.Model(&models.Notification{}).Where("user_id = ?", req.UserID).Update("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to mark notifications as read")
		return
	}

	utils.Success(ctx, gin.H{"updated": res.RowsAffected})
}
