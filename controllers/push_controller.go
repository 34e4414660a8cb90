package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JDanielFV/erp/models"
	"github.com/JDanielFV/erp/utils"
)

// PushController manages push subscriptions and the manual send trigger.
type PushController struct {
	db     *gorm.DB
	engine *utils.PushEngine
}

// NewPushController creates a new controller instance.
func NewPushController(db *gorm.DB, engine *utils.PushEngine) *PushController {
	return &PushController{db: db, engine: engine}
}

type subscribeRequest struct {
	UserID    string `json:"userId" binding:"required"`
	Endpoint  string `json:"endpoint" binding:"required"`
	P256dh    string `json:"p256dh" binding:"required"`
	Auth      string `json:"auth" binding:"required"`
	UserAgent string `json:"userAgent"`
}

// Subscribe registers a browser push endpoint. The endpoint is the natural
// key: a browser re-registering after a key rotation updates its existing
// row instead of creating a duplicate.
func (p *PushController) Subscribe(ctx *gin.Context) {
	var req subscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "userId, endpoint, p256dh and auth are required")
		return
	}

	err := p.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":    req.UserID,
			"p256dh":     req.P256dh,
			"auth":       req.Auth,
			"user_agent": req.UserAgent,
		}),
	}).Create(&models.PushSubscription{
		UserID:    req.UserID,
		Endpoint:  req.Endpoint,
		P256dh:    req.P256dh,
		Auth:      req.Auth,
		UserAgent: req.UserAgent,
	}).Error
	if err != nil {
		utils.Sugar.Errorw("failed to store push subscription", "user_id", req.UserID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to register subscription")
		return
	}

	utils.Success(ctx, gin.H{"registered": true})
}

type sendPushRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Send fans the payload out to every registered endpoint of the user and
// waits for the deliveries to settle. Zero subscriptions is still success;
// per-endpoint failures are handled inside the engine and never surfaced.
func (p *PushController) Send(ctx *gin.Context) {
	var req sendPushRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "userId, title and message are required")
		return
	}

	if err := p.engine.Deliver(ctx.Request.Context(), req.UserID, req.Title, req.Message); err != nil {
		utils.Sugar.Errorw("push delivery failed", "user_id", req.UserID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to deliver push")
		return
	}

	utils.Success(ctx, gin.H{"delivered": true})
}
