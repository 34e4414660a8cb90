package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JDanielFV/erp/models"
	"github.com/JDanielFV/erp/utils"
)

const (
	eventLogin  = "login"
	eventLogout = "logout"

	dayFormat = "2006-01-02"
)

// AttendanceController handles badge-scan check-in/check-out events.
type AttendanceController struct {
	db *gorm.DB
}

// NewAttendanceController creates a new controller instance.
func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{db: db}
}

// attendanceRequest carries a scan event. Kiosk clients historically send
// the scanned token in the "uuid" field even when it is a short code; both
// field names are accepted.
type attendanceRequest struct {
	Code      string `json:"code"`
	UUID      string `json:"uuid"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

func (r attendanceRequest) token() string {
	if r.Code != "" {
		return r.Code
	}
	return r.UUID
}

// RecordEvent resolves the scanned token and applies the ledger write:
// logins insert (user_id, day) if absent so the earliest login of the day is
// never overwritten, logouts unconditionally overwrite latest_logout. Both
// writes ride on the unique (user_id, day) index, which is the only
// mutual-exclusion mechanism between concurrent scanners.
func (a *AttendanceController) RecordEvent(ctx *gin.Context) {
	var req attendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	token := req.token()
	if token == "" || (req.Type != eventLogin && req.Type != eventLogout) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "missing code or type")
		return
	}

	now := time.Now()
	day := models.DayStart(now)
	if req.Date != "" {
		if parsed, err := time.ParseInLocation(dayFormat, req.Date, time.Local); err == nil {
			day = parsed
		}
	}
	at := now
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			at = parsed
		}
	}

	user, err := resolveUserCached(a.db, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.Sugar.Warnw("scan did not resolve to a user", "token", token)
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Sugar.Errorw("identity resolution failed", "token", token, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to resolve user")
		return
	}

	if err := a.writeLedger(user.ID, day, req.Type, at); err != nil {
		utils.Sugar.Errorw("attendance write failed", "user_id", user.ID, "day", day.Format(dayFormat), "type", req.Type, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to record attendance")
		return
	}

	var record models.AttendanceRecord
	if err := a.db.Where("user_id = ? AND day = ?", user.ID, day).First(&record).Error; err != nil {
		utils.Sugar.Errorw("attendance readback failed", "user_id", user.ID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to load attendance record")
		return
	}

	shortCode := user.ShortCode
	if shortCode == "" {
		shortCode = token
	}
	session := models.ClientSession{
		UserName:      user.FullName,
		StableID:      user.ID,
		ShortCode:     shortCode,
		EarliestLogin: record.EarliestLogin,
		LatestLogout:  record.LatestLogout,
	}
	if req.Type == eventLogin {
		session.ArrivalAt = at
	} else if record.EarliestLogin != nil {
		session.ArrivalAt = *record.EarliestLogin
	}

	utils.Success(ctx, gin.H{"userSession": session})
}

// writeLedger performs the atomic upsert for one event kind.
func (a *AttendanceController) writeLedger(userID string, day time.Time, kind string, at time.Time) error {
	conflict := []clause.Column{{Name: "user_id"}, {Name: "day"}}

	if kind == eventLogin {
		// First write wins: an existing row means someone already logged in
		// today (or a logout created the row) and earliest_login must stay.
		return a.db.Clauses(clause.OnConflict{
			Columns:   conflict,
			DoNothing: true,
		}).Create(&models.AttendanceRecord{
			UserID:        userID,
			Day:           day,
			EarliestLogin: &at,
		}).Error
	}

	// Last write wins for logouts.
	return a.db.Clauses(clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.Assignments(map[string]interface{}{"latest_logout": at, "updated_at": time.Now()}),
	}).Create(&models.AttendanceRecord{
		UserID:       userID,
		Day:          day,
		LatestLogout: &at,
	}).Error
}

// GetDay returns the attendance record for a user on one calendar day
// (default today). The dashboard uses it to show arrival time.
func (a *AttendanceController) GetDay(ctx *gin.Context) {
	userID := ctx.Param("userId")
	day := models.DayStart(time.Now())
	if raw := ctx.Query("day"); raw != "" {
		parsed, err := time.ParseInLocation(dayFormat, raw, time.Local)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40003, "invalid day, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	var record models.AttendanceRecord
	if err := a.db.Where("user_id = ? AND day = ?", userID, day).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "no attendance record for that day")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load attendance record")
		return
	}

	utils.Success(ctx, record)
}
