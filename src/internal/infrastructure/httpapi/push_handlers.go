package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/qrimage"
)

// ===========================
// 推播與 QR API
// ===========================

// vapidKey GET /api/push/vapid-key
func (h *Handler) vapidKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.vapid})
}

// pushStatus GET /api/push/status
func (h *Handler) pushStatus(c *gin.Context) {
	status, err := h.uc.Subscriptions.Status(auth.SubjectFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": status.Subscribed, "subscriptions": status.Count})
}

// subscribeRequest 接受扁平格式與瀏覽器 PushSubscription.toJSON() 格式
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// subscribe POST /api/push/subscribe
func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.P256dh == "" {
		req.P256dh = req.Keys.P256dh
	}
	if req.Auth == "" {
		req.Auth = req.Keys.Auth
	}

	_, err := h.uc.Subscriptions.Subscribe(appnotification.SubscribeCommand{
		CustomerID: auth.SubjectFrom(c),
		Endpoint:   req.Endpoint,
		P256dh:     req.P256dh,
		Auth:       req.Auth,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved", "subscribed": true})
}

type manualPushRequest struct {
	Segment     string `json:"segment"`
	PromotionID string `json:"promotionId"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	CTAURL      string `json:"ctaUrl"`
}

// sendManualPush POST /api/admin/push/send
func (h *Handler) sendManualPush(c *gin.Context) {
	var req manualPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.uc.SendManual.Execute(c.Request.Context(), appnotification.SendManualCommand{
		Segment:     req.Segment,
		PromotionID: req.PromotionID,
		Title:       req.Title,
		Message:     req.Message,
		CTAURL:      req.CTAURL,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Push notifications sent",
		"sent":    result.Sent,
		"failed":  result.Failed,
		"total":   result.Total,
	})
}

// evaluateMandatory POST /api/push/evaluate-mandatory
//
// 與排程共用同一個 MandatorySweep；已有掃描進行中時回 409。
func (h *Handler) evaluateMandatory(c *gin.Context) {
	result, ran, err := h.sweep.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !ran {
		c.JSON(http.StatusConflict, gin.H{"error": "a mandatory sweep is already running", "code": "SWEEP_RUNNING"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluated": result.Evaluated,
		"sent":      result.Sent,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	})
}

// qrImage GET /api/qr/image?data=...|token=...&size=...
//
// token 會展開為客戶 QR 網址；data 原樣編碼。
func (h *Handler) qrImage(c *gin.Context) {
	content := c.Query("data")
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		content = h.qr.CustomerURL(token)
	}
	if content == "" {
		badRequest(c, "data or token query parameter is required")
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.qr.PNG(content, size)
	if err != nil {
		if errors.Is(err, qrimage.ErrInvalidContent) {
			badRequest(c, err.Error())
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
