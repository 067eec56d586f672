package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appcustomer "github.com/jackyeh168/kuro_loyalty/src/internal/application/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ===========================
// 客戶端 API
// ===========================

type registerRequest struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DNI            string `json:"dni"`
	Sex            string `json:"sex"`
	Birthdate      string `json:"birthdate"`
	MarketingOptIn bool   `json:"marketingOptIn"`
}

// registerCustomer POST /api/customers/register
func (h *Handler) registerCustomer(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	dto, err := h.uc.RegisterCustomer.Execute(appcustomer.RegisterCustomerCommand{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		DNI:            req.DNI,
		Sex:            req.Sex,
		Birthdate:      req.Birthdate,
		MarketingOptIn: req.MarketingOptIn,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.tokens.IssueCustomer(dto.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.tokens.SetTokenCookie(c, auth.TypeCustomer, token, h.secure)

	body := gin.H{
		"message":  "Customer registered successfully",
		"customer": toCustomerView(*dto),
		"token":    token,
	}
	h.addQR(body, dto.QRToken)
	c.JSON(http.StatusCreated, body)
}

type customerLoginRequest struct {
	Email string `json:"email"`
	DNI   string `json:"dni"`
}

// loginCustomer POST /api/customers/login
func (h *Handler) loginCustomer(c *gin.Context) {
	var req customerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.DNI == "" {
		badRequest(c, "email and dni are required")
		return
	}

	dto, err := h.uc.LoginCustomer.Execute(appcustomer.LoginCustomerCommand{Email: req.Email, DNI: req.DNI})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.tokens.IssueCustomer(dto.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.tokens.SetTokenCookie(c, auth.TypeCustomer, token, h.secure)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"customer": toCustomerView(*dto),
	})
}

// me GET /api/customers/me
func (h *Handler) me(c *gin.Context) {
	profile, err := h.uc.Profile.Execute(auth.SubjectFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	body := gin.H{
		"customer": toCustomerView(profile.Customer),
		"loyalty": gin.H{
			"points":    profile.Points,
			"updatedAt": profile.PointsUpdatedAt,
		},
		"promotions": toPromotionViews(profile.Promotions),
	}
	h.addQR(body, profile.Customer.QRToken)
	c.JSON(http.StatusOK, body)
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// updateLocation POST /api/customers/location
//
// 位置保存後即回 200；推播評估失敗時 notificationSent 為 false，reason 為 evaluation_failed。
func (h *Handler) updateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lng == nil {
		badRequest(c, "valid latitude and longitude are required")
		return
	}

	result, err := h.uc.UpdateLocation.Execute(c.Request.Context(), appcustomer.UpdateLocationCommand{
		CustomerID: auth.SubjectFrom(c),
		Lat:        *req.Lat,
		Lng:        *req.Lng,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	body := gin.H{
		"locationUpdated":       result.LocationUpdated,
		"notificationEvaluated": result.Evaluation != nil,
		"notificationSent":      false,
	}
	if ev := result.Evaluation; ev != nil {
		body["notificationSent"] = ev.Sent
		body["reason"] = ev.Reason
		body["distanceKm"] = ev.DistanceKm
	}
	c.JSON(http.StatusOK, body)
}

// addQR 回應附上 QR token、掃描網址與 PNG data URL
//
// 產生圖片失敗只記錄，前端仍可用 qrUrl 自行產生。
func (h *Handler) addQR(body gin.H, token string) {
	url := h.qr.CustomerURL(token)
	body["qrToken"] = token
	body["qrUrl"] = url

	data, err := h.qr.DataURL(url)
	if err != nil {
		h.log.Warn("failed to render qr image", zap.Error(err))
		return
	}
	body["qrImageData"] = data
}

// health GET /health
func (h *Handler) health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.log.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}
