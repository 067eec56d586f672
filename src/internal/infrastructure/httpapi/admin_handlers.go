package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appcustomer "github.com/jackyeh168/kuro_loyalty/src/internal/application/customer"
	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	apppoints "github.com/jackyeh168/kuro_loyalty/src/internal/application/points"
	appstaff "github.com/jackyeh168/kuro_loyalty/src/internal/application/staff"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
)

// ===========================
// 管理後台 API
// ===========================

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginAdmin POST /api/admin/login
func (h *Handler) loginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		badRequest(c, "username and password are required")
		return
	}

	dto, err := h.uc.LoginStaff.Execute(appstaff.LoginStaffCommand{Username: req.Username, Password: req.Password})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.tokens.IssueAdmin(dto.ID, dto.Username, dto.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.tokens.SetTokenCookie(c, auth.TypeAdmin, token, h.secure)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{"id": dto.ID, "username": dto.Username, "role": dto.Role},
	})
}

type scanRequest struct {
	QRToken string `json:"qrToken"`
}

// scan POST /api/admin/scan
func (h *Handler) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	token := extractQRToken(req.QRToken)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "qrToken is required", "code": shared.ErrCodeValidation})
		return
	}

	result, err := h.uc.AwardPoint.Execute(apppoints.AwardPointCommand{
		QRToken: token,
		StaffID: auth.SubjectFrom(c),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Punto agregado exitosamente",
		"customer":  gin.H{"id": result.CustomerID, "name": result.FullName},
		"points":    result.NewBalance,
		"awardedAt": result.AwardedAt,
	})
}

// extractQRToken 掃描器可能讀到完整網址（.../c/<token>），只取 token 部分
func extractQRToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "/c/"); i >= 0 {
		raw = raw[i+len("/c/"):]
		if j := strings.IndexAny(raw, "/?#"); j >= 0 {
			raw = raw[:j]
		}
	}
	return raw
}

// listCustomers GET /api/admin/customers?search=&limit=&offset=
func (h *Handler) listCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	result, err := h.uc.ListCustomers.Execute(appcustomer.ListCustomersQuery{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": toCustomersWithPoints(result.Customers),
		"total":     result.Total,
	})
}

// customerPoints GET /api/admin/customers/:id/points
//
// 餘額與目前能否再次掃描（唯讀）。
func (h *Handler) customerPoints(c *gin.Context) {
	id := c.Param("id")

	balance, err := h.uc.Balance.Execute(apppoints.GetPointsBalanceQuery{CustomerID: id})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	check, err := h.uc.CheckAntifraud.Execute(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customerId":        balance.CustomerID,
		"points":            balance.Points,
		"updatedAt":         balance.UpdatedAt,
		"canScan":           check.Allowed,
		"retryAfterMinutes": check.RetryAfterMinutes,
	})
}

// dashboard GET /api/admin/dashboard
func (h *Handler) dashboard(c *gin.Context) {
	result, err := h.uc.Dashboard.Execute()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalCustomers":   result.TotalCustomers,
			"pointsToday":      result.PointsToday,
			"activePromotions": result.ActivePromotions,
		},
		"recentCustomers": toCustomersWithPoints(result.RecentCustomers),
	})
}

// ===========================
// 促銷活動 CRUD
// ===========================

type promotionRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	PushTitle   string  `json:"pushTitle"`
	PushMessage string  `json:"pushMessage"`
	CTAURL      string  `json:"ctaUrl"`
	Audience    string  `json:"audience"`
	Active      *bool   `json:"active"`
	StartAt     *string `json:"startAt"`
	EndAt       *string `json:"endAt"`
}

// 後台表單的 datetime-local 沒有時區，視為利馬時間
var localTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseOptionalTime(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, true
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, appcustomer.LimaZone); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (req promotionRequest) toCommand() (appnotification.PromotionCommand, bool) {
	startAt, ok := parseOptionalTime(req.StartAt)
	if !ok {
		return appnotification.PromotionCommand{}, false
	}
	endAt, ok := parseOptionalTime(req.EndAt)
	if !ok {
		return appnotification.PromotionCommand{}, false
	}
	return appnotification.PromotionCommand{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PushTitle:   req.PushTitle,
		PushMessage: req.PushMessage,
		CTAURL:      req.CTAURL,
		Audience:    req.Audience,
		Active:      req.Active,
		StartAt:     startAt,
		EndAt:       endAt,
	}, true
}

func (h *Handler) bindPromotion(c *gin.Context) (appnotification.PromotionCommand, bool) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return appnotification.PromotionCommand{}, false
	}
	cmd, ok := req.toCommand()
	if !ok {
		badRequest(c, "startAt and endAt must be RFC3339 or YYYY-MM-DDTHH:MM")
		return appnotification.PromotionCommand{}, false
	}
	return cmd, true
}

// listPromotions GET /api/admin/promotions
func (h *Handler) listPromotions(c *gin.Context) {
	dtos, err := h.uc.Promotions.ListAll()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": toPromotionViews(dtos)})
}

// getPromotion GET /api/admin/promotions/:id
func (h *Handler) getPromotion(c *gin.Context) {
	dto, err := h.uc.Promotions.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotion": toPromotionView(*dto)})
}

// createPromotion POST /api/admin/promotions
func (h *Handler) createPromotion(c *gin.Context) {
	cmd, ok := h.bindPromotion(c)
	if !ok {
		return
	}
	dto, err := h.uc.Promotions.Create(cmd)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Promotion created", "promotion": toPromotionView(*dto)})
}

// updatePromotion PUT /api/admin/promotions/:id
func (h *Handler) updatePromotion(c *gin.Context) {
	cmd, ok := h.bindPromotion(c)
	if !ok {
		return
	}
	dto, err := h.uc.Promotions.Update(c.Param("id"), cmd)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion updated", "promotion": toPromotionView(*dto)})
}

// deletePromotion DELETE /api/admin/promotions/:id（停用，不刪除資料列）
func (h *Handler) deletePromotion(c *gin.Context) {
	if err := h.uc.Promotions.Delete(c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion deactivated"})
}

// livePromotions GET /api/promotions（公開）
func (h *Handler) livePromotions(c *gin.Context) {
	dtos, err := h.uc.Promotions.ListLive()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": toPromotionViews(dtos)})
}
