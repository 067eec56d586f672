package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// 客戶端
// ===========================

func TestRegister_ReturnsTokenAndQR(t *testing.T) {
	// Arrange
	f := setupAPI(t)

	// Act
	rec := f.do(t, http.MethodPost, "/api/customers/register", registerBody("0001"), "")

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	qrToken := body["qrToken"].(string)
	assert.Len(t, qrToken, 64)
	assert.Equal(t, "https://kuro.test/c/"+qrToken, body["qrUrl"])
	assert.True(t, strings.HasPrefix(body["qrImageData"].(string), "data:image/png;base64,"))
	assert.NotEmpty(t, body["token"])

	customer := body["customer"].(map[string]any)
	assert.Equal(t, "Cliente 0001", customer["fullName"])
	assert.Equal(t, "1992-03-14", customer["birthdate"])
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "customerToken=")
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.registerCustomer(t, "0001")
	dup := registerBody("0002")
	dup["email"] = "cliente0001@kuro.pe"

	// Act
	rec := f.do(t, http.MethodPost, "/api/customers/register", dup, "")

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email", decode(t, rec)["field"])
}

func TestRegister_InvalidInputIsBadRequest(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	body := registerBody("0001")
	body["birthdate"] = "14/03/1992"

	// Act
	rec := f.do(t, http.MethodPost, "/api/customers/register", body, "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", decode(t, rec)["code"])
}

func TestCustomerLogin(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")

	// Act
	ok := f.do(t, http.MethodPost, "/api/customers/login", map[string]any{"email": "cliente0001@kuro.pe", "dni": "44550001"}, "")
	wrong := f.do(t, http.MethodPost, "/api/customers/login", map[string]any{"email": "cliente0001@kuro.pe", "dni": "00000000"}, "")
	missing := f.do(t, http.MethodPost, "/api/customers/login", map[string]any{"email": "cliente0001@kuro.pe"}, "")

	// Assert
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	assert.Equal(t, registered.ID, decode(t, ok)["customer"].(map[string]any)["id"])
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestMe_ReturnsPointsAndQR(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")

	// Act
	rec := f.do(t, http.MethodGet, "/api/customers/me", nil, registered.Token)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["loyalty"].(map[string]any)["points"])
	assert.Equal(t, registered.QRToken, body["qrToken"])
	assert.Empty(t, body["promotions"])
}

func TestCustomerRoutes_RequireCustomerToken(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)

	// Act
	anonymous := f.do(t, http.MethodGet, "/api/customers/me", nil, "")
	asAdmin := f.do(t, http.MethodGet, "/api/customers/me", nil, admin)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, http.StatusUnauthorized, asAdmin.Code)
}

func TestLocation_NearbyPushIsSentOnce(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")
	f.subscribe(t, registered.Token)
	near := map[string]any{"lat": -12.0464 + 0.0045, "lng": -77.0428}

	// Act
	first := f.do(t, http.MethodPost, "/api/customers/location", near, registered.Token)
	f.clock.Advance(time.Hour)
	second := f.do(t, http.MethodPost, "/api/customers/location", near, registered.Token)

	// Assert
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstBody := decode(t, first)
	assert.Equal(t, true, firstBody["locationUpdated"])
	assert.Equal(t, true, firstBody["notificationSent"])

	secondBody := decode(t, second)
	assert.Equal(t, false, secondBody["notificationSent"])
	assert.Equal(t, "nearby_cooldown", secondBody["reason"])
	assert.Equal(t, 1, f.dispatcher.count())
}

func TestLocation_FarAwayIsNotSent(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")
	f.subscribe(t, registered.Token)

	// Act
	rec := f.do(t, http.MethodPost, "/api/customers/location", map[string]any{"lat": -12.12, "lng": -77.03}, registered.Token)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["locationUpdated"])
	assert.Equal(t, false, body["notificationSent"])
	assert.Equal(t, "too_far", body["reason"])
	assert.Equal(t, 0, f.dispatcher.count())
}

func TestLocation_EvaluationFailure_StillSucceeds(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")
	f.subscribe(t, registered.Token)
	require.NoError(t, f.db.Migrator().DropTable("promotions"))
	near := map[string]any{"lat": -12.0464 + 0.0045, "lng": -77.0428}

	// Act
	rec := f.do(t, http.MethodPost, "/api/customers/location", near, registered.Token)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["locationUpdated"])
	assert.Equal(t, true, body["notificationEvaluated"])
	assert.Equal(t, false, body["notificationSent"])
	assert.Equal(t, "evaluation_failed", body["reason"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, 0, f.dispatcher.count())
}

func TestLocation_Validation(t *testing.T) {
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing lng", body: map[string]any{"lat": -12.0}},
		{name: "latitude out of range", body: map[string]any{"lat": 91.0, "lng": -77.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/customers/location", tt.body, registered.Token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// ===========================
// 掃描發點
// ===========================

func TestScan_AwardThenCooldownThenAllowed(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	registered := f.registerCustomer(t, "0001")

	// Act
	first := f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": registered.QRToken}, admin)
	f.clock.Advance(23*time.Hour + 59*time.Minute)
	denied := f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": registered.QRToken}, admin)
	f.clock.Advance(time.Minute)
	second := f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": "https://kuro.test/c/" + registered.QRToken}, admin)

	// Assert
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstBody := decode(t, first)
	assert.Equal(t, true, firstBody["success"])
	assert.Equal(t, float64(1), firstBody["points"])
	assert.Equal(t, "Cliente 0001", firstBody["customer"].(map[string]any)["name"])

	require.Equal(t, http.StatusBadRequest, denied.Code)
	deniedBody := decode(t, denied)
	assert.Equal(t, "COOLDOWN", deniedBody["code"])
	assert.Equal(t, false, deniedBody["success"])
	assert.Equal(t, float64(1), deniedBody["retryAfterMinutes"])

	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	assert.Equal(t, float64(2), decode(t, second)["points"])
}

func TestScan_UnknownOrEmptyToken(t *testing.T) {
	f := setupAPI(t)
	admin := f.adminToken(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "empty", token: "  ", status: http.StatusBadRequest},
		{name: "unknown", token: strings.Repeat("ab", 32), status: http.StatusNotFound},
		{name: "malformed", token: "not-a-token", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": tt.token}, admin)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")

	// Act
	anonymous := f.do(t, http.MethodGet, "/api/admin/dashboard", nil, "")
	asCustomer := f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": registered.QRToken}, registered.Token)
	sweep := f.do(t, http.MethodPost, "/api/push/evaluate-mandatory", nil, registered.Token)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, http.StatusUnauthorized, asCustomer.Code)
	assert.Equal(t, http.StatusUnauthorized, sweep.Code)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	f.adminToken(t)

	// Act
	rec := f.do(t, http.MethodPost, "/api/admin/login", map[string]any{"username": "barra", "password": "incorrecto"}, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerPoints_ShowsCooldown(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	registered := f.registerCustomer(t, "0001")
	f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": registered.QRToken}, admin)
	f.clock.Advance(4 * time.Hour)

	// Act
	rec := f.do(t, http.MethodGet, "/api/admin/customers/"+registered.ID+"/points", nil, admin)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["points"])
	assert.Equal(t, false, body["canScan"])
	assert.Equal(t, float64(20*60), body["retryAfterMinutes"])
}

// ===========================
// 後台查詢
// ===========================

func TestListCustomersAndDashboard(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	first := f.registerCustomer(t, "0001")
	f.registerCustomer(t, "0002")
	f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": first.QRToken}, admin)

	// Act
	list := f.do(t, http.MethodGet, "/api/admin/customers?search=0001", nil, admin)
	dashboard := f.do(t, http.MethodGet, "/api/admin/dashboard", nil, admin)

	// Assert
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())
	listBody := decode(t, list)
	assert.Equal(t, float64(1), listBody["total"])
	customers := listBody["customers"].([]any)
	require.Len(t, customers, 1)
	assert.Equal(t, float64(1), customers[0].(map[string]any)["points"])

	require.Equal(t, http.StatusOK, dashboard.Code, dashboard.Body.String())
	stats := decode(t, dashboard)["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalCustomers"])
	assert.Equal(t, float64(1), stats["pointsToday"])
	assert.Equal(t, float64(0), stats["activePromotions"])
}

// ===========================
// 促銷活動
// ===========================

func TestPromotions_CRUDAndPublicListing(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)

	// Act + Assert: create
	created := f.do(t, http.MethodPost, "/api/admin/promotions", map[string]any{
		"title":       "2x1 en pisco sour",
		"description": "Solo hoy",
		"audience":    "NEARBY",
		"startAt":     "2025-04-05T12:00",
	}, admin)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	promo := decode(t, created)["promotion"].(map[string]any)
	id := promo["id"].(string)
	assert.Equal(t, "NEARBY", promo["audience"])
	assert.Equal(t, "2025-04-05T17:00:00Z", promo["startAt"])

	public := decode(t, f.do(t, http.MethodGet, "/api/promotions", nil, ""))
	assert.Len(t, public["promotions"], 1)

	// update
	updated := f.do(t, http.MethodPut, "/api/admin/promotions/"+id, map[string]any{
		"title":       "3x2 en pisco sour",
		"description": "Solo hoy",
		"audience":    "ALL",
	}, admin)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.Equal(t, "3x2 en pisco sour", decode(t, updated)["promotion"].(map[string]any)["title"])

	// delete 只停用
	deleted := f.do(t, http.MethodDelete, "/api/admin/promotions/"+id, nil, admin)
	require.Equal(t, http.StatusOK, deleted.Code)

	public = decode(t, f.do(t, http.MethodGet, "/api/promotions", nil, ""))
	assert.Empty(t, public["promotions"])

	got := f.do(t, http.MethodGet, "/api/admin/promotions/"+id, nil, admin)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, false, decode(t, got)["promotion"].(map[string]any)["active"])
}

func TestPromotions_Errors(t *testing.T) {
	f := setupAPI(t)
	admin := f.adminToken(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
		status int
	}{
		{name: "missing title", method: http.MethodPost, path: "/api/admin/promotions", body: map[string]any{"description": "x"}, status: http.StatusBadRequest},
		{name: "bad audience", method: http.MethodPost, path: "/api/admin/promotions", body: map[string]any{"title": "t", "description": "d", "audience": "VIP"}, status: http.StatusBadRequest},
		{name: "bad date", method: http.MethodPost, path: "/api/admin/promotions", body: map[string]any{"title": "t", "description": "d", "startAt": "mañana"}, status: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, path: "/api/admin/promotions/7b0b1d1e-4c8e-4b8a-9a51-0d3c1f0e6a11", status: http.StatusNotFound},
		{name: "malformed id", method: http.MethodDelete, path: "/api/admin/promotions/abc", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.body != nil {
				body = tt.body
			}
			rec := f.do(t, tt.method, tt.path, body, admin)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

// ===========================
// 推播
// ===========================

func TestPushStatusAndSubscribe(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	registered := f.registerCustomer(t, "0001")

	// Act
	before := decode(t, f.do(t, http.MethodGet, "/api/push/status", nil, registered.Token))
	f.subscribe(t, registered.Token)
	after := decode(t, f.do(t, http.MethodGet, "/api/push/status", nil, registered.Token))
	invalid := f.do(t, http.MethodPost, "/api/push/subscribe", map[string]any{"endpoint": "http://insecure.example.com", "p256dh": "k", "auth": "a"}, registered.Token)

	// Assert
	assert.Equal(t, false, before["subscribed"])
	assert.Equal(t, true, after["subscribed"])
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestVAPIDKeyIsPublic(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodGet, "/api/push/vapid-key", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BPublicKeyForTests", decode(t, rec)["publicKey"])
}

func TestManualPush_AllSegment(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	subscribed := f.registerCustomer(t, "0001")
	f.registerCustomer(t, "0002")
	f.subscribe(t, subscribed.Token)

	// Act
	rec := f.do(t, http.MethodPost, "/api/admin/push/send", map[string]any{
		"segment": "all",
		"title":   "Hoy hay DJ",
		"message": "Desde las 10pm",
	}, admin)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["sent"])
	assert.Equal(t, float64(0), body["failed"])
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, 1, f.dispatcher.count())
}

func TestManualPush_RequiresMessageOrPromotion(t *testing.T) {
	f := setupAPI(t)
	admin := f.adminToken(t)

	rec := f.do(t, http.MethodPost, "/api/admin/push/send", map[string]any{"segment": "all"}, admin)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateMandatory_SendsThenSkips(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	registered := f.registerCustomer(t, "0001")
	f.subscribe(t, registered.Token)

	// Act
	first := f.do(t, http.MethodPost, "/api/push/evaluate-mandatory", nil, admin)
	f.clock.Advance(55 * time.Hour)
	second := f.do(t, http.MethodPost, "/api/push/evaluate-mandatory", nil, admin)

	// Assert
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstBody := decode(t, first)
	assert.Equal(t, float64(1), firstBody["evaluated"])
	assert.Equal(t, float64(1), firstBody["sent"])

	secondBody := decode(t, second)
	assert.Equal(t, float64(0), secondBody["sent"])
	assert.Equal(t, float64(1), secondBody["skipped"])
	assert.Equal(t, 1, f.dispatcher.count())
}

// ===========================
// QR、健康檢查、指標
// ===========================

func TestQRImage(t *testing.T) {
	f := setupAPI(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{name: "token", query: "?token=" + strings.Repeat("ab", 32), status: http.StatusOK},
		{name: "data with size", query: "?data=hola&size=128", status: http.StatusOK},
		{name: "missing", query: "", status: http.StatusBadRequest},
		{name: "too long", query: "?data=" + strings.Repeat("x", 2000), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/qr/image"+tt.query, nil, "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
				assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	// Arrange
	f := setupAPI(t)
	admin := f.adminToken(t)
	registered := f.registerCustomer(t, "0001")
	f.do(t, http.MethodPost, "/api/admin/scan", map[string]any{"qrToken": registered.QRToken}, admin)

	// Act
	health := f.do(t, http.MethodGet, "/health", nil, "")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", decode(t, health)["status"])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kuro_points_awarded_total 1")
	assert.Contains(t, rec.Body.String(), `route="/api/admin/scan"`)
}
