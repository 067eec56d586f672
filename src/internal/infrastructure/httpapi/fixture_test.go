package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appstaff "github.com/jackyeh168/kuro_loyalty/src/internal/application/staff"
	"github.com/jackyeh168/kuro_loyalty/src/internal/bootstrap"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/events"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/lock"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/testutil"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/qrimage"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 14:00 Lima
var apiNow = time.Date(2025, 4, 5, 19, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type prefixHasher struct{}

func (prefixHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (prefixHasher) Compare(hash, plain string) bool { return hash == "hashed:"+plain }

// recordingDispatcher 記錄推播內容，回傳設定的結果
type recordingDispatcher struct {
	mu     sync.Mutex
	result notification.DispatchResult
	sent   []notification.PushMessage
}

func (d *recordingDispatcher) Send(_ context.Context, _ notification.PushSubscription, msg notification.PushMessage) notification.DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	return d.result
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

type apiFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	uc         *bootstrap.UseCases
	tokens     *auth.TokenService
	dispatcher *recordingDispatcher
	metrics    *metrics.Metrics
	clock      *shared.FixedClock
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	_, err := migrations.Run(db, zap.NewNop())
	require.NoError(t, err)

	clock := shared.NewFixedClock(apiNow)
	dispatcher := &recordingDispatcher{result: notification.DispatchResult{Success: true, StatusCode: http.StatusCreated}}
	m := metrics.New()

	uc := bootstrap.NewUseCases(bootstrap.Infra{
		DB:         db,
		Dispatcher: dispatcher,
		Hasher:     prefixHasher{},
		Locker:     lock.NewStripedLocker(16),
		Clock:      clock,
		Publisher:  events.NewPublisher(m, nil),
		Rules:      notification.DefaultRuleConfig(),
	})

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		CustomerSecret: "customer-secret-for-tests",
		AdminSecret:    "admin-secret-for-tests",
	}, clock.Now)
	require.NoError(t, err)

	router := NewRouter(Deps{
		UseCases:       uc,
		Tokens:         tokens,
		QR:             qrimage.NewGenerator("https://kuro.test"),
		Sweep:          scheduler.NewMandatorySweep(uc.EvaluateMandatory, m, 0, nil),
		Metrics:        m,
		VAPIDPublicKey: "BPublicKeyForTests",
		Ping:           func(context.Context) error { return nil },
	})

	return &apiFixture{db: db, router: router, uc: uc, tokens: tokens, dispatcher: dispatcher, metrics: m, clock: clock}
}

// do 發送 JSON 請求；token 非空時帶 Bearer
func (f *apiFixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func registerBody(suffix string) map[string]any {
	return map[string]any{
		"fullName":       "Cliente " + suffix,
		"email":          "cliente" + suffix + "@kuro.pe",
		"phone":          "98765" + suffix,
		"dni":            "4455" + suffix,
		"sex":            "M",
		"birthdate":      "1992-03-14",
		"marketingOptIn": true,
	}
}

type registeredCustomer struct {
	ID      string
	Token   string
	QRToken string
}

func (f *apiFixture) registerCustomer(t *testing.T, suffix string) registeredCustomer {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/customers/register", registerBody(suffix), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	return registeredCustomer{
		ID:      body["customer"].(map[string]any)["id"].(string),
		Token:   body["token"].(string),
		QRToken: body["qrToken"].(string),
	}
}

// adminToken 建立店員並登入
func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	_, err := f.uc.CreateStaff.Execute(appstaff.CreateStaffCommand{Username: "barra", Password: "secreto-123", Role: "staff"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/admin/login", map[string]any{"username": "barra", "password": "secreto-123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func (f *apiFixture) subscribe(t *testing.T, customerToken string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/push/subscribe", map[string]any{
		"endpoint": "https://push.example.com/send/abc",
		"keys":     map[string]any{"p256dh": "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM", "auth": "tBHItJI5svbpez7KI4CCXg"},
	}, customerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
