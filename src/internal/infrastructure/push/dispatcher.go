package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
)

// payload service worker 讀取的 JSON
type payload struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Icon  string      `json:"icon,omitempty"`
	Badge string      `json:"badge,omitempty"`
	Image string      `json:"image,omitempty"`
	Data  payloadData `json:"data"`
}

type payloadData struct {
	URL         string `json:"url"`
	PromotionID string `json:"promotionId,omitempty"`
}

// WebPushDispatcher 以 VAPID Web Push 實作 notification.PushDispatcher
type WebPushDispatcher struct {
	cfg    Config
	client webpush.HTTPClient
	logger *zap.Logger
}

// NewWebPushDispatcher 金鑰無效時返回錯誤（啟動即失敗）
func NewWebPushDispatcher(cfg Config, client webpush.HTTPClient, logger *zap.Logger) (*WebPushDispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebPushDispatcher{cfg: cfg, client: client, logger: logger}, nil
}

// PublicKey 給前端訂閱用的 applicationServerKey
func (d *WebPushDispatcher) PublicKey() string {
	return d.cfg.PublicKey
}

// Send 發送一則推播
//
// 2xx 成功；404 / 410 表示端點已失效；其他狀態碼與網路錯誤視為暫時失敗。
func (d *WebPushDispatcher) Send(ctx context.Context, sub notification.PushSubscription, msg notification.PushMessage) notification.DispatchResult {
	body, err := json.Marshal(payload{
		Title: msg.Title,
		Body:  msg.Body,
		Icon:  msg.Icon,
		Badge: msg.Badge,
		Image: msg.Image,
		Data:  payloadData{URL: msg.URL, PromotionID: msg.PromotionID},
	})
	if err != nil {
		return notification.DispatchResult{Err: fmt.Errorf("failed to encode push payload: %w", err)}
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		HTTPClient:      d.client,
		Subscriber:      d.cfg.Subject,
		VAPIDPublicKey:  d.cfg.PublicKey,
		VAPIDPrivateKey: d.cfg.PrivateKey,
		TTL:             d.cfg.ttlSeconds(),
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		return notification.DispatchResult{Err: err}
	}
	defer resp.Body.Close()

	return classify(resp)
}

func classify(resp *http.Response) notification.DispatchResult {
	result := notification.DispatchResult{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Success = true
		_, _ = io.Copy(io.Discard, resp.Body)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.PermanentFailure = true
		result.Err = responseError(resp)
	default:
		result.Err = responseError(resp)
	}
	return result
}

func responseError(resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("push service responded %d: %s", resp.StatusCode, string(detail))
}
