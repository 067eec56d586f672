package notification

// ===========================
// PushMessage 推播內容
// ===========================

const (
	DefaultIcon   = "/favicon.ico"
	DefaultBadge  = "/favicon.ico"
	DefaultCTAURL = "/dashboard.html"
)

// PushMessage 送往推播服務的內容
type PushMessage struct {
	Title       string
	Body        string
	Icon        string
	Badge       string
	Image       string
	URL         string
	PromotionID string
}

// NearbyFallback 沒有適用促銷活動時的附近推播內容
func NearbyFallback() PushMessage {
	return PushMessage{
		Title: "¡Estás cerca de KURO!",
		Body:  "Ven a visitarnos, tenemos beneficios especiales para ti",
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		URL:   DefaultCTAURL,
	}
}

// ReactivationFallback 沒有適用促銷活動時的召回推播內容
func ReactivationFallback() PushMessage {
	return PushMessage{
		Title: "¡Te extrañamos en KURO!",
		Body:  "Ven a visitarnos y obtén puntos de fidelización",
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		URL:   DefaultCTAURL,
	}
}

// MessageFromPromotion 以促銷活動內容覆蓋 fallback
//
// PushTitle 為空時用 fallback 標題；PushMessage 為空時用 Description，再為空才用 fallback。
func MessageFromPromotion(p *Promotion, fallback PushMessage) PushMessage {
	if p == nil {
		return fallback
	}
	msg := fallback
	msg.PromotionID = p.ID().String()
	if p.PushTitle() != "" {
		msg.Title = p.PushTitle()
	}
	switch {
	case p.PushMessage() != "":
		msg.Body = p.PushMessage()
	case p.Description() != "":
		msg.Body = p.Description()
	}
	if p.CTAURL() != "" {
		msg.URL = p.CTAURL()
	}
	if p.ImageURL() != "" {
		msg.Image = p.ImageURL()
	}
	return msg
}

// ManualMessage 管理員手動輸入的推播內容
func ManualMessage(title, body, ctaURL string) PushMessage {
	msg := PushMessage{
		Title: title,
		Body:  body,
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		URL:   ctaURL,
	}
	if msg.URL == "" {
		msg.URL = DefaultCTAURL
	}
	return msg
}
