package notification

import (
	"sort"
	"strings"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ===========================
// PromotionID
// ===========================

// PromotionMarker 是 PromotionID 的標記類型
type PromotionMarker struct{}

// PromotionID 促銷活動 ID
type PromotionID = shared.EntityID[PromotionMarker]

// NewPromotionID 生成新的促銷活動 ID
func NewPromotionID() PromotionID {
	return shared.NewEntityID[PromotionMarker]()
}

// PromotionIDFromString 解析促銷活動 ID
func PromotionIDFromString(s string) (PromotionID, error) {
	return shared.EntityIDFromString[PromotionMarker](s, ErrInvalidPromotionID)
}

// ===========================
// Audience
// ===========================

// Audience 促銷活動的目標受眾
type Audience string

const (
	AudienceAll          Audience = "ALL"
	AudienceNearby       Audience = "NEARBY"
	AudienceReactivation Audience = "REACTIVATION"
)

// ParseAudience 解析受眾（空字串視為 ALL）
func ParseAudience(s string) (Audience, error) {
	switch a := Audience(strings.ToUpper(strings.TrimSpace(s))); a {
	case "":
		return AudienceAll, nil
	case AudienceAll, AudienceNearby, AudienceReactivation:
		return a, nil
	}
	return "", ErrInvalidAudience.WithContext("audience", s)
}

// ===========================
// Promotion
// ===========================

// Promotion 促銷活動
//
// 推播內容優先使用 PushTitle / PushMessage，未設定時由 fallback 補上。
type Promotion struct {
	id          PromotionID
	title       string
	description string
	imageURL    string
	pushTitle   string
	pushMessage string
	ctaURL      string
	audience    Audience
	active      bool
	startAt     *time.Time
	endAt       *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// PromotionInput 建立或更新促銷活動的輸入
type PromotionInput struct {
	Title       string
	Description string
	ImageURL    string
	PushTitle   string
	PushMessage string
	CTAURL      string
	Audience    Audience
	Active      bool
	StartAt     *time.Time
	EndAt       *time.Time
}

func (in PromotionInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrInvalidPromotion.WithContext("field", "title")
	}
	if in.StartAt != nil && in.EndAt != nil && in.EndAt.Before(*in.StartAt) {
		return ErrInvalidPromotion.WithContext("field", "end_at", "reason", "end_at before start_at")
	}
	return nil
}

// NewPromotion 建立促銷活動
func NewPromotion(in PromotionInput, now time.Time) (*Promotion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Promotion{id: NewPromotionID(), createdAt: now}
	p.apply(in, now)
	return p, nil
}

// ReconstructPromotion 從資料庫重建
func ReconstructPromotion(id PromotionID, in PromotionInput, createdAt, updatedAt time.Time) *Promotion {
	p := &Promotion{id: id, createdAt: createdAt}
	p.apply(in, updatedAt)
	return p
}

// Update 覆寫可編輯欄位
func (p *Promotion) Update(in PromotionInput, now time.Time) error {
	if err := in.validate(); err != nil {
		return err
	}
	p.apply(in, now)
	return nil
}

// Deactivate 停用
func (p *Promotion) Deactivate(now time.Time) {
	p.active = false
	p.updatedAt = now
}

func (p *Promotion) apply(in PromotionInput, now time.Time) {
	audience := in.Audience
	if audience == "" {
		audience = AudienceAll
	}
	p.title = strings.TrimSpace(in.Title)
	p.description = strings.TrimSpace(in.Description)
	p.imageURL = strings.TrimSpace(in.ImageURL)
	p.pushTitle = strings.TrimSpace(in.PushTitle)
	p.pushMessage = strings.TrimSpace(in.PushMessage)
	p.ctaURL = strings.TrimSpace(in.CTAURL)
	p.audience = audience
	p.active = in.Active
	p.startAt = in.StartAt
	p.endAt = in.EndAt
	p.updatedAt = now
}

// IsLive 啟用中且在有效期間內（起訖皆含）
func (p *Promotion) IsLive(now time.Time) bool {
	if !p.active {
		return false
	}
	if p.startAt != nil && now.Before(*p.startAt) {
		return false
	}
	if p.endAt != nil && now.After(*p.endAt) {
		return false
	}
	return true
}

// Targets 是否適用於指定受眾（ALL 適用於所有受眾）
func (p *Promotion) Targets(audience Audience) bool {
	return p.audience == audience || p.audience == AudienceAll
}

func (p *Promotion) ID() PromotionID      { return p.id }
func (p *Promotion) Title() string        { return p.title }
func (p *Promotion) Description() string  { return p.description }
func (p *Promotion) ImageURL() string     { return p.imageURL }
func (p *Promotion) PushTitle() string    { return p.pushTitle }
func (p *Promotion) PushMessage() string  { return p.pushMessage }
func (p *Promotion) CTAURL() string       { return p.ctaURL }
func (p *Promotion) Audience() Audience   { return p.audience }
func (p *Promotion) Active() bool         { return p.active }
func (p *Promotion) StartAt() *time.Time  { return p.startAt }
func (p *Promotion) EndAt() *time.Time    { return p.endAt }
func (p *Promotion) CreatedAt() time.Time { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time { return p.updatedAt }

// SelectPromotion 為自動推播挑選促銷活動
//
// 條件：IsLive 且 Targets(preferred)
// 排序：受眾完全符合者優先，其次建立時間新者優先
func SelectPromotion(promotions []*Promotion, preferred Audience, now time.Time) *Promotion {
	candidates := make([]*Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.IsLive(now) && p.Targets(preferred) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ei := candidates[i].audience == preferred
		ej := candidates[j].audience == preferred
		if ei != ej {
			return ei
		}
		return candidates[i].createdAt.After(candidates[j].createdAt)
	})
	return candidates[0]
}
