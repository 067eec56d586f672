package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ===========================
// Promotion CRUD
// ===========================

// PromotionCommand 建立 / 更新促銷活動
//
// Active 為 nil 時：建立預設啟用，更新沿用原值。
type PromotionCommand struct {
	Title       string
	Description string
	ImageURL    string
	PushTitle   string
	PushMessage string
	CTAURL      string
	Audience    string
	Active      *bool
	StartAt     *time.Time
	EndAt       *time.Time
}

// PromotionDTO 促銷活動輸出
type PromotionDTO struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	PushTitle   string
	PushMessage string
	CTAURL      string
	Audience    string
	Active      bool
	StartAt     *time.Time
	EndAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToPromotionDTO Domain → DTO
func ToPromotionDTO(p *notification.Promotion) PromotionDTO {
	return PromotionDTO{
		ID:          p.ID().String(),
		Title:       p.Title(),
		Description: p.Description(),
		ImageURL:    p.ImageURL(),
		PushTitle:   p.PushTitle(),
		PushMessage: p.PushMessage(),
		CTAURL:      p.CTAURL(),
		Audience:    string(p.Audience()),
		Active:      p.Active(),
		StartAt:     p.StartAt(),
		EndAt:       p.EndAt(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// PromotionUseCase 促銷活動管理
type PromotionUseCase struct {
	repo      notification.PromotionRepository
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewPromotionUseCase 創建 Use Case 實例
func NewPromotionUseCase(repo notification.PromotionRepository, txManager shared.TransactionManager, clock shared.Clock) *PromotionUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &PromotionUseCase{repo: repo, txManager: txManager, clock: clock}
}

func (cmd PromotionCommand) toInput(defaultActive bool) (notification.PromotionInput, error) {
	audience, err := notification.ParseAudience(cmd.Audience)
	if err != nil {
		return notification.PromotionInput{}, err
	}
	active := defaultActive
	if cmd.Active != nil {
		active = *cmd.Active
	}
	return notification.PromotionInput{
		Title:       cmd.Title,
		Description: cmd.Description,
		ImageURL:    cmd.ImageURL,
		PushTitle:   cmd.PushTitle,
		PushMessage: cmd.PushMessage,
		CTAURL:      cmd.CTAURL,
		Audience:    audience,
		Active:      active,
		StartAt:     utc(cmd.StartAt),
		EndAt:       utc(cmd.EndAt),
	}, nil
}

// Create 建立促銷活動
func (uc *PromotionUseCase) Create(cmd PromotionCommand) (*PromotionDTO, error) {
	in, err := cmd.toInput(true)
	if err != nil {
		return nil, err
	}
	p, err := notification.NewPromotion(in, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return uc.repo.Save(ctx, p)
	}); err != nil {
		return nil, err
	}
	dto := ToPromotionDTO(p)
	return &dto, nil
}

// Update 覆寫可編輯欄位
func (uc *PromotionUseCase) Update(id string, cmd PromotionCommand) (*PromotionDTO, error) {
	promotionID, err := notification.PromotionIDFromString(id)
	if err != nil {
		return nil, err
	}

	var updated *notification.Promotion
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		p, err := uc.repo.FindByID(ctx, promotionID)
		if err != nil {
			return err
		}
		in, err := cmd.toInput(p.Active())
		if err != nil {
			return err
		}
		if err := p.Update(in, uc.clock.Now()); err != nil {
			return err
		}
		updated = p
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	dto := ToPromotionDTO(updated)
	return &dto, nil
}

// Delete 停用促銷活動（保留紀錄，稽核記錄仍可對應）
func (uc *PromotionUseCase) Delete(id string) error {
	promotionID, err := notification.PromotionIDFromString(id)
	if err != nil {
		return err
	}
	return uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		p, err := uc.repo.FindByID(ctx, promotionID)
		if err != nil {
			return err
		}
		p.Deactivate(uc.clock.Now())
		return uc.repo.Update(ctx, p)
	})
}

// Get 查詢單一促銷活動
func (uc *PromotionUseCase) Get(id string) (*PromotionDTO, error) {
	promotionID, err := notification.PromotionIDFromString(id)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.FindByID(nil, promotionID)
	if err != nil {
		return nil, err
	}
	dto := ToPromotionDTO(p)
	return &dto, nil
}

// ListAll 管理後台：全部促銷活動
func (uc *PromotionUseCase) ListAll() ([]PromotionDTO, error) {
	all, err := uc.repo.ListAll(nil)
	if err != nil {
		return nil, err
	}
	return toDTOs(all), nil
}

// ListLive 公開：目前有效的促銷活動
func (uc *PromotionUseCase) ListLive() ([]PromotionDTO, error) {
	live, err := uc.repo.ListLive(nil, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	return toDTOs(live), nil
}

func toDTOs(promotions []*notification.Promotion) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, ToPromotionDTO(p))
	}
	return out
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
