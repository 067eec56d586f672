package httpapi

import (
	"time"

	appcustomer "github.com/jackyeh168/kuro_loyalty/src/internal/application/customer"
	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
)

// JSON 輸出一律 camelCase，與前端 JS 對應

type customerView struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DNI            string    `json:"dni"`
	Sex            string    `json:"sex"`
	Birthdate      string    `json:"birthdate"`
	MarketingOptIn bool      `json:"marketingOptIn"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toCustomerView(dto appcustomer.CustomerDTO) customerView {
	return customerView{
		ID:             dto.ID,
		FullName:       dto.FullName,
		Email:          dto.Email,
		Phone:          dto.Phone,
		DNI:            dto.DNI,
		Sex:            dto.Sex,
		Birthdate:      dto.Birthdate,
		MarketingOptIn: dto.MarketingOptIn,
		CreatedAt:      dto.CreatedAt,
	}
}

type customerWithPointsView struct {
	customerView
	Points int `json:"points"`
}

func toCustomersWithPoints(items []appcustomer.CustomerWithPoints) []customerWithPointsView {
	out := make([]customerWithPointsView, 0, len(items))
	for _, item := range items {
		out = append(out, customerWithPointsView{customerView: toCustomerView(item.CustomerDTO), Points: item.Points})
	}
	return out
}

type promotionView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	PushTitle   string     `json:"pushTitle,omitempty"`
	PushMessage string     `json:"pushMessage,omitempty"`
	CTAURL      string     `json:"ctaUrl,omitempty"`
	Audience    string     `json:"audience"`
	Active      bool       `json:"active"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toPromotionView(dto appnotification.PromotionDTO) promotionView {
	return promotionView{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		ImageURL:    dto.ImageURL,
		PushTitle:   dto.PushTitle,
		PushMessage: dto.PushMessage,
		CTAURL:      dto.CTAURL,
		Audience:    dto.Audience,
		Active:      dto.Active,
		StartAt:     dto.StartAt,
		EndAt:       dto.EndAt,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

func toPromotionViews(dtos []appnotification.PromotionDTO) []promotionView {
	out := make([]promotionView, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, toPromotionView(dto))
	}
	return out
}
