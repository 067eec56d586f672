package customer

import (
	"regexp"
	"strings"
	"time"
)

// ===========================
// Profile 註冊資料
// ===========================

// Sex 性別代碼
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

// ParseSex 解析性別（不分大小寫）
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToUpper(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	case SexOther:
		return SexOther, nil
	}
	return "", ErrInvalidSex.WithContext("sex", s)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail 驗證並轉小寫
func NormalizeEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail.WithContext("email", s)
	}
	return email, nil
}

// MinDNILength DNI 最少字元數
const MinDNILength = 8

// NormalizeDNI 去除空白並驗證長度
func NormalizeDNI(s string) (string, error) {
	dni := strings.TrimSpace(s)
	if len(dni) < MinDNILength {
		return "", ErrInvalidDNI
	}
	return dni, nil
}

// htmlUnsafe 註冊姓名中移除的字元
var htmlUnsafe = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "")

// Profile 客戶註冊資料（值對象）
//
// DNI 明文僅用於唯一性檢查，登入比對使用 dniHash。
type Profile struct {
	FullName       string
	Email          string
	Phone          PhoneNumber
	DNI            string
	DNIHash        string
	Sex            Sex
	Birthdate      time.Time
	MarketingOptIn bool
}

// ProfileInput 未驗證的註冊輸入
type ProfileInput struct {
	FullName       string
	Email          string
	Phone          string
	DNI            string
	Sex            string
	Birthdate      string // YYYY-MM-DD
	MarketingOptIn bool
}

// NewProfile 驗證註冊輸入（Checked Constructor）
//
// 參數 now 用於檢查生日必須在過去。
// DNIHash 由 Application Layer 另外填入。
func NewProfile(in ProfileInput, now time.Time) (Profile, error) {
	name := strings.TrimSpace(htmlUnsafe.Replace(in.FullName))
	if len([]rune(name)) < 2 {
		return Profile{}, ErrInvalidFullName
	}

	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return Profile{}, err
	}

	phone, err := NewPhoneNumber(in.Phone)
	if err != nil {
		return Profile{}, err
	}

	dni, err := NormalizeDNI(in.DNI)
	if err != nil {
		return Profile{}, err
	}

	sex, err := ParseSex(in.Sex)
	if err != nil {
		return Profile{}, err
	}

	birthdate, err := time.Parse("2006-01-02", strings.TrimSpace(in.Birthdate))
	if err != nil || !birthdate.Before(now) {
		return Profile{}, ErrInvalidBirthdate.WithContext("birthdate", in.Birthdate)
	}

	return Profile{
		FullName:       name,
		Email:          email,
		Phone:          phone,
		DNI:            dni,
		Sex:            sex,
		Birthdate:      birthdate,
		MarketingOptIn: in.MarketingOptIn,
	}, nil
}
