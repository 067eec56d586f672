package customer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
)

// ===========================
// QRToken Value Object
// ===========================

// QRTokenBytes 隨機位元組數（256-bit 熵）
const QRTokenBytes = 32

// qrTokenPattern 64 個小寫十六進位字元
var qrTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// QRToken 客戶 QR 碼上的識別符
//
// 不變條件：
// - 全域唯一（資料庫 unique index）
// - 指派後不可變
type QRToken struct {
	value string
}

// NewQRToken 驗證並建立 QRToken
//
// 只接受精確格式，大寫或含空白的字串視為無效。
func NewQRToken(value string) (QRToken, error) {
	if !qrTokenPattern.MatchString(value) {
		return QRToken{}, ErrInvalidQRToken.WithContext("length", len(value))
	}
	return QRToken{value: value}, nil
}

// GenerateQRToken 從亂數來源產生新 token
//
// r 為 nil 時使用 crypto/rand。
func GenerateQRToken(r io.Reader) (QRToken, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, QRTokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return QRToken{}, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return QRToken{value: hex.EncodeToString(buf)}, nil
}

// String 返回 token 字串
func (t QRToken) String() string {
	return t.value
}

// Equals 值相等
func (t QRToken) Equals(other QRToken) bool {
	return t.value == other.value
}

// IsZero 是否為零值
func (t QRToken) IsZero() bool {
	return t.value == ""
}
