package qrimage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 300
	MinSize     = 64
	MaxSize     = 1024
	maxContent  = 1024
)

var ErrInvalidContent = errors.New("qr content must be 1-1024 characters")

// Generator 產生 QR PNG；token 會展開為 {baseURL}/c/{token}
type Generator struct {
	baseURL string
}

// NewGenerator baseURL 例如 https://kuro.pe
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// CustomerURL 客戶 QR 內容
func (g *Generator) CustomerURL(token string) string {
	return g.baseURL + "/c/" + token
}

// PNG 將內容編碼為 PNG；size 超出範圍時夾到邊界
func (g *Generator) PNG(content string, size int) ([]byte, error) {
	if content == "" || len(content) > maxContent {
		return nil, ErrInvalidContent
	}
	png, err := qrcode.Encode(content, qrcode.Medium, clampSize(size))
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	return png, nil
}

// DataURL data:image/png;base64,...（嵌入 JSON 回應）
func (g *Generator) DataURL(content string) (string, error) {
	png, err := g.PNG(content, DefaultSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func clampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}
