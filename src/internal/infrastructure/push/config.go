package push

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const (
	publicKeyLength  = 65
	privateKeyLength = 32
	defaultTTL       = 24 * time.Hour
)

// Config VAPID 設定，啟動時建立一次
type Config struct {
	PublicKey  string
	PrivateKey string
	Subject    string
	TTL        time.Duration
}

// Validate 金鑰必須是 base64url 的 P-256 金鑰（公鑰 65 bytes 未壓縮、私鑰 32 bytes）
func (c Config) Validate() error {
	pub, err := decodeKey(c.PublicKey)
	if err != nil {
		return fmt.Errorf("vapid public key: %w", err)
	}
	if len(pub) != publicKeyLength || pub[0] != 0x04 {
		return fmt.Errorf("vapid public key: expected %d-byte uncompressed P-256 point, got %d bytes", publicKeyLength, len(pub))
	}

	priv, err := decodeKey(c.PrivateKey)
	if err != nil {
		return fmt.Errorf("vapid private key: %w", err)
	}
	if len(priv) != privateKeyLength {
		return fmt.Errorf("vapid private key: expected %d bytes, got %d", privateKeyLength, len(priv))
	}

	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("vapid subject is required")
	}
	return nil
}

func (c Config) ttlSeconds() int {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return int(ttl / time.Second)
}

// decodeKey 接受有無 padding 的 base64url
func decodeKey(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, fmt.Errorf("key is empty")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("key is not base64url: %w", err)
	}
	return b, nil
}

// KeyPair 一組 VAPID 金鑰
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// GenerateKeys 產生新的 VAPID 金鑰（vapid-keys 指令）
func GenerateKeys() (KeyPair, error) {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate vapid keys: %w", err)
	}
	return KeyPair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}
