package shared

import (
	"sync"
	"time"
)

// Clock 時間來源
//
// 冷卻期、地理推播時間窗都依賴「現在」，測試時注入固定時鐘。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間（UTC）
type SystemClock struct{}

// Now 返回目前 UTC 時間
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock 固定時間，可手動推進
type FixedClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewFixedClock 建立固定時鐘
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t.UTC()}
}

// Now 返回目前設定的時間
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance 推進時間
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set 設定時間
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t.UTC()
}
