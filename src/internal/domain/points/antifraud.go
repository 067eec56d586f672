package points

import (
	"time"
)

// ===========================
// AntifraudGate 領域服務
// ===========================

// DefaultCooldown 兩次 QR 掃描發點的最短間隔
const DefaultCooldown = 24 * time.Hour

// Decision 防詐判斷結果
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RetryAfterMinutes 剩餘冷卻時間，向上取整到分鐘（顯示用）
//
// 例：剩 1 秒顯示 1 分鐘；剩 23h 顯示 1380 分鐘。
func (d Decision) RetryAfterMinutes() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	minutes := int(d.RetryAfter / time.Minute)
	if d.RetryAfter%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// AntifraudGate 決定一次掃描能否發點
//
// 無狀態：最近一次 QR_SCAN 事件由呼叫端在同一事務中查出後傳入。
type AntifraudGate struct {
	cooldown time.Duration
}

// NewAntifraudGate 建構函數，cooldown <= 0 時使用 24h
func NewAntifraudGate(cooldown time.Duration) *AntifraudGate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &AntifraudGate{cooldown: cooldown}
}

// Cooldown 返回冷卻期長度
func (g *AntifraudGate) Cooldown() time.Duration {
	return g.cooldown
}

// Evaluate 依最近一次 QR_SCAN 事件判斷
//
// 業務規則：
// - 沒有事件：允許
// - 事件來源不是 QR_SCAN：允許（非掃描事件永不阻擋）
// - elapsed >= cooldown：允許
// - 否則拒絕，RetryAfter = cooldown - elapsed
//
// 事件時間晚於 now（時鐘回撥）時 elapsed 為負，仍在冷卻期內。
func (g *AntifraudGate) Evaluate(lastScan *PointEvent, now time.Time) Decision {
	if lastScan == nil || !lastScan.Source().GatesAntifraud() {
		return Decision{Allowed: true}
	}

	elapsed := now.Sub(lastScan.CreatedAt())
	if elapsed >= g.cooldown {
		return Decision{Allowed: true}
	}

	return Decision{
		Allowed:    false,
		RetryAfter: g.cooldown - elapsed,
	}
}
