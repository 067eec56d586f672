package lock

import (
	"hash/fnv"
	"sync"
)

// DefaultStripes 預設分段數
const DefaultStripes = 256

// StripedLocker 以 key 的雜湊選擇固定數量的 mutex 之一
//
// 同一 key 永遠對應同一把鎖；不同 key 可能共用一把鎖（僅降低並行度，不影響正確性）。
// 鎖不可重入：持有期間不可再對同一 key 呼叫 Lock。
type StripedLocker struct {
	stripes []sync.Mutex
}

// NewStripedLocker n <= 0 時使用 DefaultStripes
func NewStripedLocker(n int) *StripedLocker {
	if n <= 0 {
		n = DefaultStripes
	}
	return &StripedLocker{stripes: make([]sync.Mutex, n)}
}

// Lock 取得 key 對應的鎖，返回解鎖函數
func (l *StripedLocker) Lock(key string) (unlock func()) {
	m := &l.stripes[l.index(key)]
	m.Lock()
	return m.Unlock
}

func (l *StripedLocker) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(l.stripes)))
}
