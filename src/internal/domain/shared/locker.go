package shared

// KeyedLocker 以 key 為單位的互斥鎖
//
// 同一客戶的「Gate 檢查 + 發放點數」以及推播評估必須序列化；
// 不同客戶之間可並行。
//
// 使用：
//   unlock := locker.Lock(customerID.String())
//   defer unlock()
type KeyedLocker interface {
	Lock(key string) (unlock func())
}

// Hasher 單向雜湊（密碼、DNI）
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}
