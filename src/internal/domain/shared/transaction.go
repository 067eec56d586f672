package shared

// TransactionContext 事務上下文介面
//
// 行為約定：
// - ctx != nil: 在調用者的事務中執行（事務傳播）
// - ctx == nil: 使用 auto-commit 模式（僅限單一讀操作）
//
// Repository 方法約束：
// - 寫操作（Save / Update / Increment / Append）必須在事務中
// - 讀操作可傳入 nil
//
// 範例：點數發放必須在同一事務內完成 Gate 檢查與遞增
//   txManager.InTransaction(func(ctx TransactionContext) error {
//       last, _ := eventRepo.FindLatestBySource(ctx, customerID, points.SourceQRScan)
//       ...
//       return balanceRepo.Increment(ctx, customerID, 1)
//   })
//
// 這是標記介面（Marker Interface），Infrastructure Layer 提供具體實作。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回錯誤或 panic 時回滾，否則提交。
type TransactionManager interface {
	InTransaction(fn func(ctx TransactionContext) error) error
}
