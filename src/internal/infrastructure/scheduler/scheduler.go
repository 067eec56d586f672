package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
)

// Sweeper 召回推播全體掃描
type Sweeper interface {
	Sweep(ctx context.Context) (*appnotification.SweepResult, error)
}

// SweepObserver 掃描結果回報（Prometheus）
type SweepObserver interface {
	ObserveSweep(sent, skipped, failed int)
}

// MandatorySweep 定期執行召回推播掃描
//
// 同一時間只跑一次；上一輪未結束時跳過該 tick。
type MandatorySweep struct {
	sweeper  Sweeper
	observer SweepObserver
	interval time.Duration
	logger   *zap.Logger

	running sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewMandatorySweep interval <= 0 時停用排程（仍可透過 RunOnce 手動觸發）
func NewMandatorySweep(sweeper Sweeper, observer SweepObserver, interval time.Duration, logger *zap.Logger) *MandatorySweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MandatorySweep{sweeper: sweeper, observer: observer, interval: interval, logger: logger}
}

// RunOnce 執行一輪；已有一輪在跑時返回 false
func (s *MandatorySweep) RunOnce(ctx context.Context) (*appnotification.SweepResult, bool, error) {
	if !s.running.TryLock() {
		s.logger.Info("mandatory sweep already running, skipping")
		return nil, false, nil
	}
	defer s.running.Unlock()

	started := time.Now()
	result, err := s.sweeper.Sweep(ctx)
	if result != nil && s.observer != nil {
		s.observer.ObserveSweep(result.Sent, result.Skipped, result.Failed)
	}
	if err != nil {
		s.logger.Error("mandatory sweep failed", zap.Error(err))
		return result, true, err
	}

	s.logger.Info("mandatory sweep finished",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, true, nil
}

// Start 啟動背景 ticker
func (s *MandatorySweep) Start() {
	if s.interval <= 0 {
		s.logger.Info("mandatory sweep scheduler disabled")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _, _ = s.RunOnce(ctx)
			}
		}
	}()
	s.logger.Info("mandatory sweep scheduler started", zap.Duration("interval", s.interval))
}

// Stop 取消進行中的掃描並等待結束
func (s *MandatorySweep) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register 掛到 fx 生命週期
func Register(lc fx.Lifecycle, s *MandatorySweep) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
