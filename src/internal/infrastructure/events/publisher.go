package events

import (
	"go.uber.org/zap"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/metrics"
)

// Publisher 將領域事件轉為 Prometheus 指標與結構化日誌
//
// 單一程序、沒有外部訂閱者；事件只用於觀測。
type Publisher struct {
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewPublisher 建構函數
func NewPublisher(m *metrics.Metrics, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{metrics: m, logger: logger}
}

var _ shared.EventPublisher = (*Publisher)(nil)

// Publish 記錄單一事件
func (p *Publisher) Publish(event shared.DomainEvent) error {
	switch e := event.(type) {
	case *points.PointAwardedEvent:
		p.metrics.PointsAwarded.Inc()
	case *points.PointDeniedEvent:
		p.metrics.PointsDenied.Inc()
	case *notification.PushDispatchedEvent:
		p.metrics.PushDispatched.WithLabelValues(string(e.Kind()), e.Outcome()).Inc()
	}

	p.logger.Debug("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// PublishBatch 依序發布
func (p *Publisher) PublishBatch(events []shared.DomainEvent) error {
	for _, e := range events {
		if err := p.Publish(e); err != nil {
			return err
		}
	}
	return nil
}
