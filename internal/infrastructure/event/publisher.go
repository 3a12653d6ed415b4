// Package event 领域事件发布基础设施
//
// 预约引擎在状态变化时发出领域事件,由外部协作方订阅:
//   - booking.created   → 通知服务(预约确认提醒)
//   - booking.confirmed → 支付服务(发起扣款)
//   - booking.cancelled → 支付服务(退款)、通知服务
//   - booking.completed → 评价邀请、会员积分
//
// 设计说明:
// 1. application层只依赖Publisher接口,不感知RabbitMQ
// 2. 发布经熔断器保护:MQ故障时快速失败,不拖垮预约主流程
//    (事件是尽力而为的通知,不是事务的一部分)
// 3. mq.enabled=false时使用NopPublisher,本地开发无需RabbitMQ
package event

import (
	"context"
	"log"
	"time"

	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/infrastructure/config"
	"github.com/linwan/kimono-rental/pkg/circuitbreaker"
	"github.com/linwan/kimono-rental/pkg/metrics"
	"github.com/linwan/kimono-rental/pkg/mq"
	"github.com/linwan/kimono-rental/pkg/tracing"
)

// 事件路由键
const (
	RouteBookingCreated   = "booking.created"
	RouteBookingConfirmed = "booking.confirmed"
	RouteBookingCancelled = "booking.cancelled"
	RouteBookingCompleted = "booking.completed"
)

// BookingEvent 预约事件载荷
// 字段面向订阅方:预约号定位业务对象,状态和日期用于无需回查的轻量处理
type BookingEvent struct {
	BookingID  uint   `json:"booking_id"`
	BookingNo  string `json:"booking_no"`
	Status     string `json:"status"`
	VisitDate  string `json:"visit_date"` // YYYY-MM-DD
	CustomerID *uint  `json:"customer_id,omitempty"`
	TraceID    string `json:"trace_id,omitempty"` // 关联调用链
	OccurredAt int64  `json:"occurred_at"`        // Unix秒
}

// NewBookingEvent 从预约聚合构造事件载荷
func NewBookingEvent(b *booking.Booking) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID,
		BookingNo:  b.BookingNo,
		Status:     b.Status.String(),
		VisitDate:  b.VisitDate.Format("2006-01-02"),
		CustomerID: b.CustomerID,
		OccurredAt: time.Now().Unix(),
	}
}

// Publisher 事件发布端口(application层依赖此接口)
type Publisher interface {
	// PublishBookingEvent 发布预约事件
	// 发布失败只记录,不影响调用方的业务结果
	PublishBookingEvent(ctx context.Context, routingKey string, evt BookingEvent)
}

// MQPublisher RabbitMQ实现
type MQPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewMQPublisher 创建RabbitMQ事件发布器
// mq.enabled=false时返回NopPublisher(本地开发/测试无MQ)
func NewMQPublisher(cfg *config.Config) (Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Println("⚠ 事件发布已关闭(mq.enabled=false)，事件仅记录日志")
		return &NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}

	// 熔断器:MQ连续失败5次打开,30秒后半开探测
	cb := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("⚠ 熔断器[%s]状态变化: %s -> %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	p := &MQPublisher{
		publisher: publisher,
		breaker:   cb,
		exchange:  cfg.MQ.Exchange,
	}

	cleanup := func() {
		if err := p.publisher.Close(); err != nil {
			log.Printf("关闭事件发布器失败: %v", err)
		}
	}

	return p, cleanup, nil
}

// PublishBookingEvent 发布预约事件(熔断保护,尽力而为)
func (p *MQPublisher) PublishBookingEvent(ctx context.Context, routingKey string, evt BookingEvent) {
	if evt.TraceID == "" {
		evt.TraceID = tracing.ExtractTraceID(ctx)
	}
	if evt.OccurredAt == 0 {
		evt.OccurredAt = time.Now().Unix()
	}

	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, evt)
	})

	labels := map[string]string{"exchange": p.exchange, "routing_key": routingKey}
	switch {
	case err == circuitbreaker.ErrOpenState:
		// 熔断中:跳过发布,不等待连接超时
		log.Printf("⚠ 事件发布熔断中，跳过: %s %s", routingKey, evt.BookingNo)
		metrics.IncCounterVec(metrics.CircuitBreakerRequests,
			map[string]string{"name": "event-publisher", "result": "rejected"})
	case err != nil:
		log.Printf("⚠ 事件发布失败: %s %s: %v", routingKey, evt.BookingNo, err)
		metrics.IncCounterVec(metrics.CircuitBreakerRequests,
			map[string]string{"name": "event-publisher", "result": "failure"})
	default:
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, labels)
		metrics.IncCounterVec(metrics.CircuitBreakerRequests,
			map[string]string{"name": "event-publisher", "result": "success"})
	}
}

// NopPublisher 空实现:事件仅记录日志
type NopPublisher struct{}

// PublishBookingEvent 记录日志后丢弃
func (p *NopPublisher) PublishBookingEvent(ctx context.Context, routingKey string, evt BookingEvent) {
	log.Printf("📤 [事件] %s booking_no=%s status=%s", routingKey, evt.BookingNo, evt.Status)
}
