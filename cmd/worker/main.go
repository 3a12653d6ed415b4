package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/linwan/kimono-rental/internal/infrastructure/config"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	"github.com/linwan/kimono-rental/pkg/metrics"
	"github.com/linwan/kimono-rental/pkg/mq"
)

const notificationQueue = "booking.notification"

// main 通知Worker入口
// 订阅booking.*事件并触发到店提醒/确认通知
// 说明：通知渠道(邮件/LINE)尚未接入,当前实现记录结构化日志,
// 渠道适配器接入后替换notify函数即可
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("mq.enabled=false,通知Worker无事可做")
	}

	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		notificationQueue,
		[]string{"booking.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	// Ctrl+C / SIGTERM触发优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🚀 通知Worker启动: exchange=%s queue=%s\n", cfg.MQ.Exchange, notificationQueue)

	if err := consumer.Consume(ctx, handleBookingEvent); err != nil {
		log.Fatalf("消费失败: %v", err)
	}
}

// handleBookingEvent 处理单条预约事件
// 返回error时消息Nack重新入队,幂等性由通知渠道侧的去重保证
func handleBookingEvent(body []byte) error {
	var evt event.BookingEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		// 畸形消息重新入队只会死循环,记录后丢弃
		log.Printf("⚠ 丢弃无法解析的消息: %v", err)
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
			"queue": notificationQueue, "result": "failure",
		})
		return nil
	}

	notify(evt)
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
		"queue": notificationQueue, "result": "success",
	})
	return nil
}

// notify 向顾客发送预约状态通知
func notify(evt event.BookingEvent) {
	target := "游客(到店出示预约号)"
	if evt.CustomerID != nil {
		target = fmt.Sprintf("顾客%d", *evt.CustomerID)
	}
	log.Printf("📤 通知%s: 预约%s 状态[%s] 到店日期%s", target, evt.BookingNo, evt.Status, evt.VisitDate)
}
