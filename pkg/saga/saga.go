// Package saga 实现通用的Saga补偿事务框架
//
// Saga模式核心思想：
// 1. 将长事务拆分为多个本地短事务
// 2. 每个短事务有对应的补偿操作
// 3. 如果某步失败，按逆序执行已完成步骤的补偿操作
//
// 业务场景：套餐门店关联的"破坏性重建"（先删除全部关联，再按
// 区域策略重新写入）。两步之间失败会让套餐暂时在所有门店不可约，
// 因此删除步骤必须挂接补偿：重建失败时恢复删除前的关联快照。
//
// 教学要点：
// - Saga vs 2PC（两阶段提交）的区别
// - 补偿操作的幂等性设计
// - 超时控制与故障恢复
package saga

import (
	"context"
	"fmt"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如删除旧关联、写入新关联）
// 2. Compensate是补偿操作（如恢复关联快照）
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga事务
//
// 参数：
//
//	timeout: 整体超时时间，防止长时间阻塞
//
// 示例：
//
//	saga := NewSaga(30 * time.Second)
//	saga.AddStep("删除旧关联", deleteLinks, restoreLinks)
//	saga.AddStep("写入新关联", insertLinks, nil)
//	err := saga.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
//
// 设计原则：
// 1. 步骤顺序很重要（按添加顺序执行，按逆序补偿）
// 2. Action和Compensate都可以为nil（如最后一步通常无需补偿）
// 3. 补偿操作必须完全独立，只依赖自己Action捕获的上下文
//    （用闭包捕获快照，不要依赖全局状态）
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败，触发补偿流程（逆序执行已完成步骤的Compensate）
// 3. 返回错误信息
//
// 超时处理：
// - 整体超时时间由NewSaga的timeout参数指定
// - 超时时会立即触发补偿流程
//
// 幂等性要求：
// - Action和Compensate都必须支持幂等
// - 原因：网络故障可能导致重试
//
// ⚠️ 注意事项：
// 1. 补偿操作可能失败（需要人工介入或重试机制）
// 2. Saga保证"最终一致性"，而非"强一致性"
// 3. 补偿期间数据可能处于中间状态（需要业务容忍）
func (s *Saga) Execute(ctx context.Context) error {
	// 创建带超时的Context
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// 按顺序执行每个步骤的Action
	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿
			s.compensate(context.Background()) // 使用新Context，避免补偿也超时
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		// 执行正向操作
		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				// 执行失败，触发补偿
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		// 记录已执行的步骤（用于补偿）
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 执行补偿流程
//
// 补偿原则：
// 1. 按逆序执行已完成步骤的Compensate
// 2. 即使某个Compensate失败，也继续执行后续补偿（尽最大努力）
//
// 为什么逆序？
//   - 依赖关系：后执行的步骤可能依赖先执行的步骤
//   - 示例：先"删除旧关联"，后"写入新关联"
//     补偿时应先回滚写入，再恢复删除前的快照
//
// 补偿失败的处理：
// - 记录日志（需要人工介入）
// - 可选：发送告警通知 / 写入死信队列稍后重试
func (s *Saga) compensate(ctx context.Context) {
	// 逆序执行补偿操作
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				// ⚠️ 补偿失败：记录日志，继续执行后续补偿
				fmt.Printf("⚠️ 补偿失败[步骤:%s]: %v\n", step.Name, err)
			}
		}
	}

	// 清空已执行列表
	s.executed = nil
}
