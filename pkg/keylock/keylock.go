// Package keylock 提供按复合键分片的互斥锁
//
// 业务背景：预约准入控制（check-then-reserve）必须按
// (门店, 和服, 到店日期) 三元组串行化，否则两个并发请求都能通过
// 库存检查，联合超卖。不同键之间的请求互不竞争，可以并行。
//
// 设计说明：
// 1. 按键哈希分片，降低锁表本身的竞争
// 2. 每个键对应一个容量为1的channel：发送即加锁，接收即解锁
//    同一键上阻塞的发送方由channel的等待队列按到达顺序唤醒（先到先得）
// 3. 获取锁支持有界等待：超时返回ErrAcquireTimeout而非无限阻塞，
//    避免高竞争下请求排队拖垮尾延迟
// 4. 键引用计数：无人持有且无人等待时从表中删除，防止键空间无限增长
package keylock

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

// ErrAcquireTimeout 在超时时间内未能获得锁
// 调用方应将其映射为可重试的Busy错误返回给用户
var ErrAcquireTimeout = errors.New("keylock: 获取锁超时")

const shardCount = 32

// KeyLock 按键互斥锁（分片）
type KeyLock struct {
	timeout time.Duration // 默认获取锁的最长等待时间
	shards  [shardCount]shard
}

type shard struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

// keyMutex 单个键的锁
// refs统计持有者+等待者数量，归零后从shard表中移除
type keyMutex struct {
	ch   chan struct{} // 容量1：持有锁 = channel中有一个元素
	refs int
}

// New 创建KeyLock
// timeout为单次Acquire的最长等待时间，<=0 表示不限时（不建议）
func New(timeout time.Duration) *KeyLock {
	l := &KeyLock{timeout: timeout}
	for i := range l.shards {
		l.shards[i].locks = make(map[string]*keyMutex)
	}
	return l
}

// Acquire 获取key上的互斥锁（有界等待）
// 成功时返回release函数，调用方必须在临界区结束后调用它（建议defer）
// 等待超过timeout或ctx被取消时返回ErrAcquireTimeout
//
// 使用示例：
//
//	release, err := lock.Acquire(ctx, "3:15:2026-04-10")
//	if err != nil {
//	    return apperrors.ErrBusy
//	}
//	defer release()
func (l *KeyLock) Acquire(ctx context.Context, key string) (func(), error) {
	s := &l.shards[shardIndex(key)]

	// 登记为等待者
	s.mu.Lock()
	km, ok := s.locks[key]
	if !ok {
		km = &keyMutex{ch: make(chan struct{}, 1)}
		s.locks[key] = km
	}
	km.refs++
	s.mu.Unlock()

	var timeoutCh <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case km.ch <- struct{}{}:
		// 加锁成功
		var once sync.Once
		release := func() {
			once.Do(func() {
				<-km.ch
				l.unref(s, key, km)
			})
		}
		return release, nil
	case <-ctx.Done():
		l.unref(s, key, km)
		return nil, ErrAcquireTimeout
	case <-timeoutCh:
		l.unref(s, key, km)
		return nil, ErrAcquireTimeout
	}
}

// unref 减少键引用计数，归零时回收
func (l *KeyLock) unref(s *shard, key string, km *keyMutex) {
	s.mu.Lock()
	km.refs--
	if km.refs == 0 {
		delete(s.locks, key)
	}
	s.mu.Unlock()
}

// shardIndex 计算键所属分片
func shardIndex(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
