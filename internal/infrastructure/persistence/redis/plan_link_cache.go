package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// PlanLinkCache 套餐-门店关联缓存
// 设计说明：
// 1. availableForPlan要先取套餐关联的门店集合,这是读多写少的热点数据
//    (只有Mapper重连会改变它),适合旁路缓存(Cache-Aside)
// 2. Key设计：plan_links:{plan_id},值为门店ID数组的JSON
// 3. 失效策略：重连(非破坏式/破坏式)完成后主动Invalidate;
//    TTL兜底防止漏失效导致的永久脏读
// 4. 缓存未命中返回(nil, false, nil),由调用方回源数据库并回填
type PlanLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlanLinkCache 创建关联缓存
func NewPlanLinkCache(client *redis.Client) *PlanLinkCache {
	return &PlanLinkCache{
		client: client,
		ttl:    10 * time.Minute, // TTL兜底,主动失效为主
	}
}

func (c *PlanLinkCache) key(planID uint) string {
	return fmt.Sprintf("plan_links:%d", planID)
}

// Get 读取套餐关联的门店ID集合
// 返回(ids, true, nil)命中;(nil, false, nil)未命中
func (c *PlanLinkCache) Get(ctx context.Context, planID uint) ([]uint, bool, error) {
	data, err := c.client.Get(ctx, c.key(planID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.WrapRedis(err, "读取套餐关联缓存失败")
	}

	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		// 缓存内容损坏:当作未命中,回源后覆盖
		return nil, false, nil
	}
	return ids, true, nil
}

// Set 回填套餐关联的门店ID集合
// 空集合也缓存(套餐暂无可履约门店同样是有效答案,防止缓存穿透)
func (c *PlanLinkCache) Set(ctx context.Context, planID uint, storeIDs []uint) error {
	if storeIDs == nil {
		storeIDs = []uint{}
	}
	data, err := json.Marshal(storeIDs)
	if err != nil {
		return apperrors.WrapRedis(err, "序列化套餐关联失败")
	}

	if err := c.client.Set(ctx, c.key(planID), data, c.ttl).Err(); err != nil {
		return apperrors.WrapRedis(err, "写入套餐关联缓存失败")
	}
	return nil
}

// Invalidate 失效套餐关联缓存
// Mapper重连完成后调用,下次查询回源取最新关联
func (c *PlanLinkCache) Invalidate(ctx context.Context, planID uint) error {
	if err := c.client.Del(ctx, c.key(planID)).Err(); err != nil {
		return apperrors.WrapRedis(err, "失效套餐关联缓存失败")
	}
	return nil
}
