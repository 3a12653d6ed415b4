package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBookingNo 生成预约号
// 教学要点:预约号设计原则
// 1. 全局唯一(避免冲突)
// 2. 时间有序(便于分库分表)
// 3. 不可预测(防止恶意遍历他人预约)
//
// 格式:BKG + 时间戳(秒) + 6位随机数
// 示例:BKG1767225600123456
//
// 生产环境推荐:
// - 雪花算法(Snowflake):分布式唯一ID
// - UUID:简单但无序
// - 数据库自增ID:单点瓶颈
func GenerateBookingNo() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("BKG%d%06d", timestamp, random)
}
