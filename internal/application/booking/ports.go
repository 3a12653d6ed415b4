package booking

import "context"

// TxManager 事务管理端口,由mysql.TxManager实现
// 定义为接口便于在单元测试中用直通实现替代真实事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor 操作主体(从JWT中解析)
// UserID为0表示游客;Role取值: customer / merchant / admin
type Actor struct {
	UserID uint
	Role   string
}

// IsStaff 是否为商户或管理员
func (a Actor) IsStaff() bool {
	return a.Role == "merchant" || a.Role == "admin"
}
