package user

import (
	"context"

	"github.com/linwan/kimono-rental/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排,校验和加密在领域服务完成
// 2. 顾客和商家走同一注册入口,以role区分;admin不开放注册
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	role := req.Role
	if role == "" {
		role = user.RoleCustomer
	}

	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname, role)
	if err != nil {
		return nil, err
	}

	// 领域实体 → 应用层DTO,领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     u.Role,
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
	Role     string // 空值默认customer
}

// RegisterResponse 注册响应(不含密码字段)
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}
