package plan

import (
	"context"
	"log"
	"regexp"

	"github.com/linwan/kimono-rental/internal/domain/plan"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

// slug规则:小写字母/数字/连字符,不以连字符开头结尾
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PublishPlanUseCase 发布套餐用例
//
// 发布即完成首次门店匹配:套餐落库后立刻按区域规则建立关联,
// 上架前就能通过AvailableForPlan预览可约门店
type PublishPlanUseCase struct {
	planRepo plan.Repository
	relink   *RelinkPlanUseCase
}

// NewPublishPlanUseCase 创建发布用例
func NewPublishPlanUseCase(planRepo plan.Repository, relink *RelinkPlanUseCase) *PublishPlanUseCase {
	return &PublishPlanUseCase{
		planRepo: planRepo,
		relink:   relink,
	}
}

// PublishPlanRequest 发布套餐请求
type PublishPlanRequest struct {
	Slug          string
	Name          string
	Price         int64 // 单位:分
	DurationHours int
	Region        *string
	GarmentID     uint
	MerchantID    uint
}

// PublishPlanResponse 发布套餐响应
type PublishPlanResponse struct {
	PlanID   uint   `json:"plan_id"`
	Slug     string `json:"slug"`
	StoreIDs []uint `json:"store_ids"` // 首次匹配到的门店
}

// Execute 发布套餐
func (uc *PublishPlanUseCase) Execute(ctx context.Context, req *PublishPlanRequest) (*PublishPlanResponse, error) {
	// ======== 步骤1:参数校验 ========
	if !slugPattern.MatchString(req.Slug) {
		return nil, plan.ErrInvalidSlug
	}
	if req.Name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "套餐名称不能为空")
	}
	if req.Price <= 0 {
		return nil, plan.ErrInvalidPrice
	}
	if req.DurationHours <= 0 {
		return nil, plan.ErrInvalidDuration
	}
	if req.GarmentID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定和服款式")
	}

	// ======== 步骤2:创建套餐(slug唯一索引兜底并发重复) ========
	p := plan.NewPlan(req.Slug, req.Name, req.Price, req.DurationHours, req.Region, req.GarmentID, req.MerchantID)
	if err := uc.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	// ======== 步骤3:首次门店匹配 ========
	linked, err := uc.relink.Execute(ctx, p.ID)
	if err != nil {
		// 套餐已落库,匹配失败可随时手动重连,不回滚发布
		log.Printf("⚠ 套餐%s发布后首次匹配失败: %v", p.Slug, err)
		return &PublishPlanResponse{PlanID: p.ID, Slug: p.Slug, StoreIDs: []uint{}}, nil
	}

	log.Printf("✓ 套餐发布成功: %s (关联%d家门店)", p.Slug, len(linked.StoreIDs))
	return &PublishPlanResponse{
		PlanID:   p.ID,
		Slug:     p.Slug,
		StoreIDs: linked.StoreIDs,
	}, nil
}
