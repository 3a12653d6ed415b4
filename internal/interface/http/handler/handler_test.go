package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbooking "github.com/linwan/kimono-rental/internal/application/booking"
	appplan "github.com/linwan/kimono-rental/internal/application/plan"
	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/domain/store"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	"github.com/linwan/kimono-rental/pkg/keylock"
)

// 薄桩:嵌入接口省去未走到的方法,只覆盖当前路径触达的部分

type stubBookingRepo struct {
	booking.Repository
	created *booking.Booking
}

func (r *stubBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	b.ID = 1
	r.created = b
	return nil
}

func (r *stubBookingRepo) SumActiveQuantity(ctx context.Context, storeID, garmentID uint, visitDate time.Time) (int, error) {
	return 0, nil
}

type stubInventoryRepo struct {
	inventory.Repository
	capacity int
}

func (r *stubInventoryRepo) LockByKey(ctx context.Context, storeID, garmentID uint) (*inventory.Record, error) {
	return &inventory.Record{StoreID: storeID, GarmentID: garmentID, Quantity: r.capacity}, nil
}

type stubPlanRepo struct {
	plan.Repository
	plans map[uint]*plan.Plan
	links map[uint][]uint
}

func (r *stubPlanRepo) Create(ctx context.Context, p *plan.Plan) error {
	p.ID = uint(len(r.plans) + 1)
	r.plans[p.ID] = p
	return nil
}

func (r *stubPlanRepo) FindByID(ctx context.Context, id uint) (*plan.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, plan.ErrPlanNotFound
	}
	return p, nil
}

func (r *stubPlanRepo) AddLinks(ctx context.Context, planID uint, storeIDs []uint) error {
	r.links[planID] = append(r.links[planID], storeIDs...)
	return nil
}

func (r *stubPlanRepo) ListLinkedStoreIDs(ctx context.Context, planID uint) ([]uint, error) {
	return r.links[planID], nil
}

type stubStoreRepo struct {
	store.Repository
	stores []*store.Store
}

func (r *stubStoreRepo) ListActive(ctx context.Context) ([]*store.Store, error) {
	return r.stores, nil
}

type passTxManager struct{}

func (passTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopPublisher struct{}

func (noopPublisher) PublishBookingEvent(ctx context.Context, routingKey string, evt event.BookingEvent) {
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

// TestBookingHandler_Create 游客经HTTP入口下单,返回预约号
func TestBookingHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &stubBookingRepo{}
	uc := appbooking.NewCreateBookingUseCase(
		repo,
		&stubInventoryRepo{capacity: 5},
		&stubPlanRepo{},
		passTxManager{},
		keylock.New(time.Second),
		noopPublisher{},
		3,
	)
	h := NewBookingHandler(uc, nil, nil)

	r := gin.New()
	r.POST("/bookings", h.Create)

	visitDate := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	_, envelope := postJSON(t, r, "/bookings", gin.H{
		"visit_date": visitDate,
		"items": []gin.H{
			{"store_id": 1, "garment_id": 10, "quantity": 2},
		},
	})

	assert.Equal(t, "0", string(envelope["code"]), "响应: %s", envelope)
	require.NotNil(t, repo.created, "预约应已落库")
	assert.Nil(t, repo.created.CustomerID, "无登录态应为游客预约")

	var data struct {
		BookingNo string `json:"booking_no"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.NotEmpty(t, data.BookingNo)
}

// TestPlanHandler_Publish 商户经HTTP入口发布套餐并完成首次门店匹配
func TestPlanHandler_Publish(t *testing.T) {
	gin.SetMode(gin.TestMode)

	planRepo := &stubPlanRepo{plans: map[uint]*plan.Plan{}, links: map[uint][]uint{}}
	storeRepo := &stubStoreRepo{stores: []*store.Store{
		{ID: 1, Name: "浅草本店", City: "東京都台東区", IsActive: true},
	}}
	relink := appplan.NewRelinkPlanUseCase(planRepo, storeRepo, plan.NewMapper([]string{"東京", "京都"}), nil)
	publish := appplan.NewPublishPlanUseCase(planRepo, relink)
	h := NewPlanHandler(publish, relink, nil, nil)

	r := gin.New()
	r.POST("/merchant/plans", func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.Set("role", "merchant")
	}, h.Publish)

	_, envelope := postJSON(t, r, "/merchant/plans", gin.H{
		"slug":           "asakusa-walk",
		"name":           "浅草散策プラン",
		"price":          580000,
		"duration_hours": 8,
		"region":         "東京",
		"garment_id":     10,
	})

	assert.Equal(t, "0", string(envelope["code"]), "响应: %s", envelope)

	var data struct {
		PlanID   uint   `json:"plan_id"`
		StoreIDs []uint `json:"store_ids"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.Equal(t, []uint{1}, data.StoreIDs, "東京套餐应关联東京门店")
	require.NotNil(t, planRepo.plans[data.PlanID])
	assert.Equal(t, uint(7), planRepo.plans[data.PlanID].MerchantID)
}
