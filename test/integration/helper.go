package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行方式：
//   需要先启动完整环境(MySQL/Redis + API服务)
//   go test -v ./test/integration/...
//
// 管理员依赖：
//   目录维护(建店/建款式)是管理员接口,测试通过环境变量提供的
//   管理员账号登录获取Token;未配置或登录失败时相关测试Skip

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StoreData 门店响应数据
type StoreData struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	IsActive bool   `json:"is_active"`
}

// GarmentData 款式响应数据
type GarmentData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PlanData 发布套餐响应数据
type PlanData struct {
	PlanID   uint   `json:"plan_id"`
	Slug     string `json:"slug"`
	StoreIDs []uint `json:"store_ids"`
}

// BookingData 创建预约响应数据
type BookingData struct {
	BookingID uint   `json:"booking_id"`
	BookingNo string `json:"booking_no"`
	Status    string `json:"status"`
	VisitDate string `json:"visit_date"`
}

// AvailabilityData 可用量响应数据
type AvailabilityData struct {
	StoreID   uint   `json:"store_id"`
	GarmentID uint   `json:"garment_id"`
	Date      string `json:"date"`
	Available int    `json:"available"`
}

// doJSON 发送带JSON体的请求并解析JSON响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "POST", url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, "PUT", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "GET", url, nil, token)
}

var uniqueSeq atomic.Uint64

// unique 生成测试内唯一的数字后缀
// 时间戳+进程内序号,避免同一秒内多次调用冲突
func unique() uint64 {
	return uint64(time.Now().UnixNano()) + uniqueSeq.Add(1)
}

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, unique())
}

// GenerateTestSlug 生成唯一的测试slug
func GenerateTestSlug(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, unique())
}

// FutureDate 返回n天后的日期(YYYY-MM-DD)
func FutureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// RegisterTestUser 注册测试用户并返回Token
// role为customer或merchant
func RegisterTestUser(t *testing.T, nickname, role string) (email string, token string) {
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
		"role":     role,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// AdminToken 登录预置的管理员账号
// 账号通过KIMONO_TEST_ADMIN_EMAIL/KIMONO_TEST_ADMIN_PASSWORD指定,
// 登录失败时Skip当前测试(环境未seed管理员)
func AdminToken(t *testing.T) string {
	email := os.Getenv("KIMONO_TEST_ADMIN_EMAIL")
	if email == "" {
		email = "admin@kimono.local"
	}
	password := os.Getenv("KIMONO_TEST_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin1234"
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if loginResp.Code != 0 {
		t.Skipf("管理员账号不可用(%s),跳过需要目录维护的测试", loginResp.Message)
	}

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析管理员登录响应失败")
	return loginData.AccessToken
}

// CreateTestStore 创建测试门店(管理员)
func CreateTestStore(t *testing.T, adminToken, name, city string) uint {
	resp := PostJSON(t, BaseURL+"/admin/stores", map[string]string{
		"name": name,
		"city": city,
	}, adminToken)
	require.Equal(t, 0, resp.Code, "创建门店失败: %s", resp.Message)

	var data StoreData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析门店响应失败")
	return data.ID
}

// CreateTestGarment 创建测试款式(管理员)
func CreateTestGarment(t *testing.T, adminToken, name string) uint {
	resp := PostJSON(t, BaseURL+"/admin/garments", map[string]string{
		"name":    name,
		"color":   "赤,白",
		"pattern": "桜",
		"season":  "春",
	}, adminToken)
	require.Equal(t, 0, resp.Code, "创建款式失败: %s", resp.Message)

	var data GarmentData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析款式响应失败")
	return data.ID
}

// SetTestStock 设置库存容量(商户)
func SetTestStock(t *testing.T, merchantToken string, storeID, garmentID uint, quantity int) {
	resp := PutJSON(t, BaseURL+"/merchant/stock", map[string]interface{}{
		"store_id":   storeID,
		"garment_id": garmentID,
		"quantity":   quantity,
	}, merchantToken)
	require.Equal(t, 0, resp.Code, "设置库存失败: %s", resp.Message)
}

// PublishTestPlan 发布测试套餐(商户)并返回套餐ID
func PublishTestPlan(t *testing.T, merchantToken string, garmentID uint, region string) PlanData {
	req := map[string]interface{}{
		"slug":           GenerateTestSlug("test-plan"),
		"name":           "集成测试プラン",
		"price":          580000,
		"duration_hours": 8,
		"garment_id":     garmentID,
	}
	if region != "" {
		req["region"] = region
	}

	resp := PostJSON(t, BaseURL+"/merchant/plans", req, merchantToken)
	require.Equal(t, 0, resp.Code, "发布套餐失败: %s", resp.Message)

	var data PlanData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析套餐响应失败")
	return data
}

// QueryAvailability 查询可用量
func QueryAvailability(t *testing.T, storeID, garmentID uint, date string) int {
	url := fmt.Sprintf("%s/availability?store_id=%d&garment_id=%d&date=%s", BaseURL, storeID, garmentID, date)
	resp := GetJSON(t, url, "")
	require.Equal(t, 0, resp.Code, "查询可用量失败: %s", resp.Message)

	var data AvailabilityData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析可用量响应失败")
	return data.Available
}
