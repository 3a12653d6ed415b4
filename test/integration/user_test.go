package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：用户模块集成测试
//
// 集成测试 vs 单元测试：
// - 单元测试：Mock外部依赖（数据库、Redis），测试单个函数的逻辑
// - 集成测试：使用真实的数据库和Redis，测试完整的API流程
//
// 运行方式：
//   go test -v ./test/integration/...   # 需要先启动完整环境

// TestUserRegister 测试用户注册功能
func TestUserRegister(t *testing.T) {
	t.Run("正常注册顾客", func(t *testing.T) {
		email := GenerateTestEmail("normal_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试顾客",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.Equal(t, 0, resp.Code, "注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "用户ID应该大于0")
		assert.Equal(t, email, data.Email)
		assert.Equal(t, "customer", data.Role, "未指定角色时默认为顾客")
	})

	t.Run("注册商家", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    GenerateTestEmail("merchant_user"),
			"password": "Test1234",
			"nickname": "测试商家",
			"role":     "merchant",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.Equal(t, 0, resp.Code, "商家注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, "merchant", data.Role)
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("dup_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "重复用户",
		}

		first := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		require.Equal(t, 0, first.Code, "首次注册应该成功")

		second := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.NotEqual(t, 0, second.Code, "重复邮箱注册应该失败")
	})

	t.Run("弱密码应被拒绝", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    GenerateTestEmail("weak_pwd"),
			"password": "12345678", // 纯数字,缺少字母
			"nickname": "弱密码用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "弱密码注册应该失败")
	})

	t.Run("注册管理员应被拒绝", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    GenerateTestEmail("fake_admin"),
			"password": "Test1234",
			"nickname": "伪管理员",
			"role":     "admin",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "admin角色不开放自助注册")
	})
}

// TestUserLoginLogout 测试登录登出流程
func TestUserLoginLogout(t *testing.T) {
	email, token := RegisterTestUser(t, "login_tester", "customer")

	t.Run("错误密码登录应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    email,
			"password": "Wrong5678",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "错误密码应该登录失败")
	})

	t.Run("登出后Token进入黑名单", func(t *testing.T) {
		logoutResp := PostJSON(t, BaseURL+"/users/logout", nil, token)
		require.Equal(t, 0, logoutResp.Code, "登出失败: %s", logoutResp.Message)

		// 登出后的Token访问需要认证的接口应被拒绝
		listResp := GetJSON(t, BaseURL+"/bookings", token)
		assert.NotEqual(t, 0, listResp.Code, "已登出Token应该无法访问")
	})
}
