package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
//
// 运行方式：
//   go run ./cmd/api   # 先启动API进程(依赖MySQL/Redis)
//   go test -v ./test/integration/...

// TestUserRegister 测试用户注册功能
func TestUserRegister(t *testing.T) {
	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("normal_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.Equal(t, 0, resp.Code, "注册应该成功")

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "用户ID应该大于0")
		assert.Equal(t, email, data.Email, "返回的邮箱应该与请求一致")
		assert.Equal(t, "测试用户", data.Nickname, "返回的昵称应该与请求一致")
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("duplicate_user")
		registerReq := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "测试用户1",
		}

		resp1 := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		require.Equal(t, 0, resp1.Code, "第一次注册应该成功")

		registerReq["nickname"] = "测试用户2"
		resp2 := PostJSON(t, BaseURL+"/users/register", registerReq, "")

		assert.NotEqual(t, 0, resp2.Code, "重复邮箱注册应该失败")
		assert.Contains(t, resp2.Message, "邮箱", "错误信息应该提示邮箱相关")
	})

	t.Run("密码过短应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    GenerateTestEmail("short_pwd"),
			"password": "123",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "密码过短应该失败")
	})

	t.Run("邮箱格式错误应失败", func(t *testing.T) {
		registerReq := map[string]string{
			"email":    "invalid-email",
			"password": "Test1234",
			"nickname": "测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
		assert.NotEqual(t, 0, resp.Code, "邮箱格式错误应该失败")
	})
}

// TestUserLogin 测试用户登录功能
func TestUserLogin(t *testing.T) {
	email := GenerateTestEmail("login_test")
	password := "Test1234"
	registerReq := map[string]string{
		"email":    email,
		"password": password,
		"nickname": "登录测试用户",
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "准备测试数据：注册用户")

	t.Run("正常登录", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    email,
			"password": password,
		}, "")

		assert.Equal(t, 0, resp.Code, "登录应该成功")

		var data LoginData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotEmpty(t, data.AccessToken, "应该返回access_token")
		assert.NotEmpty(t, data.RefreshToken, "应该返回refresh_token")
		assert.Contains(t, data.AccessToken, ".", "JWT Token应该包含点号分隔符")
	})

	t.Run("密码错误应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    email,
			"password": "WrongPassword",
		}, "")

		assert.NotEqual(t, 0, resp.Code, "密码错误应该失败")
		assert.Contains(t, resp.Message, "密码", "错误信息应该提示密码相关")
	})

	t.Run("用户不存在应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    "nonexistent@test.com",
			"password": "Test1234",
		}, "")

		// 安全考虑：不明确提示"用户不存在"，防止攻击者枚举邮箱
		assert.NotEqual(t, 0, resp.Code, "用户不存在应该失败")
	})

	t.Run("无效Token应被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/reviews", map[string]interface{}{
			"product_id": 1,
			"rating":     5,
		}, "invalid.jwt.token")

		assert.NotEqual(t, 0, resp.Code, "无效Token应该被拒绝")
	})
}

// TestVendorFlow 测试开店到上架的完整流程
// 注册 → 登录 → 开店(换新Token) → 创建分类/商品/规格 → 补货
func TestVendorFlow(t *testing.T) {
	// Step 1: 注册+登录
	_, buyerToken := RegisterTestUser(t, "vendor_flow")

	// 未开店时访问商家接口应被拒绝
	resp := PostJSON(t, BaseURL+"/vendor/products", map[string]interface{}{
		"title":       "未开店商品",
		"category_id": 1,
	}, buyerToken)
	require.NotEqual(t, 0, resp.Code, "未开店不应能访问商家接口")

	// Step 2: 开店, 拿到带vendor_id的新Token
	openResp := PostJSON(t, BaseURL+"/users/open-store", map[string]string{
		"store_name": GenerateTestName("流程测试店"),
	}, buyerToken)
	require.Equal(t, 0, openResp.Code, "开店失败: %s", openResp.Message)

	var openData LoginData
	err := json.Unmarshal(openResp.Data, &openData)
	require.NoError(t, err)
	vendorToken := openData.AccessToken
	require.NotEmpty(t, vendorToken)

	// Step 3: 创建分类和商品
	cat := CreateTestCategory(t, vendorToken, GenerateTestName("流程分类"), nil)
	p := CreateTestProduct(t, vendorToken, cat.ID, GenerateTestName("流程商品"))
	require.NotZero(t, p.SeoSlug)

	// Step 4: 创建规格并补货
	variantID := CreateTestVariant(t, vendorToken, p.ID, 50)

	invResp := GetJSON(t, fmt.Sprintf("%s/vendor/variants/%d/inventory", BaseURL, variantID), vendorToken)
	require.Equal(t, 0, invResp.Code, "查询库存失败: %s", invResp.Message)

	var inv InventoryData
	err = json.Unmarshal(invResp.Data, &inv)
	require.NoError(t, err)
	assert.Equal(t, 50, inv.Stock)
	assert.Equal(t, 50, inv.Available)
}
