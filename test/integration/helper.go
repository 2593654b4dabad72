package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试的通用辅助函数。
// 需要先启动依赖环境(MySQL/Redis)和API进程:
//   go run ./cmd/api
//   go test -v ./test/integration/...

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Details map[string]interface{} `json:"details"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CategoryData 分类响应数据
type CategoryData struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Level    int    `json:"level"`
	Path     string `json:"path"`
	IsActive bool   `json:"is_active"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID          uint    `json:"id"`
	VendorID    uint    `json:"vendor_id"`
	Title       string  `json:"title"`
	SeoSlug     string  `json:"seo_slug"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
	IsActive    bool    `json:"is_active"`
}

// VariantData 规格响应数据
type VariantData struct {
	ID              uint   `json:"id"`
	ProductID       uint   `json:"product_id"`
	SKU             string `json:"sku"`
	PriceMRP        int64  `json:"price_mrp"`
	PriceSelling    int64  `json:"price_selling"`
	DiscountPercent int    `json:"discount_percent"`
}

// InventoryData 库存响应数据
type InventoryData struct {
	VariantID uint `json:"variant_id"`
	Stock     int  `json:"stock"`
	Reserved  int  `json:"reserved"`
	Available int  `json:"available"`
}

// doJSON 发送HTTP请求并解析统一响应
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

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "DELETE", url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, "GET", url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
// 使用时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestSKU 生成唯一的测试SKU
func GenerateTestSKU(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%1000000000)
}

// GenerateTestName 生成唯一的测试名称(分类/商品标题用)
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%1000000000)
}

// RegisterTestUser 注册测试用户并返回Token
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
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

// RegisterTestVendor 注册用户并开店, 返回带vendor_id的Token
func RegisterTestVendor(t *testing.T, nickname string) (email string, token string) {
	email, token = RegisterTestUser(t, nickname)

	openResp := PostJSON(t, BaseURL+"/users/open-store", map[string]string{
		"store_name": GenerateTestName(nickname + "店铺"),
	}, token)
	require.Equal(t, 0, openResp.Code, "开店失败: %s", openResp.Message)

	// 开店后必须换用新Token, 旧Token不带vendor_id
	var openData LoginData
	err := json.Unmarshal(openResp.Data, &openData)
	require.NoError(t, err, "解析开店响应失败")

	return email, openData.AccessToken
}

// CreateTestCategory 创建测试分类并返回分类数据
func CreateTestCategory(t *testing.T, token string, name string, parentID *uint) CategoryData {
	req := map[string]interface{}{
		"name": name,
	}
	if parentID != nil {
		req["parent_id"] = *parentID
	}

	resp := PostJSON(t, BaseURL+"/categories", req, token)
	require.Equal(t, 0, resp.Code, "创建分类失败: %s", resp.Message)

	var data CategoryData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析分类响应失败")

	return data
}

// CreateTestProduct 创建测试商品并返回商品数据
func CreateTestProduct(t *testing.T, token string, categoryID uint, title string) ProductData {
	resp := PostJSON(t, BaseURL+"/vendor/products", map[string]interface{}{
		"title":       title,
		"category_id": categoryID,
		"description": "集成测试用商品",
	}, token)
	require.Equal(t, 0, resp.Code, "创建商品失败: %s", resp.Message)

	var data ProductData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析商品响应失败")

	return data
}

// CreateTestVariant 创建测试规格并返回规格ID
func CreateTestVariant(t *testing.T, token string, productID uint, stock int) uint {
	resp := PostJSON(t, fmt.Sprintf("%s/vendor/products/%d/variants", BaseURL, productID), map[string]interface{}{
		"sku":           GenerateTestSKU("IT"),
		"price_mrp":     9900,
		"price_selling": 7900,
	}, token)
	require.Equal(t, 0, resp.Code, "创建规格失败: %s", resp.Message)

	var data struct {
		Variant VariantData `json:"variant"`
	}
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析规格响应失败")

	if stock > 0 {
		adjustResp := PostJSON(t, fmt.Sprintf("%s/vendor/variants/%d/stock", BaseURL, data.Variant.ID), map[string]interface{}{
			"delta": stock,
		}, token)
		require.Equal(t, 0, adjustResp.Code, "初始化库存失败: %s", adjustResp.Message)
	}

	return data.Variant.ID
}
