package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 分类模块集成测试: 树形结构、改名子树改写、级联停用、删除门禁

// TestCategoryTree 测试分类层级与path派生
func TestCategoryTree(t *testing.T) {
	_, token := RegisterTestUser(t, "cat_tree")

	root := CreateTestCategory(t, token, GenerateTestName("服装"), nil)
	assert.Equal(t, 0, root.Level, "根分类层级应为0")
	assert.Equal(t, root.Slug, root.Path, "根分类path等于slug")

	child := CreateTestCategory(t, token, GenerateTestName("男装"), &root.ID)
	assert.Equal(t, 1, child.Level, "子分类层级应为1")
	assert.Equal(t, root.Path+"/"+child.Slug, child.Path, "子分类path应为父path/子slug")

	t.Run("面包屑从根到当前", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/categories/%d/breadcrumbs", BaseURL, child.ID), "")
		require.Equal(t, 0, resp.Code, "面包屑查询失败: %s", resp.Message)

		var crumbs []CategoryData
		err := json.Unmarshal(resp.Data, &crumbs)
		require.NoError(t, err)
		require.Len(t, crumbs, 2)
		assert.Equal(t, root.ID, crumbs[0].ID)
		assert.Equal(t, child.ID, crumbs[1].ID)
	})

	t.Run("path冲突应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/categories", map[string]interface{}{
			"name": root.Name,
		}, token)
		assert.NotEqual(t, 0, resp.Code, "同名根分类应触发path冲突")
	})
}

// TestCategoryRename 测试改名时子树path的原子改写
func TestCategoryRename(t *testing.T) {
	_, token := RegisterTestUser(t, "cat_rename")

	root := CreateTestCategory(t, token, GenerateTestName("图书"), nil)
	child := CreateTestCategory(t, token, GenerateTestName("小说"), &root.ID)
	grandchild := CreateTestCategory(t, token, GenerateTestName("科幻"), &child.ID)

	newName := GenerateTestName("数字读物")
	resp := PutJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, root.ID), map[string]interface{}{
		"name": newName,
	}, token)
	require.Equal(t, 0, resp.Code, "改名失败: %s", resp.Message)

	var result struct {
		Category  CategoryData `json:"category"`
		OldPath   string       `json:"old_path"`
		NewPath   string       `json:"new_path"`
		Rewritten int64        `json:"rewritten"`
	}
	err := json.Unmarshal(resp.Data, &result)
	require.NoError(t, err)

	assert.Equal(t, root.Path, result.OldPath)
	assert.NotEqual(t, result.OldPath, result.NewPath)
	assert.Equal(t, int64(3), result.Rewritten, "自身+两级后代共3行path被改写")

	// 后代path前缀应已同步
	detailResp := GetJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, grandchild.ID), "")
	require.Equal(t, 0, detailResp.Code)

	var detail CategoryData
	err = json.Unmarshal(detailResp.Data, &detail)
	require.NoError(t, err)
	assert.Contains(t, detail.Path, result.NewPath+"/", "后代path应以新前缀开头")
}

// TestCategoryDeactivateCascade 测试停用级联与启用不级联
func TestCategoryDeactivateCascade(t *testing.T) {
	_, token := RegisterTestUser(t, "cat_cascade")

	root := CreateTestCategory(t, token, GenerateTestName("家电"), nil)
	child := CreateTestCategory(t, token, GenerateTestName("厨电"), &root.ID)

	// 停用根, 子分类应一起停用
	resp := PutJSON(t, fmt.Sprintf("%s/categories/%d/status", BaseURL, root.ID), map[string]interface{}{
		"is_active": false,
	}, token)
	require.Equal(t, 0, resp.Code, "停用失败: %s", resp.Message)

	var result struct {
		Deactivated int64 `json:"deactivated"`
	}
	err := json.Unmarshal(resp.Data, &result)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Deactivated, "应级联停用1个后代")

	// 重新启用根, 子分类保持停用
	resp = PutJSON(t, fmt.Sprintf("%s/categories/%d/status", BaseURL, root.ID), map[string]interface{}{
		"is_active": true,
	}, token)
	require.Equal(t, 0, resp.Code)

	childResp := GetJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, child.ID), "")
	require.Equal(t, 0, childResp.Code)

	var childDetail CategoryData
	err = json.Unmarshal(childResp.Data, &childDetail)
	require.NoError(t, err)
	assert.False(t, childDetail.IsActive, "启用父分类不应级联启用子分类")
}

// TestCategoryDeleteGate 测试删除门禁与阻塞数量明细
func TestCategoryDeleteGate(t *testing.T) {
	_, vendorToken := RegisterTestVendor(t, "cat_delete")

	root := CreateTestCategory(t, vendorToken, GenerateTestName("运动"), nil)
	CreateTestCategory(t, vendorToken, GenerateTestName("球类"), &root.ID)

	t.Run("有启用子分类时拒绝删除", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, root.ID), vendorToken)
		require.NotEqual(t, 0, resp.Code, "有启用子分类时应拒绝删除")
		assert.EqualValues(t, 1, resp.Details["active_subcategories"], "details应返回阻塞的子分类数")
	})

	t.Run("有活跃商品时拒绝删除", func(t *testing.T) {
		leaf := CreateTestCategory(t, vendorToken, GenerateTestName("跑步"), &root.ID)
		CreateTestProduct(t, vendorToken, leaf.ID, GenerateTestName("跑鞋"))

		resp := DeleteJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, leaf.ID), vendorToken)
		require.NotEqual(t, 0, resp.Code, "有活跃商品时应拒绝删除")
		assert.EqualValues(t, 1, resp.Details["active_products"], "details应返回阻塞的商品数")
	})

	t.Run("空分类可删除", func(t *testing.T) {
		empty := CreateTestCategory(t, vendorToken, GenerateTestName("空分类"), nil)
		resp := DeleteJSON(t, fmt.Sprintf("%s/categories/%d", BaseURL, empty.ID), vendorToken)
		assert.Equal(t, 0, resp.Code, "空分类删除应成功: %s", resp.Message)
	})
}

// TestStockAdjust 测试库存调整语义: 扣减超可用量拒绝, 补货封顶在0之上
func TestStockAdjust(t *testing.T) {
	_, token := RegisterTestVendor(t, "stock")

	cat := CreateTestCategory(t, token, GenerateTestName("库存分类"), nil)
	p := CreateTestProduct(t, token, cat.ID, GenerateTestName("库存商品"))
	variantID := CreateTestVariant(t, token, p.ID, 10)

	adjustURL := fmt.Sprintf("%s/vendor/variants/%d/stock", BaseURL, variantID)

	t.Run("正常扣减", func(t *testing.T) {
		resp := PostJSON(t, adjustURL, map[string]interface{}{"delta": -4}, token)
		require.Equal(t, 0, resp.Code, "扣减失败: %s", resp.Message)

		var result struct {
			Inventory InventoryData `json:"inventory"`
		}
		err := json.Unmarshal(resp.Data, &result)
		require.NoError(t, err)
		assert.Equal(t, 6, result.Inventory.Stock)
		assert.Equal(t, 6, result.Inventory.Available)
	})

	t.Run("超过可用量的扣减被拒绝", func(t *testing.T) {
		resp := PostJSON(t, adjustURL, map[string]interface{}{"delta": -100}, token)
		require.NotEqual(t, 0, resp.Code, "超量扣减应被拒绝")
		assert.EqualValues(t, 6, resp.Details["available"], "details应返回当前可用量")
		assert.EqualValues(t, 100, resp.Details["requested"], "details应返回请求扣减量")

		// 拒绝后库存不变
		invResp := GetJSON(t, fmt.Sprintf("%s/vendor/variants/%d/inventory", BaseURL, variantID), token)
		require.Equal(t, 0, invResp.Code)

		var inv InventoryData
		err := json.Unmarshal(invResp.Data, &inv)
		require.NoError(t, err)
		assert.Equal(t, 6, inv.Stock, "被拒绝的扣减不应改变库存")
	})

	t.Run("零调整量被拒绝", func(t *testing.T) {
		resp := PostJSON(t, adjustURL, map[string]interface{}{"delta": 0}, token)
		assert.NotEqual(t, 0, resp.Code, "delta=0应被拒绝")
	})
}
