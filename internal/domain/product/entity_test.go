package product

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDiscountFor 折扣推导: round(((mrp - selling) / mrp) * 100)
func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name    string
		mrp     int64
		selling int64
		want    int
	}{
		{"两折", 10000, 8000, 20},
		{"无折扣", 10000, 10000, 0},
		{"白送", 10000, 0, 100},
		{"四舍五入进位", 9999, 7000, 30}, // 29.99... → 30
		{"四舍五入舍去", 10000, 9951, 0}, // 0.49 → 0
		{"非法市场价兜底", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountFor(tt.mrp, tt.selling))
		})
	}
}

// TestNewVariant 规格工厂的价格校验与折扣推导
func TestNewVariant(t *testing.T) {
	t.Run("正常创建", func(t *testing.T) {
		v, err := NewVariant(1, "SKU-001", map[string]string{"颜色": "红"}, 10000, 7500, nil, 0.5, "kg", nil)
		require.NoError(t, err)
		assert.Equal(t, 25, v.DiscountPercent, "未显式给出折扣时由价格推导")
		assert.True(t, v.IsActive)
	})

	t.Run("显式折扣优先", func(t *testing.T) {
		explicit := 10
		v, err := NewVariant(1, "SKU-002", nil, 10000, 7500, &explicit, 0, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 10, v.DiscountPercent)
	})

	t.Run("非法价格被拒", func(t *testing.T) {
		cases := []struct {
			name    string
			mrp     int64
			selling int64
		}{
			{"市场价为0", 0, 0},
			{"售价为负", 10000, -1},
			{"售价高于市场价", 10000, 10001},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := NewVariant(1, "SKU-003", nil, c.mrp, c.selling, nil, 0, "", nil)
				assert.ErrorIs(t, err, ErrInvalidPrice)
			})
		}
	})
}

// TestVariantReprice 改价重算折扣
func TestVariantReprice(t *testing.T) {
	v, err := NewVariant(1, "SKU-010", nil, 10000, 8000, nil, 0, "", nil)
	require.NoError(t, err)
	require.Equal(t, 20, v.DiscountPercent)

	require.NoError(t, v.Reprice(10000, 5000, nil))
	assert.Equal(t, 50, v.DiscountPercent, "改价后折扣应重算")

	explicit := 30
	require.NoError(t, v.Reprice(10000, 5000, &explicit))
	assert.Equal(t, 30, v.DiscountPercent, "显式折扣应覆盖推导值")

	assert.ErrorIs(t, v.Reprice(10000, 20000, nil), ErrInvalidPrice)
	assert.Equal(t, int64(5000), v.PriceSelling, "非法改价不应改动现值")
}

// TestInventoryAvailable 可用量 = 在库 - 预留
func TestInventoryAvailable(t *testing.T) {
	inv := NewInventory(1)
	assert.Equal(t, 0, inv.Stock)
	assert.Equal(t, 0, inv.Available())
	assert.Equal(t, DefaultLowStockThreshold, inv.LowStockThreshold)

	inv.Stock = 10
	inv.Reserved = 3
	assert.Equal(t, 7, inv.Available())

	inv.Reserved = 12
	assert.Equal(t, -2, inv.Available(), "预留可超过在库, 可用量允许为负")
}

// TestInventoryIsLowStock 低库存判定以在库量对比阈值
func TestInventoryIsLowStock(t *testing.T) {
	inv := NewInventory(1)
	inv.LowStockThreshold = 5

	inv.Stock = 6
	assert.False(t, inv.IsLowStock())
	inv.Stock = 5
	assert.True(t, inv.IsLowStock(), "等于阈值即触达")
	inv.Stock = 0
	assert.True(t, inv.IsLowStock())
}

// TestNewProductSEODefaults SEO字段缺省填充
func TestNewProductSEODefaults(t *testing.T) {
	t.Run("缺省取标题与描述", func(t *testing.T) {
		p := NewProduct(1, "运动跑鞋", "轻量缓震", 2, "qiwen", nil, "", "")
		assert.Equal(t, "运动跑鞋", p.MetaTitle)
		assert.Equal(t, "轻量缓震", p.MetaDescription)
	})

	t.Run("长描述按rune截断160", func(t *testing.T) {
		long := strings.Repeat("长", 200)
		p := NewProduct(1, "标题", long, 2, "", nil, "", "")
		assert.Equal(t, 160, len([]rune(p.MetaDescription)))
	})

	t.Run("显式SEO字段保留", func(t *testing.T) {
		p := NewProduct(1, "标题", "描述", 2, "", nil, "自定义标题", "自定义描述")
		assert.Equal(t, "自定义标题", p.MetaTitle)
		assert.Equal(t, "自定义描述", p.MetaDescription)
	})
}

// TestRetitle 改标题重新派生seo_slug
func TestRetitle(t *testing.T) {
	p := NewProduct(1, "Running Shoes", "", 2, "", nil, "", "")
	require.True(t, strings.HasPrefix(p.SeoSlug, "running-shoes-"))

	old := p.SeoSlug
	p.Retitle("Trail Shoes")
	assert.True(t, strings.HasPrefix(p.SeoSlug, "trail-shoes-"))
	assert.NotEqual(t, old, p.SeoSlug)
	assert.Equal(t, "Trail Shoes", p.Title)
}

// TestIsOwnedBy 归属校验
func TestIsOwnedBy(t *testing.T) {
	p := NewProduct(7, "标题", "", 2, "", nil, "", "")
	assert.True(t, p.IsOwnedBy(7))
	assert.False(t, p.IsOwnedBy(8))
}
