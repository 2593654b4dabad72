package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSlugify 测试slug生成规则
func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"小写转换", "Men Shoes", "men-shoes"},
		{"连续空白折叠", "Men   &   Shoes!", "men-shoes"},
		{"变音符号", "Créme Brûlée", "creme-brulee"},
		{"特殊字符丢弃", "50% Off!!!", "50-off"},
		{"首尾清理", "  Running Shoes  ", "running-shoes"},
		{"下划线归一", "summer_sale_2024", "summer-sale-2024"},
		{"连字符折叠", "a -- b", "a-b"},
		{"纯符号输入", "!!!", ""},
		{"空输入", "", ""},
		{"中文丢弃", "男鞋 Shoes", "shoes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

// TestSlugifyDeterministic 相同输入必须产生相同输出
func TestSlugifyDeterministic(t *testing.T) {
	input := "Électronique & Gadgets 2024"
	first := Slugify(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Slugify(input))
	}
}

// TestBuildPath 测试物化路径构建
func TestBuildPath(t *testing.T) {
	assert.Equal(t, "men", BuildPath("", "men"))
	assert.Equal(t, "men/shoes", BuildPath("men", "shoes"))
	assert.Equal(t, "men/shoes/sports", BuildPath("men/shoes", "sports"))
}

// TestPrefixPaths 测试面包屑前缀展开
func TestPrefixPaths(t *testing.T) {
	assert.Equal(t,
		[]string{"men", "men/shoes", "men/shoes/sports"},
		PrefixPaths("men/shoes/sports"))
	assert.Equal(t, []string{"men"}, PrefixPaths("men"))
	assert.Nil(t, PrefixPaths(""))
}

// TestIsSubtreePath 前缀匹配必须以分隔符为边界
func TestIsSubtreePath(t *testing.T) {
	assert.True(t, IsSubtreePath("men", "men/shoes"))
	assert.True(t, IsSubtreePath("men", "men/shoes/sports"))
	// mens-wear不是men的子树
	assert.False(t, IsSubtreePath("men", "mens-wear"))
	// 自身不算子树
	assert.False(t, IsSubtreePath("men", "men"))
}

// TestReplacePathPrefix 测试重命名时的路径前缀替换
func TestReplacePathPrefix(t *testing.T) {
	// 目标自身
	assert.Equal(t, "gentlemen", ReplacePathPrefix("men", "men", "gentlemen"))
	// 后代
	assert.Equal(t, "gentlemen/shoes", ReplacePathPrefix("men/shoes", "men", "gentlemen"))
	// 同前缀但非子树：不动
	assert.Equal(t, "mens-wear", ReplacePathPrefix("mens-wear", "men", "gentlemen"))
	// 无关路径：不动
	assert.Equal(t, "women/shoes", ReplacePathPrefix("women/shoes", "men", "gentlemen"))
}
