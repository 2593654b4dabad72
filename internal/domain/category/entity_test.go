package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewCategory 工厂方法的path/level派生
func TestNewCategory(t *testing.T) {
	root := NewCategory("Men Wear", "", nil, 0, nil)
	assert.Equal(t, "men-wear", root.Slug)
	assert.Equal(t, "men-wear", root.Path)
	assert.Equal(t, 0, root.Level)
	assert.True(t, root.IsRoot())
	assert.True(t, root.IsActive)

	root.ID = 1
	child := NewCategory("Shoes", "", root, 0, nil)
	assert.Equal(t, "men-wear/shoes", child.Path)
	assert.Equal(t, 1, child.Level)
	assert.False(t, child.IsRoot())
}

// TestRename 改名只改自身name/slug/path, 父前缀保持不变
func TestRename(t *testing.T) {
	t.Run("根分类", func(t *testing.T) {
		c := NewCategory("Men", "", nil, 0, nil)
		oldPath, newPath := c.Rename("Gentlemen")
		assert.Equal(t, "men", oldPath)
		assert.Equal(t, "gentlemen", newPath)
		assert.Equal(t, "gentlemen", c.Path)
		assert.Equal(t, "Gentlemen", c.Name)
	})

	t.Run("子分类保留父前缀", func(t *testing.T) {
		parent := NewCategory("Men", "", nil, 0, nil)
		parent.ID = 1
		c := NewCategory("Shoes", "", parent, 0, nil)

		oldPath, newPath := c.Rename("Footwear")
		assert.Equal(t, "men/shoes", oldPath)
		assert.Equal(t, "men/footwear", newPath)
		assert.Equal(t, "men/footwear", c.Path)
	})
}
