package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReview 评分区间校验
func TestNewReview(t *testing.T) {
	r, err := NewReview(1, 2, 5, "不错", true)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.True(t, r.IsVerifiedPurchase)

	for _, rating := range []int{0, -1, 6} {
		_, err := NewReview(1, 2, rating, "", false)
		assert.ErrorIs(t, err, ErrInvalidRating, "评分%d应被拒绝", rating)
	}
}

// TestRevise 修改评价同样受评分区间约束
func TestRevise(t *testing.T) {
	r, err := NewReview(1, 2, 4, "还行", false)
	require.NoError(t, err)

	require.NoError(t, r.Revise(2, "降级"))
	assert.Equal(t, 2, r.Rating)
	assert.Equal(t, "降级", r.Comment)

	assert.ErrorIs(t, r.Revise(0, ""), ErrInvalidRating)
	assert.Equal(t, 2, r.Rating, "非法修改不应改动现值")
}

// TestIsAuthoredBy 作者校验
func TestIsAuthoredBy(t *testing.T) {
	r, _ := NewReview(1, 42, 3, "", false)
	assert.True(t, r.IsAuthoredBy(42))
	assert.False(t, r.IsAuthoredBy(43))
}

// TestRoundedAvg 平均分1位小数四舍五入, 无评价归零
func TestRoundedAvg(t *testing.T) {
	tests := []struct {
		name  string
		stats RatingStats
		want  float64
	}{
		{"无评价归零", RatingStats{Avg: 0, Count: 0}, 0},
		{"整数平均", RatingStats{Avg: 4, Count: 3}, 4.0},
		{"半星取整", RatingStats{Avg: 4.5, Count: 2}, 4.5},
		{"向上舍入", RatingStats{Avg: 4.0 + 2.0/3.0, Count: 3}, 4.7}, // 4.666...
		{"向下舍入", RatingStats{Avg: 3.0 + 1.0/3.0, Count: 3}, 3.3}, // 3.333...
		{"中点进位", RatingStats{Avg: 3.75, Count: 4}, 3.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.stats.RoundedAvg(), 1e-9)
		})
	}
}
