package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/domain/review"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
)

// 用例级单元测试: 内存仓储 + 直通事务, 覆盖评分重算与置顶配额

// passthroughTx 直通事务(单测无真实数据库)
type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// fakeReviewRepo 内存评价仓储
type fakeReviewRepo struct {
	nextID  uint
	reviews map[uint]*review.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: make(map[uint]*review.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, rv *review.Review) error {
	for _, existing := range r.reviews {
		if existing.ProductID == rv.ProductID && existing.UserID == rv.UserID {
			return review.ErrAlreadyReviewed
		}
	}
	rv.ID = r.nextID
	r.nextID++
	r.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uint) (*review.Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	return rv, nil
}

func (r *fakeReviewRepo) FindByProductAndUser(_ context.Context, productID, userID uint) (*review.Review, error) {
	for _, rv := range r.reviews {
		if rv.ProductID == productID && rv.UserID == userID {
			return rv, nil
		}
	}
	return nil, review.ErrReviewNotFound
}

func (r *fakeReviewRepo) Update(_ context.Context, rv *review.Review) error {
	r.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uint) error {
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) AggregateByProduct(_ context.Context, productID uint) (review.RatingStats, error) {
	sum, count := 0, 0
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return review.RatingStats{}, nil
	}
	return review.RatingStats{Avg: float64(sum) / float64(count), Count: count}, nil
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID uint, _, _ int) ([]*review.Review, int64, error) {
	out := make([]*review.Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID uint, _, _ int) ([]*review.Review, int64, error) {
	out := make([]*review.Review, 0)
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

// fakePinRepo 内存置顶仓储
type fakePinRepo struct {
	nextID uint
	pins   map[uint]*review.PinnedReview
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{nextID: 1, pins: make(map[uint]*review.PinnedReview)}
}

func (r *fakePinRepo) Create(_ context.Context, pin *review.PinnedReview) error {
	for _, existing := range r.pins {
		if existing.ReviewID == pin.ReviewID && existing.VendorID == pin.VendorID {
			return review.ErrAlreadyPinned
		}
	}
	pin.ID = r.nextID
	r.nextID++
	r.pins[pin.ID] = pin
	return nil
}

func (r *fakePinRepo) DeleteByReviewAndVendor(_ context.Context, reviewID, vendorID uint) error {
	for id, pin := range r.pins {
		if pin.ReviewID == reviewID && pin.VendorID == vendorID {
			delete(r.pins, id)
		}
	}
	return nil
}

func (r *fakePinRepo) DeleteByReview(_ context.Context, reviewID uint) error {
	for id, pin := range r.pins {
		if pin.ReviewID == reviewID {
			delete(r.pins, id)
		}
	}
	return nil
}

func (r *fakePinRepo) CountByVendor(_ context.Context, vendorID uint) (int64, error) {
	var n int64
	for _, pin := range r.pins {
		if pin.VendorID == vendorID {
			n++
		}
	}
	return n, nil
}

func (r *fakePinRepo) FindPinnedReviewIDs(_ context.Context, vendorID uint, reviewIDs []uint) ([]uint, error) {
	want := make(map[uint]bool, len(reviewIDs))
	for _, id := range reviewIDs {
		want[id] = true
	}
	out := make([]uint, 0)
	for _, pin := range r.pins {
		if pin.VendorID == vendorID && want[pin.ReviewID] {
			out = append(out, pin.ReviewID)
		}
	}
	return out, nil
}

func (r *fakePinRepo) ListByVendor(_ context.Context, vendorID uint) ([]*review.PinnedReview, error) {
	out := make([]*review.PinnedReview, 0)
	for _, pin := range r.pins {
		if pin.VendorID == vendorID {
			out = append(out, pin)
		}
	}
	return out, nil
}

// fakeProductRepo 内存商品仓储(只实现用例触达的方法)
type fakeProductRepo struct {
	products map[uint]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*product.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySeoSlug(_ context.Context, seoSlug string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SeoSlug == seoSlug {
			return p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id uint) error {
	p, ok := r.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	p.IsActive = false
	return nil
}

func (r *fakeProductRepo) UpdateRating(_ context.Context, productID uint, avg float64, count int) error {
	p, ok := r.products[productID]
	if !ok {
		return product.ErrProductNotFound
	}
	p.ApplyRating(avg, count)
	return nil
}

func (r *fakeProductRepo) CountActiveByCategory(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ product.ListParams) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) ListByVendor(_ context.Context, _ uint, _, _ int) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

func seedProduct(repo *fakeProductRepo, id, vendorID uint) *product.Product {
	p := product.NewProduct(vendorID, "测试商品", "", 1, "", nil, "", "")
	p.ID = id
	repo.products[id] = p
	return p
}

// TestWriteReviewRecompute 评价增删改的同事务评分重算
func TestWriteReviewRecompute(t *testing.T) {
	ctx := context.Background()
	reviewRepo := newFakeReviewRepo()
	pinRepo := newFakePinRepo()
	productRepo := newFakeProductRepo()
	p := seedProduct(productRepo, 1, 10)

	uc := NewWriteReviewUseCase(reviewRepo, pinRepo, productRepo, passthroughTx{})

	resp1, err := uc.Create(ctx, CreateReviewRequest{ProductID: 1, UserID: 100, Rating: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 10, resp1.ProductVendorID)
	assert.Equal(t, 5.0, p.AvgRating)
	assert.Equal(t, 1, p.RatingCount)

	resp2, err := uc.Create(ctx, CreateReviewRequest{ProductID: 1, UserID: 101, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.AvgRating, "(5+4)/2=4.5")
	assert.Equal(t, 2, p.RatingCount)

	t.Run("重复评价被拒", func(t *testing.T) {
		_, err := uc.Create(ctx, CreateReviewRequest{ProductID: 1, UserID: 100, Rating: 3})
		assert.ErrorIs(t, err, review.ErrAlreadyReviewed)
		assert.Equal(t, 2, p.RatingCount, "被拒的创建不应扰动快照")
	})

	t.Run("非作者不能修改", func(t *testing.T) {
		_, err := uc.Update(ctx, UpdateReviewRequest{ReviewID: resp2.ID, UserID: 100, Rating: 1})
		assert.ErrorIs(t, err, review.ErrNotAuthor)
	})

	t.Run("修改后重算", func(t *testing.T) {
		_, err := uc.Update(ctx, UpdateReviewRequest{ReviewID: resp2.ID, UserID: 101, Rating: 2})
		require.NoError(t, err)
		assert.Equal(t, 3.5, p.AvgRating, "(5+2)/2=3.5")
	})

	t.Run("删除后重算并清理置顶", func(t *testing.T) {
		require.NoError(t, pinRepo.Create(ctx, review.NewPinnedReview(resp2.ID, 10)))

		resp, err := uc.Delete(ctx, resp2.ID, 101)
		require.NoError(t, err)
		assert.EqualValues(t, 10, resp.ProductVendorID)
		assert.Equal(t, 5.0, p.AvgRating)
		assert.Equal(t, 1, p.RatingCount)

		n, _ := pinRepo.CountByVendor(ctx, 10)
		assert.Zero(t, n, "删除评价应级联清理置顶记录")
	})

	t.Run("最后一条删除后归零", func(t *testing.T) {
		_, err := uc.Delete(ctx, resp1.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, 0.0, p.AvgRating)
		assert.Equal(t, 0, p.RatingCount)
	})

	t.Run("下架商品不可评价", func(t *testing.T) {
		p.IsActive = false
		_, err := uc.Create(ctx, CreateReviewRequest{ProductID: 1, UserID: 102, Rating: 4})
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})
}

// TestPinReview 置顶: 归属链路校验、配额、重复置顶、幂等取消
func TestPinReview(t *testing.T) {
	ctx := context.Background()
	reviewRepo := newFakeReviewRepo()
	pinRepo := newFakePinRepo()
	productRepo := newFakeProductRepo()
	seedProduct(productRepo, 1, 10)

	writeUC := NewWriteReviewUseCase(reviewRepo, pinRepo, productRepo, passthroughTx{})
	pinUC := NewPinReviewUseCase(reviewRepo, pinRepo, productRepo, passthroughTx{})

	reviewIDs := make([]uint, 0, 5)
	for i := 0; i < 5; i++ {
		resp, err := writeUC.Create(ctx, CreateReviewRequest{ProductID: 1, UserID: uint(100 + i), Rating: 4})
		require.NoError(t, err)
		reviewIDs = append(reviewIDs, resp.ID)
	}

	t.Run("非归属商家被拒", func(t *testing.T) {
		_, err := pinUC.Pin(ctx, reviewIDs[0], 99)
		assert.ErrorIs(t, err, review.ErrNotProductVendor)
	})

	t.Run("配额内置顶成功", func(t *testing.T) {
		for _, id := range reviewIDs[:4] {
			_, err := pinUC.Pin(ctx, id, 10)
			require.NoError(t, err)
		}
	})

	t.Run("重复置顶被拒", func(t *testing.T) {
		_, err := pinUC.Pin(ctx, reviewIDs[0], 10)
		assert.ErrorIs(t, err, review.ErrAlreadyPinned)
	})

	t.Run("超配额拒绝并携带明细", func(t *testing.T) {
		_, err := pinUC.Pin(ctx, reviewIDs[4], 10)
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodePinQuotaExceeded, appErr.Code)
		assert.EqualValues(t, review.MaxPinsPerVendor, appErr.Details["limit"])
		assert.EqualValues(t, 4, appErr.Details["current"])
	})

	t.Run("取消幂等且腾出配额", func(t *testing.T) {
		require.NoError(t, pinUC.Unpin(ctx, reviewIDs[0], 10))
		require.NoError(t, pinUC.Unpin(ctx, reviewIDs[0], 10), "重复取消应幂等成功")

		_, err := pinUC.Pin(ctx, reviewIDs[4], 10)
		assert.NoError(t, err, "腾出配额后置顶应成功")
	})

	t.Run("置顶列表含评价内容", func(t *testing.T) {
		pinned, err := pinUC.ListPinned(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, pinned, 4)
		for _, r := range pinned {
			assert.True(t, r.IsPinned)
		}
	})
}
