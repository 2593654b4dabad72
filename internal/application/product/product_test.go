package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiwen/vendormall/internal/domain/product"
)

// 用例级单元测试: 内存仓储 + 可回滚事务, 覆盖规格创建的原子性
// 与商品软删除的规格级联

// snapshotter 可快照仓储, 回滚事务据此恢复状态
type snapshotter interface {
	snapshot() (restore func())
}

// rollbackTx 回滚事务: fn报错时把参与方恢复到事务前的快照
type rollbackTx struct {
	repos []snapshotter
}

func (tx *rollbackTx) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	restores := make([]func(), 0, len(tx.repos))
	for _, r := range tx.repos {
		restores = append(restores, r.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// fakeVariantRepo 内存规格仓储
type fakeVariantRepo struct {
	nextID   uint
	variants map[uint]*product.Variant
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{nextID: 1, variants: make(map[uint]*product.Variant)}
}

func (r *fakeVariantRepo) snapshot() func() {
	saved := make(map[uint]*product.Variant, len(r.variants))
	for id, v := range r.variants {
		copied := *v
		saved[id] = &copied
	}
	savedNext := r.nextID
	return func() {
		r.variants = saved
		r.nextID = savedNext
	}
}

func (r *fakeVariantRepo) Create(_ context.Context, v *product.Variant) error {
	for _, existing := range r.variants {
		if existing.SKU == v.SKU {
			return product.ErrSKUDuplicate
		}
	}
	v.ID = r.nextID
	r.nextID++
	r.variants[v.ID] = v
	return nil
}

func (r *fakeVariantRepo) FindByID(_ context.Context, id uint) (*product.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, product.ErrVariantNotFound
	}
	return v, nil
}

func (r *fakeVariantRepo) FindByProduct(_ context.Context, productID uint, activeOnly bool) ([]*product.Variant, error) {
	out := make([]*product.Variant, 0)
	for _, v := range r.variants {
		if v.ProductID != productID {
			continue
		}
		if activeOnly && !v.IsActive {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVariantRepo) Update(_ context.Context, v *product.Variant) error {
	r.variants[v.ID] = v
	return nil
}

func (r *fakeVariantRepo) SoftDelete(_ context.Context, id uint) error {
	v, ok := r.variants[id]
	if !ok {
		return product.ErrVariantNotFound
	}
	v.IsActive = false
	return nil
}

func (r *fakeVariantRepo) DeactivateByProduct(_ context.Context, productID uint) (int64, error) {
	var n int64
	for _, v := range r.variants {
		if v.ProductID == productID && v.IsActive {
			v.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeVariantRepo) PriceRanges(_ context.Context, _ []uint) ([]product.PriceRange, error) {
	return nil, nil
}

// fakeInventoryRepo 内存库存仓储; failCreate非nil时Create注入失败
type fakeInventoryRepo struct {
	nextID      uint
	inventories map[uint]*product.Inventory // 按variantID索引
	failCreate  error
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{nextID: 1, inventories: make(map[uint]*product.Inventory)}
}

func (r *fakeInventoryRepo) snapshot() func() {
	saved := make(map[uint]*product.Inventory, len(r.inventories))
	for id, inv := range r.inventories {
		copied := *inv
		saved[id] = &copied
	}
	savedNext := r.nextID
	return func() {
		r.inventories = saved
		r.nextID = savedNext
	}
}

func (r *fakeInventoryRepo) Create(_ context.Context, inv *product.Inventory) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	inv.ID = r.nextID
	r.nextID++
	r.inventories[inv.VariantID] = inv
	return nil
}

func (r *fakeInventoryRepo) FindByVariant(_ context.Context, variantID uint) (*product.Inventory, error) {
	inv, ok := r.inventories[variantID]
	if !ok {
		return nil, product.ErrInventoryNotFound
	}
	return inv, nil
}

func (r *fakeInventoryRepo) AdjustStock(_ context.Context, variantID uint, delta int) (*product.Inventory, error) {
	inv, ok := r.inventories[variantID]
	if !ok {
		return nil, product.ErrInventoryNotFound
	}
	if delta < 0 && inv.Stock-inv.Reserved+delta < 0 {
		snapshot := *inv
		return &snapshot, product.ErrInsufficientStock
	}
	inv.Stock += delta
	if inv.Stock < 0 {
		inv.Stock = 0
	}
	return inv, nil
}

func (r *fakeInventoryRepo) UpdateThreshold(_ context.Context, variantID uint, threshold int) error {
	inv, ok := r.inventories[variantID]
	if !ok {
		return product.ErrInventoryNotFound
	}
	inv.LowStockThreshold = threshold
	return nil
}

func (r *fakeInventoryRepo) ListByVendor(_ context.Context, _ uint) ([]*product.VendorStock, error) {
	return nil, nil
}

// fakeProductRepo 内存商品仓储(只实现用例触达的方法)
type fakeProductRepo struct {
	products map[uint]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*product.Product)}
}

func (r *fakeProductRepo) snapshot() func() {
	saved := make(map[uint]*product.Product, len(r.products))
	for id, p := range r.products {
		copied := *p
		saved[id] = &copied
	}
	return func() { r.products = saved }
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

func (r *fakeProductRepo) FindBySeoSlug(_ context.Context, _ string) (*product.Product, error) {
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

func (r *fakeProductRepo) UpdateRating(_ context.Context, _ uint, _ float64, _ int) error {
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

// TestCreateVariantAtomicity 规格与库存记录同事务:
// 库存插入失败时规格插入必须一并回滚, 不留孤儿规格
func TestCreateVariantAtomicity(t *testing.T) {
	ctx := context.Background()

	newCase := func() (*CreateVariantUseCase, *fakeVariantRepo, *fakeInventoryRepo) {
		productRepo := newFakeProductRepo()
		variantRepo := newFakeVariantRepo()
		inventoryRepo := newFakeInventoryRepo()
		seedProduct(productRepo, 1, 10)
		tx := &rollbackTx{repos: []snapshotter{productRepo, variantRepo, inventoryRepo}}
		return NewCreateVariantUseCase(productRepo, variantRepo, inventoryRepo, tx), variantRepo, inventoryRepo
	}

	t.Run("正常创建带初始库存", func(t *testing.T) {
		uc, variantRepo, inventoryRepo := newCase()
		resp, err := uc.Execute(ctx, CreateVariantRequest{
			ProductID: 1, VendorID: 10, SKU: "SKU-001",
			PriceMRP: 10000, PriceSelling: 8000,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Inventory.Stock)
		assert.Equal(t, product.DefaultLowStockThreshold, resp.Inventory.LowStockThreshold)
		assert.Len(t, variantRepo.variants, 1)
		assert.Len(t, inventoryRepo.inventories, 1)
	})

	t.Run("库存插入失败时不留孤儿规格", func(t *testing.T) {
		uc, variantRepo, inventoryRepo := newCase()
		inventoryRepo.failCreate = errors.New("insert failed")

		_, err := uc.Execute(ctx, CreateVariantRequest{
			ProductID: 1, VendorID: 10, SKU: "SKU-002",
			PriceMRP: 10000, PriceSelling: 8000,
		})
		require.Error(t, err)
		assert.Empty(t, variantRepo.variants, "事务回滚后规格行必须一并消失")
		assert.Empty(t, inventoryRepo.inventories)
	})

	t.Run("非归属商家被拒", func(t *testing.T) {
		uc, variantRepo, _ := newCase()
		_, err := uc.Execute(ctx, CreateVariantRequest{
			ProductID: 1, VendorID: 99, SKU: "SKU-003",
			PriceMRP: 10000, PriceSelling: 8000,
		})
		assert.ErrorIs(t, err, product.ErrNotOwner)
		assert.Empty(t, variantRepo.variants)
	})
}

// TestDeleteProductCascade 商品软删除同事务停用全部规格
func TestDeleteProductCascade(t *testing.T) {
	ctx := context.Background()
	productRepo := newFakeProductRepo()
	variantRepo := newFakeVariantRepo()
	inventoryRepo := newFakeInventoryRepo()
	seedProduct(productRepo, 1, 10)
	tx := &rollbackTx{repos: []snapshotter{productRepo, variantRepo, inventoryRepo}}

	createUC := NewCreateVariantUseCase(productRepo, variantRepo, inventoryRepo, tx)
	for _, sku := range []string{"SKU-A", "SKU-B", "SKU-C"} {
		_, err := createUC.Execute(ctx, CreateVariantRequest{
			ProductID: 1, VendorID: 10, SKU: sku,
			PriceMRP: 10000, PriceSelling: 8000,
		})
		require.NoError(t, err)
	}

	deleteUC := NewDeleteProductUseCase(productRepo, variantRepo, tx)

	t.Run("非归属商家被拒", func(t *testing.T) {
		_, err := deleteUC.Execute(ctx, 1, 99)
		assert.ErrorIs(t, err, product.ErrNotOwner)
	})

	t.Run("软删除级联停用3个规格", func(t *testing.T) {
		resp, err := deleteUC.Execute(ctx, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 3, resp.DeactivatedVariants)

		p, err := productRepo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, p.IsActive, "商品自身应已下架")

		for _, v := range variantRepo.variants {
			assert.False(t, v.IsActive, "规格%s应已随商品停用", v.SKU)
		}
		assert.Len(t, inventoryRepo.inventories, 3, "库存记录保留不动")
	})

	t.Run("重复删除无可停用规格", func(t *testing.T) {
		resp, err := deleteUC.Execute(ctx, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 0, resp.DeactivatedVariants)
	})
}
