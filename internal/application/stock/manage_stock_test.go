package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linwan/kimono-rental/internal/domain/garment"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
	"github.com/linwan/kimono-rental/internal/domain/store"
	apperrors "github.com/linwan/kimono-rental/pkg/errors"
)

type stubKey struct{ storeID, garmentID uint }

type stubInventoryRepo struct {
	capacities map[stubKey]int
}

func (r *stubInventoryRepo) GetCapacity(ctx context.Context, storeID, garmentID uint) (int, error) {
	return r.capacities[stubKey{storeID, garmentID}], nil
}

func (r *stubInventoryRepo) SetCapacity(ctx context.Context, storeID, garmentID uint, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}
	r.capacities[stubKey{storeID, garmentID}] = quantity
	return nil
}

func (r *stubInventoryRepo) LockByKey(ctx context.Context, storeID, garmentID uint) (*inventory.Record, error) {
	return nil, nil
}

func (r *stubInventoryRepo) ListByStore(ctx context.Context, storeID uint) ([]*inventory.Record, error) {
	var result []*inventory.Record
	for k, q := range r.capacities {
		if k.storeID == storeID {
			result = append(result, &inventory.Record{StoreID: k.storeID, GarmentID: k.garmentID, Quantity: q})
		}
	}
	return result, nil
}

type stubStoreRepo struct {
	existing map[uint]bool
}

func (r *stubStoreRepo) Create(ctx context.Context, s *store.Store) error { return nil }
func (r *stubStoreRepo) Update(ctx context.Context, s *store.Store) error { return nil }
func (r *stubStoreRepo) ListActive(ctx context.Context) ([]*store.Store, error) {
	return nil, nil
}
func (r *stubStoreRepo) List(ctx context.Context) ([]*store.Store, error) { return nil, nil }
func (r *stubStoreRepo) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	if !r.existing[id] {
		return nil, store.ErrStoreNotFound
	}
	return &store.Store{ID: id, Name: "浅草本店", City: "東京都台東区", IsActive: true}, nil
}

type stubGarmentRepo struct {
	existing map[uint]bool
}

func (r *stubGarmentRepo) Create(ctx context.Context, g *garment.Garment) error { return nil }
func (r *stubGarmentRepo) List(ctx context.Context) ([]*garment.Garment, error) { return nil, nil }
func (r *stubGarmentRepo) FindByID(ctx context.Context, id uint) (*garment.Garment, error) {
	if !r.existing[id] {
		return nil, garment.ErrGarmentNotFound
	}
	return &garment.Garment{ID: id, Name: "振袖·赤"}, nil
}

func newStockUseCase() (*ManageStockUseCase, *stubInventoryRepo) {
	inv := &stubInventoryRepo{capacities: make(map[stubKey]int)}
	uc := NewManageStockUseCase(
		inv,
		&stubStoreRepo{existing: map[uint]bool{1: true}},
		&stubGarmentRepo{existing: map[uint]bool{10: true}},
	)
	return uc, inv
}

func TestSetCapacity_Upsert(t *testing.T) {
	uc, _ := newStockUseCase()
	ctx := context.Background()

	require.NoError(t, uc.SetCapacity(ctx, 1, 10, 5))
	got, err := uc.GetCapacity(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	// 幂等覆盖
	require.NoError(t, uc.SetCapacity(ctx, 1, 10, 3))
	got, _ = uc.GetCapacity(ctx, 1, 10)
	assert.Equal(t, 3, got)
}

func TestSetCapacity_ZeroIsValid(t *testing.T) {
	uc, _ := newStockUseCase()
	ctx := context.Background()

	require.NoError(t, uc.SetCapacity(ctx, 1, 10, 0), "容量0合法:该店暂不提供此款式")
	got, _ := uc.GetCapacity(ctx, 1, 10)
	assert.Zero(t, got)
}

func TestSetCapacity_NegativeRejected(t *testing.T) {
	uc, _ := newStockUseCase()

	err := uc.SetCapacity(context.Background(), 1, 10, -1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
}

func TestSetCapacity_UnknownStoreOrGarment(t *testing.T) {
	uc, _ := newStockUseCase()
	ctx := context.Background()

	err := uc.SetCapacity(ctx, 999, 10, 5)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStoreNotFound))

	err = uc.SetCapacity(ctx, 1, 999, 5)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGarmentNotFound))
}

func TestGetCapacity_MissingIsZero(t *testing.T) {
	uc, _ := newStockUseCase()

	got, err := uc.GetCapacity(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, got, "未配置的容量按0读取,不报错")
}
