package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// stubQueryRepo respuestas enlatadas para las consultas agregadas; los
// agregados reales viven en SQL y se prueban contra la base.
type stubQueryRepo struct {
	summary *repository.StockSummaryResult
}

func (s *stubQueryRepo) ListBranchStocks(ctx context.Context, branchID, search string, limit, offset int) ([]repository.BranchStockRow, error) {
	return nil, nil
}

func (s *stubQueryRepo) GetLowStock(ctx context.Context, branchID string, threshold *decimal.Decimal) ([]repository.BranchStockRow, error) {
	return nil, nil
}

func (s *stubQueryRepo) GetSummary(ctx context.Context, branchID string) (*repository.StockSummaryResult, error) {
	return s.summary, nil
}

func (s *stubQueryRepo) GetMonthlyMovements(ctx context.Context, year int, branchID string) ([]repository.MonthlyMovementRow, error) {
	return nil, nil
}

func (s *stubQueryRepo) GetMostActiveProducts(ctx context.Context, branchID string, since time.Time, limit int) ([]repository.ActiveProductRow, error) {
	return nil, nil
}

func newQueryUC(f *fixture) *appinv.StockQueryUseCase {
	products := &memProductRepo{products: map[string]*entity.Product{}}
	return appinv.NewStockQueryUseCase(f.stocks, f.movements, &stubQueryRepo{
		summary: &repository.StockSummaryResult{TotalProducts: 3},
	}, products)
}

func TestGetStock(t *testing.T) {
	f := newFixture()
	f.store.setStock(prodID, branchA, 100, 30)
	uc := newQueryUC(f)
	ctx := context.Background()

	stock, err := uc.GetStock(ctx, prodID, branchA)
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, stock.Available().Equal(decimal.NewFromInt(70)))

	// Par sin historial: registro en cero, nunca error.
	stock, err = uc.GetStock(ctx, prodID, branchB)
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
	assert.True(t, stock.ReservedQuantity.IsZero())

	_, err = uc.GetStock(ctx, "", branchA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMovementHistory(t *testing.T) {
	f := newFixture()
	f.store.setStock(prodID, branchA, 100, 0)
	uc := newQueryUC(f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.registerUC.RegisterMovement(ctx, appinv.MovementInputDTO{
			ProductID: prodID, BranchID: branchA,
			Type: entity.MovementTypeSALE, Quantity: decimal.NewFromInt(1),
			UnitCode: unitTAB, UserID: actorID,
		})
		require.NoError(t, err)
	}

	movs, err := uc.GetMovementHistory(ctx, repository.MovementFilter{ProductID: prodID}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "respeta el límite de página")

	movs, err = uc.GetMovementHistory(ctx, repository.MovementFilter{ProductID: prodID}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	_, err = uc.GetMovementHistory(ctx, repository.MovementFilter{Type: "LOAN"}, 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido en el filtro")
}

func TestQueryValidaciones(t *testing.T) {
	f := newFixture()
	uc := newQueryUC(f)
	ctx := context.Background()

	_, err := uc.ListBranchStocks(ctx, "", "", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := decimal.NewFromInt(-1)
	_, err = uc.GetLowStock(ctx, branchA, &neg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "umbral negativo")

	_, err = uc.GetMonthlyMovements(ctx, 1999, branchA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetMostActiveProducts(ctx, branchA, 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	summary, err := uc.GetSummary(ctx, branchA)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalProducts)
}
