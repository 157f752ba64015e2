package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre stock, movimientos y
// agregados. Nunca muta el libro; los joins contra catálogo son solo para
// metadatos de presentación.
type StockQueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
	queryRepo    repository.StockQueryRepository
	productRepo  repository.ProductRepository
}

// NewStockQueryUseCase construye el caso de uso de consultas.
func NewStockQueryUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	queryRepo repository.StockQueryRepository,
	productRepo repository.ProductRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		queryRepo:    queryRepo,
		productRepo:  productRepo,
	}
}

// GetStock devuelve el saldo de un producto en una sucursal. Un par sin
// historial devuelve el registro en cero (el registro se crea perezosamente
// con el primer movimiento).
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID, branchID string) (*entity.Stock, error) {
	if productID == "" || branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(productID, branchID)
}

// ListBranchStocks lista el stock de una sucursal con metadatos de catálogo.
func (uc *StockQueryUseCase) ListBranchStocks(ctx context.Context, branchID, search string, limit, offset int) ([]repository.BranchStockRow, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.queryRepo.ListBranchStocks(ctx, branchID, search, limit, offset)
}

// GetLowStock devuelve filas con disponible en o por debajo del punto de
// reorden del producto, o del umbral explícito si se entrega uno.
func (uc *StockQueryUseCase) GetLowStock(ctx context.Context, branchID string, threshold *decimal.Decimal) ([]repository.BranchStockRow, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if threshold != nil && threshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.queryRepo.GetLowStock(ctx, branchID, threshold)
}

// GetSummary agrega totales de una sucursal (o globales si branchID es vacío):
// productos con registro, bajos de stock, agotados y valor total a costo.
func (uc *StockQueryUseCase) GetSummary(ctx context.Context, branchID string) (*repository.StockSummaryResult, error) {
	return uc.queryRepo.GetSummary(ctx, branchID)
}

// GetMovementHistory lista el libro de movimientos, más reciente primero.
func (uc *StockQueryUseCase) GetMovementHistory(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	if filter.Type != "" {
		if _, ok := entity.DirectionOf(filter.Type); !ok {
			return nil, domain.ErrInvalidInput
		}
	}
	return uc.movementRepo.List(filter, limit, offset)
}

// GetMonthlyMovements agrupa entradas y salidas por mes del año dado.
func (uc *StockQueryUseCase) GetMonthlyMovements(ctx context.Context, year int, branchID string) ([]repository.MonthlyMovementRow, error) {
	if year < 2000 || year > 2100 {
		return nil, domain.ErrInvalidInput
	}
	return uc.queryRepo.GetMonthlyMovements(ctx, year, branchID)
}

// GetMostActiveProducts devuelve los productos con más movimientos en la ventana dada.
func (uc *StockQueryUseCase) GetMostActiveProducts(ctx context.Context, branchID string, window time.Duration, limit int) ([]repository.ActiveProductRow, error) {
	if window <= 0 || limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	since := time.Now().Add(-window)
	return uc.queryRepo.GetMostActiveProducts(ctx, branchID, since, limit)
}
