package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BranchStockRow fila de stock enriquecida con datos de catálogo para listados.
// La produce la DB con un join explícito contra products/branches.
type BranchStockRow struct {
	ProductID    string
	SKU          string
	ProductName  string
	BranchID     string
	BranchName   string
	Quantity     decimal.Decimal
	Reserved     decimal.Decimal
	Available    decimal.Decimal // quantity - reserved, calculado en la consulta
	ReorderLevel decimal.Decimal
	UnitCost     decimal.Decimal
	UpdatedAt    time.Time
}

// StockSummaryResult resumen agregado del stock de una sucursal.
type StockSummaryResult struct {
	TotalProducts int
	LowStockCount int
	OutOfStock    int
	TotalValue    decimal.Decimal // Σ(quantity × products.cost)
}

// MonthlyMovementRow agregado mensual de movimientos (entradas/salidas por mes).
type MonthlyMovementRow struct {
	Month    int
	Inbound  decimal.Decimal
	Outbound decimal.Decimal
	Count    int
}

// ActiveProductRow producto con más movimientos en la ventana consultada.
type ActiveProductRow struct {
	ProductID     string
	SKU           string
	ProductName   string
	MovementCount int
	TotalQuantity decimal.Decimal // suma de |cantidad base| movida
}

// StockQueryRepository consultas de solo lectura sobre stock, movimientos y
// traslados. Las implementaciones nunca mutan el libro.
type StockQueryRepository interface {
	// ListBranchStocks lista el stock de una sucursal con datos de catálogo.
	// search filtra por SKU o nombre de producto (ILIKE); vacío = sin filtro.
	ListBranchStocks(ctx context.Context, branchID, search string, limit, offset int) ([]BranchStockRow, error)

	// GetLowStock devuelve filas cuyo disponible está en o por debajo del punto
	// de reorden del producto, o del umbral explícito si threshold != nil.
	GetLowStock(ctx context.Context, branchID string, threshold *decimal.Decimal) ([]BranchStockRow, error)

	// GetSummary agrega totales de la sucursal (o de todas si branchID es vacío).
	GetSummary(ctx context.Context, branchID string) (*StockSummaryResult, error)

	// GetMonthlyMovements agrupa entradas y salidas por mes del año dado.
	GetMonthlyMovements(ctx context.Context, year int, branchID string) ([]MonthlyMovementRow, error)

	// GetMostActiveProducts devuelve los productos con más movimientos desde `since`.
	GetMostActiveProducts(ctx context.Context, branchID string, since time.Time, limit int) ([]ActiveProductRow, error)
}
