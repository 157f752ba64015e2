package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockQueryRepository = (*StockQueryRepo)(nil)

// StockQueryRepo consultas de solo lectura sobre stock y movimientos.
// Los joins contra products/branches son explícitos y solo para metadatos de
// presentación; ninguna consulta muta el libro.
type StockQueryRepo struct {
	pool *pgxpool.Pool
}

// NewStockQueryRepository construye el adaptador de consultas.
func NewStockQueryRepository(pool *pgxpool.Pool) *StockQueryRepo {
	return &StockQueryRepo{pool: pool}
}

const branchStockSelect = `
	SELECT
	    s.product_id,
	    p.sku,
	    p.name,
	    s.branch_id,
	    b.name,
	    s.quantity,
	    s.reserved_quantity,
	    s.quantity - s.reserved_quantity AS available,
	    p.reorder_level,
	    p.cost,
	    s.updated_at
	FROM stock s
	JOIN products p ON p.id = s.product_id
	JOIN branches b ON b.id = s.branch_id`

// ListBranchStocks lista el stock de una sucursal con datos de catálogo.
// search filtra por SKU o nombre (ILIKE); vacío = sin filtro.
func (r *StockQueryRepo) ListBranchStocks(ctx context.Context, branchID, search string, limit, offset int) ([]repository.BranchStockRow, error) {
	query := branchStockSelect + `
	WHERE s.branch_id = $1`
	args := []any{branchID}
	pos := 2
	if search != "" {
		query += fmt.Sprintf(" AND (p.sku ILIKE $%d OR p.name ILIKE $%d)", pos, pos)
		args = append(args, "%"+search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY p.name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stockquery.ListBranchStocks: %w", err)
	}
	defer rows.Close()
	return collectBranchStockRows(rows)
}

// GetLowStock devuelve filas cuyo disponible está en o por debajo del punto de
// reorden del producto, o del umbral explícito si threshold != nil.
func (r *StockQueryRepo) GetLowStock(ctx context.Context, branchID string, threshold *decimal.Decimal) ([]repository.BranchStockRow, error) {
	var (
		query string
		args  []any
	)
	if threshold != nil {
		query = branchStockSelect + `
	WHERE s.branch_id = $1
	  AND s.quantity - s.reserved_quantity <= $2
	ORDER BY (s.quantity - s.reserved_quantity) ASC`
		args = []any{branchID, *threshold}
	} else {
		query = branchStockSelect + `
	WHERE s.branch_id = $1
	  AND s.quantity - s.reserved_quantity <= p.reorder_level
	ORDER BY (p.reorder_level - (s.quantity - s.reserved_quantity)) DESC`
		args = []any{branchID}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stockquery.GetLowStock: %w", err)
	}
	defer rows.Close()
	return collectBranchStockRows(rows)
}

// GetSummary agrega totales de la sucursal (o de todas si branchID es vacío):
// productos con registro, bajos de stock, agotados y valor total a costo
// (Σ quantity × products.cost). COALESCE devuelve cero sin filas.
func (r *StockQueryRepo) GetSummary(ctx context.Context, branchID string) (*repository.StockSummaryResult, error) {
	query := `
	SELECT
	    COUNT(DISTINCT s.product_id)                                             AS total_products,
	    COUNT(*) FILTER (
	        WHERE s.quantity - s.reserved_quantity <= p.reorder_level)           AS low_stock,
	    COUNT(*) FILTER (WHERE s.quantity = 0)                                   AS out_of_stock,
	    COALESCE(SUM(s.quantity * p.cost), 0)                                    AS total_value
	FROM stock s
	JOIN products p ON p.id = s.product_id
	WHERE ($1 = '' OR s.branch_id = $1)`

	var res repository.StockSummaryResult
	err := r.pool.QueryRow(ctx, query, branchID).Scan(
		&res.TotalProducts, &res.LowStockCount, &res.OutOfStock, &res.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("stockquery.GetSummary: %w", err)
	}
	return &res, nil
}

// GetMonthlyMovements agrupa entradas y salidas físicas por mes del año dado.
// Los movimientos neutros (RESERVATION/RELEASE) no mueven saldo y se excluyen.
func (r *StockQueryRepo) GetMonthlyMovements(ctx context.Context, year int, branchID string) ([]repository.MonthlyMovementRow, error) {
	query := `
	SELECT
	    EXTRACT(MONTH FROM m.created_at)::INT                                        AS month,
	    COALESCE(SUM(m.balance_after - m.balance_before)
	        FILTER (WHERE m.balance_after > m.balance_before), 0)                    AS inbound,
	    COALESCE(SUM(m.balance_before - m.balance_after)
	        FILTER (WHERE m.balance_after < m.balance_before), 0)                    AS outbound,
	    COUNT(*)                                                                    AS cnt
	FROM stock_movements m
	WHERE EXTRACT(YEAR FROM m.created_at) = $1
	  AND m.type NOT IN ('RESERVATION', 'RELEASE')
	  AND ($2 = '' OR m.branch_id = $2)
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, year, branchID)
	if err != nil {
		return nil, fmt.Errorf("stockquery.GetMonthlyMovements: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyMovementRow
	for rows.Next() {
		var row repository.MonthlyMovementRow
		if err := rows.Scan(&row.Month, &row.Inbound, &row.Outbound, &row.Count); err != nil {
			return nil, fmt.Errorf("stockquery.GetMonthlyMovements scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetMostActiveProducts devuelve los `limit` productos con más movimientos
// desde la fecha dada, con la cantidad base absoluta total movida.
func (r *StockQueryRepo) GetMostActiveProducts(ctx context.Context, branchID string, since time.Time, limit int) ([]repository.ActiveProductRow, error) {
	query := `
	SELECT
	    m.product_id,
	    p.sku,
	    p.name,
	    COUNT(*)                       AS movement_count,
	    COALESCE(SUM(ABS(m.quantity_base)), 0) AS total_quantity
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	WHERE m.created_at >= $1
	  AND m.type NOT IN ('RESERVATION', 'RELEASE')
	  AND ($2 = '' OR m.branch_id = $2)
	GROUP BY m.product_id, p.sku, p.name
	ORDER BY movement_count DESC, total_quantity DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, since, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("stockquery.GetMostActiveProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.ActiveProductRow
	for rows.Next() {
		var row repository.ActiveProductRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName,
			&row.MovementCount, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("stockquery.GetMostActiveProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func collectBranchStockRows(rows pgx.Rows) ([]repository.BranchStockRow, error) {
	var results []repository.BranchStockRow
	for rows.Next() {
		var row repository.BranchStockRow
		if err := rows.Scan(
			&row.ProductID, &row.SKU, &row.ProductName,
			&row.BranchID, &row.BranchName,
			&row.Quantity, &row.Reserved, &row.Available,
			&row.ReorderLevel, &row.UnitCost, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan branch stock row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
