package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un producto en una sucursal. Un par sin historial
// devuelve un registro en cero (creación perezosa al primer movimiento).
func (r *StockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE product_id = $1 AND branch_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStock(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// El bloqueo serializa las escrituras concurrentes sobre el mismo par
// (producto, sucursal): sin él, leer-calcular-escribir pierde updates.
// Si el par aún no tiene fila, se materializa en cero y se vuelve a
// bloquear dentro de la misma transacción: FOR UPDATE sobre una fila
// inexistente no bloquea nada, y dos primeros movimientos concurrentes
// partirían ambos de un cero obsoleto pisándose el saldo.
func (r *StockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		insert := `
			INSERT INTO stock (product_id, branch_id, quantity, reserved_quantity, updated_at)
			VALUES ($1, $2, 0, 0, now())
			ON CONFLICT (product_id, branch_id) DO NOTHING`
		if _, insErr := r.q.Exec(context.Background(), insert, productID, branchID); insErr != nil {
			return nil, fmt.Errorf("materialize stock row: %w", insErr)
		}
		err = r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
			&s.ProductID, &s.BranchID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo (por producto y sucursal).
// El registro nunca se borra, persiste indefinidamente aun en cero.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, branch_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              reserved_quantity = EXCLUDED.reserved_quantity,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.BranchID, stock.Quantity, stock.ReservedQuantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
