package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: no existen Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, branch_id, type, quantity, unit_code,
		quantity_base, balance_before, balance_after, reference_type, reference_id,
		transfer_id, unit_cost, total_cost, notes, created_by, created_at`

// Create persiste un registro del libro de movimientos.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.BranchID, movement.Type,
		movement.Quantity, movement.UnitCode, movement.QuantityBase,
		movement.BalanceBefore, movement.BalanceAfter,
		nullable(movement.ReferenceType), nullable(movement.ReferenceID),
		nullable(movement.TransferID), movement.UnitCost, movement.TotalCost,
		nullable(movement.Notes), movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros opcionales, más reciente primero.
func (r *StockMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	appendCond := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.ProductID != "" {
		appendCond("product_id = $%d", filter.ProductID)
	}
	if filter.BranchID != "" {
		appendCond("branch_id = $%d", filter.BranchID)
	}
	if filter.Type != "" {
		appendCond("type = $%d", filter.Type)
	}
	if filter.TransferID != "" {
		appendCond("transfer_id = $%d", filter.TransferID)
	}
	if filter.From != nil {
		appendCond("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		appendCond("created_at <= $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// scanMovement mapea una fila (pgx.Row o pgx.Rows) a la entidad.
func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var refType, refID, transferID, notes *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.BranchID, &m.Type, &m.Quantity, &m.UnitCode,
		&m.QuantityBase, &m.BalanceBefore, &m.BalanceAfter,
		&refType, &refID, &transferID, &m.UnitCost, &m.TotalCost,
		&notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ReferenceType = deref(refType)
	m.ReferenceID = deref(refID)
	m.TransferID = deref(transferID)
	m.Notes = deref(notes)
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
