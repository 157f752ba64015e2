package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo de productos (el CRUD vive en otro módulo).
// Las unidades declaradas se guardan como JSONB en la columna units.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto con sus unidades. nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, cost, reorder_level, units, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	var unitsRaw []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Cost, &p.ReorderLevel, &unitsRaw,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := json.Unmarshal(unitsRaw, &p.Units); err != nil {
		return nil, fmt.Errorf("decode product units: %w", err)
	}
	return &p, nil
}

// List lista productos del catálogo.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, cost, reorder_level, units, created_at, updated_at
		FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var unitsRaw []byte
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Cost, &p.ReorderLevel,
			&unitsRaw, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := json.Unmarshal(unitsRaw, &p.Units); err != nil {
			return nil, fmt.Errorf("decode product units: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
