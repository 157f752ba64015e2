package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// ProductRepository puerto de solo lectura sobre el catálogo de productos.
// El CRUD del catálogo pertenece a otro módulo; el motor de stock consume
// únicamente unidades, costo y punto de reorden.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
