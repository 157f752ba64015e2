package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// BranchRepository puerto de solo lectura sobre el catálogo de sucursales.
type BranchRepository interface {
	GetByID(id string) (*entity.Branch, error)
	List(limit, offset int) ([]*entity.Branch, error)
}
