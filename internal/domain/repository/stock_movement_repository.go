package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// MovementFilter criterios opcionales para listar el libro de movimientos.
type MovementFilter struct {
	ProductID  string
	BranchID   string
	Type       string
	TransferID string
	From       *time.Time
	To         *time.Time
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// Los registros son inmutables: solo Create y lecturas, nunca update ni delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List devuelve movimientos ordenados por fecha descendente.
	List(filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
}
