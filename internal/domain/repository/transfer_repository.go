package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados entre sucursales.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la fila del traslado para aplicar una transición de estado.
	GetForUpdate(id string) (*entity.Transfer, error)
	Update(transfer *entity.Transfer) error
	List(status string, limit, offset int) ([]*entity.Transfer, error)
	// FindPendingTooLong devuelve traslados PENDING o IN_TRANSIT solicitados
	// antes de la fecha dada (detección de traslados estancados; la cancelación
	// sigue siendo una acción explícita del caller).
	FindPendingTooLong(olderThan time.Time) ([]*entity.Transfer, error)
	// NextTransferNumber genera el consecutivo legible del día de forma atómica
	// (fila contadora por fecha con incremento atómico).
	NextTransferNumber(day time.Time) (string, error)
}
