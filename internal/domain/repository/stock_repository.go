package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el saldo por producto+sucursal.
// Las mutaciones se hacen siempre dentro de una transacción con la fila bloqueada.
type StockRepository interface {
	Get(productID, branchID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si el par (producto,
	// sucursal) aún no tiene historial, materializa la fila en cero y la
	// bloquea dentro de la misma transacción: todo escritor concurrente
	// serializa sobre la misma fila, incluso en el primer movimiento del par.
	GetForUpdate(productID, branchID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
}
