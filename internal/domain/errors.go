package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnitNotFound      = errors.New("unidad no definida para el producto")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNegativeBalance   = errors.New("el saldo resultante sería negativo")
	ErrOverRelease       = errors.New("cantidad a liberar mayor que la reservada")
	ErrBelowReserved     = errors.New("la cantidad no puede quedar por debajo de lo reservado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrConflict          = errors.New("conflicto con el estado actual")
)

// NewTransitionError envuelve ErrInvalidTransition reportando el estado actual
// y el destino intentado (requisito de la máquina de estados de traslados).
func NewTransitionError(current, target string) error {
	return fmt.Errorf("%w: estado actual %s, destino %s", ErrInvalidTransition, current, target)
}
