package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Stock representa el saldo actual de un producto en una sucursal.
// Quantity y ReservedQuantity siempre en unidades base. Available se deriva,
// nunca se persiste como fuente de verdad.
// Invariante: 0 <= ReservedQuantity <= Quantity.
type Stock struct {
	ProductID        string
	BranchID         string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// NewStock crea un registro en cero para un par (producto, sucursal) sin historial.
func NewStock(productID, branchID string) *Stock {
	return &Stock{
		ProductID:        productID,
		BranchID:         branchID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

// Available cantidad disponible para asignar: Quantity - ReservedQuantity.
func (s *Stock) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// ApplyDelta suma (o resta) unidades base al saldo físico.
// ErrNegativeBalance si el resultado sería negativo; ErrBelowReserved si el
// saldo quedaría por debajo de lo reservado.
func (s *Stock) ApplyDelta(delta decimal.Decimal) error {
	newQty := s.Quantity.Add(delta)
	if newQty.IsNegative() {
		return domain.ErrNegativeBalance
	}
	if newQty.LessThan(s.ReservedQuantity) {
		return domain.ErrBelowReserved
	}
	s.Quantity = newQty
	return nil
}

// Reserve bloquea unidades base contra el disponible.
// ErrInsufficientStock si qty > Available().
func (s *Stock) Reserve(qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if qty.GreaterThan(s.Available()) {
		return domain.ErrInsufficientStock
	}
	s.ReservedQuantity = s.ReservedQuantity.Add(qty)
	return nil
}

// Unreserve libera unidades base previamente reservadas.
// ErrOverRelease si qty > ReservedQuantity.
func (s *Stock) Unreserve(qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if qty.GreaterThan(s.ReservedQuantity) {
		return domain.ErrOverRelease
	}
	s.ReservedQuantity = s.ReservedQuantity.Sub(qty)
	return nil
}

// SetQuantity fija el saldo físico en un valor absoluto (conteos/ajustes).
// ErrBelowReserved si newQty < ReservedQuantity.
func (s *Stock) SetQuantity(newQty decimal.Decimal) error {
	if newQty.IsNegative() {
		return domain.ErrNegativeBalance
	}
	if newQty.LessThan(s.ReservedQuantity) {
		return domain.ErrBelowReserved
	}
	s.Quantity = newQty
	return nil
}
