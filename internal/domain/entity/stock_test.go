package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func newStock(qty, reserved int64) *entity.Stock {
	s := entity.NewStock("prod-1", "branch-1")
	s.Quantity = decimal.NewFromInt(qty)
	s.ReservedQuantity = decimal.NewFromInt(reserved)
	return s
}

// assertInvariant verifica la invariante central después de cada operación:
// 0 <= reservado <= cantidad, disponible == cantidad - reservado.
func assertInvariant(t *testing.T, s *entity.Stock) {
	t.Helper()
	assert.False(t, s.ReservedQuantity.IsNegative(), "reservado nunca negativo")
	assert.True(t, s.ReservedQuantity.LessThanOrEqual(s.Quantity), "reservado nunca mayor que cantidad")
	assert.True(t, s.Available().Equal(s.Quantity.Sub(s.ReservedQuantity)), "disponible = cantidad - reservado")
}

func TestNewStock_EnCero(t *testing.T) {
	s := entity.NewStock("p", "b")
	assert.True(t, s.Quantity.IsZero())
	assert.True(t, s.ReservedQuantity.IsZero())
	assert.True(t, s.Available().IsZero())
	assertInvariant(t, s)
}

func TestApplyDelta_Suma(t *testing.T) {
	s := newStock(100, 0)
	require.NoError(t, s.ApplyDelta(decimal.NewFromInt(20)))
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(120)))
	assertInvariant(t, s)
}

func TestApplyDelta_SaldoNegativoFalla(t *testing.T) {
	s := newStock(10, 0)
	err := s.ApplyDelta(decimal.NewFromInt(-11))
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(10)), "el saldo no debe cambiar tras el fallo")
	assertInvariant(t, s)
}

func TestApplyDelta_NoBajaDeLoReservado(t *testing.T) {
	s := newStock(10, 8)
	err := s.ApplyDelta(decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrBelowReserved)
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.ReservedQuantity.Equal(decimal.NewFromInt(8)))
	assertInvariant(t, s)
}

// Escenario: {cantidad:100, reservado:0} → Reserve(30) → disponible 70;
// Unreserve(30) → disponible 100, reservado 0.
func TestReserveUnreserve_CicloCompleto(t *testing.T) {
	s := newStock(100, 0)

	require.NoError(t, s.Reserve(decimal.NewFromInt(30)))
	assert.True(t, s.ReservedQuantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, s.Available().Equal(decimal.NewFromInt(70)))
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(100)), "reservar no mueve el saldo físico")
	assertInvariant(t, s)

	require.NoError(t, s.Unreserve(decimal.NewFromInt(30)))
	assert.True(t, s.ReservedQuantity.IsZero())
	assert.True(t, s.Available().Equal(decimal.NewFromInt(100)))
	assertInvariant(t, s)
}

func TestReserve_MasQueDisponibleFalla(t *testing.T) {
	s := newStock(100, 80)
	before := *s

	err := s.Reserve(decimal.NewFromInt(21))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, before, *s, "el registro debe quedar idéntico tras el fallo")
}

func TestReserve_CantidadNoPositivaFalla(t *testing.T) {
	s := newStock(100, 0)
	assert.ErrorIs(t, s.Reserve(decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Reserve(decimal.NewFromInt(-5)), domain.ErrInvalidInput)
}

func TestUnreserve_MasQueReservadoFalla(t *testing.T) {
	s := newStock(100, 10)
	err := s.Unreserve(decimal.NewFromInt(11))
	assert.ErrorIs(t, err, domain.ErrOverRelease)
	assert.True(t, s.ReservedQuantity.Equal(decimal.NewFromInt(10)))
	assertInvariant(t, s)
}

func TestSetQuantity(t *testing.T) {
	s := newStock(100, 30)

	require.NoError(t, s.SetQuantity(decimal.NewFromInt(50)))
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(50)))
	assertInvariant(t, s)

	err := s.SetQuantity(decimal.NewFromInt(29))
	assert.ErrorIs(t, err, domain.ErrBelowReserved, "no puede quedar por debajo de lo reservado")

	err = s.SetQuantity(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(50)))
	assertInvariant(t, s)
}
