package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Convert convierte una cantidad entre dos unidades declaradas del producto,
// pasando por la unidad base (servicio de dominio, función pura):
// base = qty * from.ConversionRate; destino = base / to.ConversionRate.
// ErrUnitNotFound si alguno de los códigos no está declarado.
func Convert(qty decimal.Decimal, fromCode, toCode string, units []entity.ProductUnit) (decimal.Decimal, error) {
	from, err := findUnit(fromCode, units)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := findUnit(toCode, units)
	if err != nil {
		return decimal.Zero, err
	}
	base := qty.Mul(from.ConversionRate)
	return base.Div(to.ConversionRate), nil
}

// ToBase convierte una cantidad a unidades base del producto.
func ToBase(qty decimal.Decimal, unitCode string, product *entity.Product) (decimal.Decimal, error) {
	unit, err := product.FindUnit(unitCode)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(unit.ConversionRate), nil
}

func findUnit(code string, units []entity.ProductUnit) (*entity.ProductUnit, error) {
	p := entity.Product{Units: units}
	return p.FindUnit(code)
}
