package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// ProductUnit unidad de medida declarada para un producto.
// ConversionRate expresa cuántas unidades base equivalen a 1 de esta unidad.
// Exactamente una unidad por producto debe tener IsBase = true (rate 1).
type ProductUnit struct {
	Code           string          `json:"code"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	IsBase         bool            `json:"is_base"`
}

// Product representa un producto del catálogo (colaborador externo, solo lectura aquí).
// El motor de stock consume únicamente sus unidades, costo y punto de reorden;
// el CRUD del catálogo vive en otro módulo.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Cost         decimal.Decimal // costo por unidad base
	ReorderLevel decimal.Decimal // en unidades base
	Units        []ProductUnit
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FindUnit busca una unidad por código. ErrUnitNotFound si no está declarada.
func (p *Product) FindUnit(code string) (*ProductUnit, error) {
	for i := range p.Units {
		if p.Units[i].Code == code {
			return &p.Units[i], nil
		}
	}
	return nil, domain.ErrUnitNotFound
}

// BaseUnit devuelve la unidad base del producto.
func (p *Product) BaseUnit() (*ProductUnit, error) {
	for i := range p.Units {
		if p.Units[i].IsBase {
			return &p.Units[i], nil
		}
	}
	return nil, domain.ErrUnitNotFound
}
