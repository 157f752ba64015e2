package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// AdjustStockRequest body para POST /api/stock/adjust.
// En ADJUSTMENT la cantidad lleva el signo del caller; en el resto debe ser positiva.
type AdjustStockRequest struct {
	ProductID     string           `json:"product_id"`
	BranchID      string           `json:"branch_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCode      string           `json:"unit_code"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// ReservationRequest body para POST /api/stock/reserve y /api/stock/release.
type ReservationRequest struct {
	ProductID     string          `json:"product_id"`
	BranchID      string          `json:"branch_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCode      string          `json:"unit_code"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// StockResponse saldo de un producto en una sucursal.
type StockResponse struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved_quantity"`
	Available decimal.Decimal `json:"available_quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewStockResponse mapea la entidad al DTO (disponible siempre recalculado).
func NewStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID: s.ProductID,
		BranchID:  s.BranchID,
		Quantity:  s.Quantity,
		Reserved:  s.ReservedQuantity,
		Available: s.Available(),
		UpdatedAt: s.UpdatedAt,
	}
}

// MovementResponse registro del libro de movimientos.
type MovementResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	BranchID      string           `json:"branch_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCode      string           `json:"unit_code"`
	QuantityBase  decimal.Decimal  `json:"quantity_base"`
	BalanceBefore decimal.Decimal  `json:"balance_before"`
	BalanceAfter  decimal.Decimal  `json:"balance_after"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	TransferID    string           `json:"transfer_id,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost     *decimal.Decimal `json:"total_cost,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		BranchID:      m.BranchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCode:      m.UnitCode,
		QuantityBase:  m.QuantityBase,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		TransferID:    m.TransferID,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// BranchStockDTO fila de listado de stock por sucursal con datos de catálogo.
type BranchStockDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reserved     decimal.Decimal `json:"reserved_quantity"`
	Available    decimal.Decimal `json:"available_quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewBranchStockDTO mapea la fila de consulta al DTO.
func NewBranchStockDTO(r repository.BranchStockRow) BranchStockDTO {
	return BranchStockDTO{
		ProductID:    r.ProductID,
		SKU:          r.SKU,
		ProductName:  r.ProductName,
		BranchID:     r.BranchID,
		BranchName:   r.BranchName,
		Quantity:     r.Quantity,
		Reserved:     r.Reserved,
		Available:    r.Available,
		ReorderLevel: r.ReorderLevel,
		UnitCost:     r.UnitCost,
		UpdatedAt:    r.UpdatedAt,
	}
}

// StockSummaryDTO resumen agregado de una sucursal.
type StockSummaryDTO struct {
	TotalProducts int             `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	OutOfStock    int             `json:"out_of_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// MonthlyMovementDTO agregado mensual de entradas/salidas.
type MonthlyMovementDTO struct {
	Month    int             `json:"month"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
	Count    int             `json:"count"`
}

// ActiveProductDTO producto con más movimientos en la ventana consultada.
type ActiveProductDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	MovementCount int             `json:"movement_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}
