package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID    string          `json:"product_id"`
	FromBranchID string          `json:"from_branch_id"`
	ToBranchID   string          `json:"to_branch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCode     string          `json:"unit_code"`
	Reason       string          `json:"reason,omitempty"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
// received_quantity permite registrar merma en tránsito (menos de lo enviado).
type ReceiveTransferRequest struct {
	ReceivedQuantity *decimal.Decimal `json:"received_quantity,omitempty"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// TransferResponse representación de un traslado.
type TransferResponse struct {
	ID             string          `json:"id"`
	TransferNumber string          `json:"transfer_number"`
	ProductID      string          `json:"product_id"`
	FromBranchID   string          `json:"from_branch_id"`
	ToBranchID     string          `json:"to_branch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCode       string          `json:"unit_code"`
	QuantityBase   decimal.Decimal `json:"quantity_base"`
	Status         string          `json:"status"`
	RequestedBy    string          `json:"requested_by"`
	RequestedAt    time.Time       `json:"requested_at"`
	ApprovedBy     string          `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	SentBy         string          `json:"sent_by,omitempty"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	ReceivedBy     string          `json:"received_by,omitempty"`
	ReceivedAt     *time.Time      `json:"received_at,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Notes          []string        `json:"notes,omitempty"`
}

// NewTransferResponse mapea la entidad al DTO.
func NewTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		ProductID:      t.ProductID,
		FromBranchID:   t.FromBranchID,
		ToBranchID:     t.ToBranchID,
		Quantity:       t.Quantity,
		UnitCode:       t.UnitCode,
		QuantityBase:   t.QuantityBase,
		Status:         t.Status,
		RequestedBy:    t.RequestedBy,
		RequestedAt:    t.RequestedAt,
		ApprovedBy:     t.ApprovedBy,
		ApprovedAt:     t.ApprovedAt,
		SentBy:         t.SentBy,
		SentAt:         t.SentAt,
		ReceivedBy:     t.ReceivedBy,
		ReceivedAt:     t.ReceivedAt,
		Reason:         t.Reason,
		Notes:          t.Notes,
	}
}
