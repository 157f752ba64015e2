package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Estados de un traslado entre sucursales.
const (
	TransferStatusPENDING   = "PENDING"
	TransferStatusINTRANSIT = "IN_TRANSIT"
	TransferStatusCOMPLETED = "COMPLETED"
	TransferStatusCANCELLED = "CANCELLED"
)

// transferTransitions aristas permitidas de la máquina de estados.
// COMPLETED y CANCELLED son terminales: sin aristas de salida.
var transferTransitions = map[string][]string{
	TransferStatusPENDING:   {TransferStatusINTRANSIT, TransferStatusCANCELLED},
	TransferStatusINTRANSIT: {TransferStatusCOMPLETED, TransferStatusCANCELLED},
}

// Transfer traslado de stock entre dos sucursales, modelado como máquina de estados.
// Mientras está IN_TRANSIT con SentAt definido, la mercancía no pertenece al
// saldo de ninguna sucursal.
type Transfer struct {
	ID             string
	TransferNumber string // legible: TR-AAAAMMDD-#### (secuencia por día)
	ProductID      string
	FromBranchID   string
	ToBranchID     string
	Quantity       decimal.Decimal // en la unidad del caller
	UnitCode       string
	QuantityBase   decimal.Decimal
	Status         string
	RequestedBy    string
	RequestedAt    time.Time
	ApprovedBy     string
	ApprovedAt     *time.Time
	SentBy         string
	SentAt         *time.Time
	ReceivedBy     string
	ReceivedAt     *time.Time
	Reason         string
	Notes          []string // bitácora append-only de anotaciones libres
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal indica si el traslado ya no admite ninguna mutación.
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusCOMPLETED || t.Status == TransferStatusCANCELLED
}

// Transition valida y aplica un cambio de estado.
// ErrInvalidTransition (envuelto con estado actual y destino) si la arista no existe;
// esto hace seguros los reintentos sobre estados terminales.
func (t *Transfer) Transition(target string) error {
	for _, next := range transferTransitions[t.Status] {
		if next == target {
			t.Status = target
			return nil
		}
	}
	return domain.NewTransitionError(t.Status, target)
}

// CanTransition indica si existe la arista Status → target sin aplicarla.
func (t *Transfer) CanTransition(target string) bool {
	for _, next := range transferTransitions[t.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// AppendNote agrega una anotación a la bitácora del traslado.
func (t *Transfer) AppendNote(note string) {
	if note == "" {
		return
	}
	t.Notes = append(t.Notes, note)
}

// ReservationHeld indica si el traslado mantiene una reserva viva en la
// sucursal origen: aprobado (reserva tomada) pero aún no enviado (reserva liberada al enviar).
func (t *Transfer) ReservationHeld() bool {
	return t.ApprovedAt != nil && t.SentAt == nil
}
