package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN          = "IN"           // entrada genérica
	MovementTypePURCHASE    = "PURCHASE"     // entrada por compra
	MovementTypeRETURN      = "RETURN"       // devolución de cliente
	MovementTypeTRANSFERIN  = "TRANSFER_IN"  // entrada por traslado entre sucursales
	MovementTypeOUT         = "OUT"          // salida genérica
	MovementTypeSALE        = "SALE"         // salida por venta/dispensación
	MovementTypeDAMAGED     = "DAMAGED"      // baja por daño
	MovementTypeEXPIRED     = "EXPIRED"      // baja por vencimiento
	MovementTypeTRANSFEROUT = "TRANSFER_OUT" // salida por traslado entre sucursales
	MovementTypeADJUSTMENT  = "ADJUSTMENT"   // ajuste con signo del caller
	MovementTypeRESERVATION = "RESERVATION"  // bloqueo de disponible (no mueve saldo físico)
	MovementTypeRELEASE     = "RELEASE"      // liberación de una reserva
)

// MovementDirection clasifica el efecto de un tipo de movimiento sobre el saldo.
type MovementDirection int

const (
	DirectionIncrease MovementDirection = iota // suma al saldo
	DirectionDecrease                          // resta del saldo
	DirectionSigned                            // signo tomado de la cantidad del caller (ADJUSTMENT)
	DirectionNeutral                           // solo auditoría; el saldo físico no cambia
)

// movementDirections tabla única tipo → dirección; evita ramificar por strings
// en cada punto que necesita el signo.
var movementDirections = map[string]MovementDirection{
	MovementTypeIN:          DirectionIncrease,
	MovementTypePURCHASE:    DirectionIncrease,
	MovementTypeRETURN:      DirectionIncrease,
	MovementTypeTRANSFERIN:  DirectionIncrease,
	MovementTypeOUT:         DirectionDecrease,
	MovementTypeSALE:        DirectionDecrease,
	MovementTypeDAMAGED:     DirectionDecrease,
	MovementTypeEXPIRED:     DirectionDecrease,
	MovementTypeTRANSFEROUT: DirectionDecrease,
	MovementTypeADJUSTMENT:  DirectionSigned,
	MovementTypeRESERVATION: DirectionNeutral,
	MovementTypeRELEASE:     DirectionNeutral,
}

// DirectionOf devuelve la dirección de un tipo de movimiento.
// ok = false si el tipo no está declarado en la tabla.
func DirectionOf(movementType string) (MovementDirection, bool) {
	d, ok := movementDirections[movementType]
	return d, ok
}

// SignedDelta traduce (tipo, cantidad en unidades base) al delta con signo que
// se aplica sobre Stock.Quantity. qtyBase llega sin signo salvo en ADJUSTMENT,
// donde el caller entrega la cantidad firmada.
func SignedDelta(movementType string, qtyBase decimal.Decimal) decimal.Decimal {
	switch movementDirections[movementType] {
	case DirectionIncrease:
		return qtyBase.Abs()
	case DirectionDecrease:
		return qtyBase.Abs().Neg()
	case DirectionSigned:
		return qtyBase
	default:
		return decimal.Zero
	}
}

// StockMovement registro inmutable del libro de movimientos (append-only).
// BalanceBefore/BalanceAfter capturan el saldo físico en unidades base
// alrededor de la aplicación del delta; nunca se edita ni se borra: una
// corrección es siempre un movimiento compensatorio nuevo.
type StockMovement struct {
	ID            string
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal // cantidad en la unidad del caller
	UnitCode      string
	QuantityBase  decimal.Decimal // cantidad en unidades base (firmada en ADJUSTMENT/reservas)
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReferenceType string // entidad externa que causó el movimiento (factura, receta...)
	ReferenceID   string
	TransferID    string
	UnitCost      *decimal.Decimal
	TotalCost     *decimal.Decimal
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
