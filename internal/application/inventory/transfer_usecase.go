package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TransferUseCase orquesta la máquina de estados de traslados entre sucursales:
// PENDING → IN_TRANSIT → COMPLETED, con CANCELLED alcanzable desde PENDING e
// IN_TRANSIT. Cada transición corre en una sola transacción: el movimiento del
// libro, la reserva y el cambio de estado se confirman o revierten juntos.
// Mientras la mercancía viaja (IN_TRANSIT con SentAt definido) no pertenece al
// saldo de ninguna sucursal, así que origen y destino nunca se tocan a la vez.
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	transferRepo repository.TransferRepository // lecturas fuera de tx
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	transferRepo repository.TransferRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		transferRepo: transferRepo,
	}
}

// CreateTransferInputDTO entrada para solicitar un traslado.
type CreateTransferInputDTO struct {
	ProductID    string
	FromBranchID string
	ToBranchID   string
	Quantity     decimal.Decimal
	UnitCode     string
	UserID       string
	Reason       string
}

// Request crea el traslado en estado PENDING con su consecutivo legible.
// Precondición: sucursales distintas y disponible suficiente en origen.
func (uc *TransferUseCase) Request(ctx context.Context, input CreateTransferInputDTO) (*entity.Transfer, error) {
	if input.ProductID == "" || input.FromBranchID == "" || input.ToBranchID == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromBranchID == input.ToBranchID {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	for _, branchID := range []string{input.FromBranchID, input.ToBranchID} {
		branch, err := uc.branchRepo.GetByID(branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
	}

	qtyBase, err := domaininv.ToBase(input.Quantity, input.UnitCode, product)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var created *entity.Transfer
	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.ProductID, input.FromBranchID)
		if err != nil {
			return err
		}
		if qtyBase.GreaterThan(stock.Available()) {
			return domain.ErrInsufficientStock
		}

		number, err := transferRepo.NextTransferNumber(now)
		if err != nil {
			return err
		}
		created = &entity.Transfer{
			TransferNumber: number,
			ProductID:      input.ProductID,
			FromBranchID:   input.FromBranchID,
			ToBranchID:     input.ToBranchID,
			Quantity:       input.Quantity,
			UnitCode:       input.UnitCode,
			QuantityBase:   qtyBase,
			Status:         entity.TransferStatusPENDING,
			RequestedBy:    input.UserID,
			RequestedAt:    now,
			Reason:         input.Reason,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return transferRepo.Create(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Approve reserva la cantidad en origen y pasa el traslado a IN_TRANSIT.
// Solo válido desde PENDING.
func (uc *TransferUseCase) Approve(ctx context.Context, transferID, userID string) (*entity.Transfer, error) {
	if transferID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := lockTransfer(transferRepo, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusPENDING {
			return domain.NewTransitionError(t.Status, entity.TransferStatusINTRANSIT)
		}

		now := time.Now()
		if _, err := applyReservation(movRepo, stockRepo, reservationParams{
			ProductID:    t.ProductID,
			BranchID:     t.FromBranchID,
			Type:         entity.MovementTypeRESERVATION,
			Quantity:     t.Quantity,
			UnitCode:     t.UnitCode,
			QuantityBase: t.QuantityBase,
			TransferID:   t.ID,
			Notes:        "reserva por traslado " + t.TransferNumber,
			UserID:       userID,
			Now:          now,
		}); err != nil {
			return err
		}

		if err := t.Transition(entity.TransferStatusINTRANSIT); err != nil {
			return err
		}
		t.ApprovedBy = userID
		t.ApprovedAt = &now
		t.UpdatedAt = now
		updated = t
		return transferRepo.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Send registra la salida física en origen (TRANSFER_OUT) y libera la reserva
// en la misma transacción: la mercancía dejó la sucursal, el bloqueo ya no
// aplica. El estado sigue IN_TRANSIT (mercancía en vuelo) y se marca SentAt.
func (uc *TransferUseCase) Send(ctx context.Context, transferID, userID string) (*entity.Transfer, error) {
	if transferID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := lockTransfer(transferRepo, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusINTRANSIT || t.SentAt != nil {
			return domain.NewTransitionError(t.Status, entity.TransferStatusINTRANSIT)
		}

		now := time.Now()
		// Liberar primero la reserva: el TRANSFER_OUT descuenta contra el
		// disponible y la reserva lo dejaría bloqueado.
		if _, err := applyReservation(movRepo, stockRepo, reservationParams{
			ProductID:    t.ProductID,
			BranchID:     t.FromBranchID,
			Type:         entity.MovementTypeRELEASE,
			Quantity:     t.Quantity,
			UnitCode:     t.UnitCode,
			QuantityBase: t.QuantityBase,
			TransferID:   t.ID,
			Notes:        "liberación por envío de traslado " + t.TransferNumber,
			UserID:       userID,
			Now:          now,
		}); err != nil {
			return err
		}
		if _, err := applyMovement(movRepo, stockRepo, movementParams{
			ProductID:    t.ProductID,
			BranchID:     t.FromBranchID,
			Type:         entity.MovementTypeTRANSFEROUT,
			Quantity:     t.Quantity,
			UnitCode:     t.UnitCode,
			QuantityBase: t.QuantityBase,
			TransferID:   t.ID,
			Notes:        "envío de traslado " + t.TransferNumber,
			UserID:       userID,
			Now:          now,
		}); err != nil {
			return err
		}

		t.SentBy = userID
		t.SentAt = &now
		t.UpdatedAt = now
		updated = t
		return transferRepo.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Receive registra la entrada en destino (TRANSFER_IN) y completa el traslado.
// receivedQty permite recibir menos de lo solicitado (merma en tránsito); el
// faltante NO genera baja automática, queda a cargo de un ajuste explícito.
// Precondición: IN_TRANSIT y ya enviado.
func (uc *TransferUseCase) Receive(ctx context.Context, transferID, userID string, receivedQty *decimal.Decimal) (*entity.Transfer, error) {
	if transferID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := lockTransfer(transferRepo, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusINTRANSIT || t.SentAt == nil {
			return domain.NewTransitionError(t.Status, entity.TransferStatusCOMPLETED)
		}

		qty := t.Quantity
		if receivedQty != nil {
			if receivedQty.IsNegative() || receivedQty.GreaterThan(t.Quantity) {
				return domain.ErrInvalidInput
			}
			qty = *receivedQty
		}

		product, err := uc.productRepo.GetByID(t.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		qtyBase, err := domaininv.ToBase(qty, t.UnitCode, product)
		if err != nil {
			return err
		}

		now := time.Now()
		if qtyBase.GreaterThan(decimal.Zero) {
			if _, err := applyMovement(movRepo, stockRepo, movementParams{
				ProductID:    t.ProductID,
				BranchID:     t.ToBranchID,
				Type:         entity.MovementTypeTRANSFERIN,
				Quantity:     qty,
				UnitCode:     t.UnitCode,
				QuantityBase: qtyBase,
				TransferID:   t.ID,
				Notes:        "recepción de traslado " + t.TransferNumber,
				UserID:       userID,
				Now:          now,
			}); err != nil {
				return err
			}
		}
		if qty.LessThan(t.Quantity) {
			t.AppendNote("recibido " + qty.String() + " de " + t.Quantity.String() + " " + t.UnitCode)
		}

		if err := t.Transition(entity.TransferStatusCOMPLETED); err != nil {
			return err
		}
		t.ReceivedBy = userID
		t.ReceivedAt = &now
		t.UpdatedAt = now
		updated = t
		return transferRepo.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel cancela un traslado PENDING o IN_TRANSIT. Si la reserva sigue viva
// (aprobado pero no enviado) la libera en la misma transacción; la razón se
// agrega a la bitácora del traslado.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID, userID, reason string) (*entity.Transfer, error) {
	if transferID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := lockTransfer(transferRepo, transferID)
		if err != nil {
			return err
		}
		if !t.CanTransition(entity.TransferStatusCANCELLED) {
			return domain.NewTransitionError(t.Status, entity.TransferStatusCANCELLED)
		}

		now := time.Now()
		if t.ReservationHeld() {
			if _, err := applyReservation(movRepo, stockRepo, reservationParams{
				ProductID:    t.ProductID,
				BranchID:     t.FromBranchID,
				Type:         entity.MovementTypeRELEASE,
				Quantity:     t.Quantity,
				UnitCode:     t.UnitCode,
				QuantityBase: t.QuantityBase,
				TransferID:   t.ID,
				Notes:        "liberación por cancelación de traslado " + t.TransferNumber,
				UserID:       userID,
				Now:          now,
			}); err != nil {
				return err
			}
		}

		if err := t.Transition(entity.TransferStatusCANCELLED); err != nil {
			return err
		}
		if reason != "" {
			t.AppendNote("cancelado: " + reason)
		}
		t.UpdatedAt = now
		updated = t
		return transferRepo.Update(t)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID devuelve un traslado por ID. ErrNotFound si no existe.
func (uc *TransferUseCase) GetByID(ctx context.Context, transferID string) (*entity.Transfer, error) {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados, opcionalmente filtrados por estado.
func (uc *TransferUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	if status != "" {
		if _, ok := map[string]bool{
			entity.TransferStatusPENDING:   true,
			entity.TransferStatusINTRANSIT: true,
			entity.TransferStatusCOMPLETED: true,
			entity.TransferStatusCANCELLED: true,
		}[status]; !ok {
			return nil, domain.ErrInvalidInput
		}
	}
	return uc.transferRepo.List(status, limit, offset)
}

// FindStale devuelve traslados no terminales con más de maxAge de antigüedad.
// No cancela nada: la cancelación siempre es una acción explícita.
func (uc *TransferUseCase) FindStale(ctx context.Context, maxAge time.Duration) ([]*entity.Transfer, error) {
	if maxAge <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.transferRepo.FindPendingTooLong(time.Now().Add(-maxAge))
}

// lockTransfer obtiene el traslado con la fila bloqueada. ErrNotFound si no existe.
func lockTransfer(transferRepo repository.TransferRepository, id string) (*entity.Transfer, error) {
	t, err := transferRepo.GetForUpdate(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}
