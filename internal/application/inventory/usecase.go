package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de stock de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback: el update del
// saldo y el registro en el libro nunca divergen.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// MovementInputDTO entrada para registrar un movimiento de stock.
// Quantity va en la unidad indicada por UnitCode; en ADJUSTMENT lleva el signo
// del caller, en el resto de tipos debe ser positiva.
type MovementInputDTO struct {
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal
	UnitCode      string
	UserID        string
	ReferenceType string
	ReferenceID   string
	UnitCost      *decimal.Decimal
	Notes         string
}

// RegisterMovement valida la entrada, convierte a unidades base y aplica el
// movimiento dentro de una transacción. Devuelve el registro del libro creado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	direction, ok := entity.DirectionOf(input.Type)
	if !ok || direction == entity.DirectionNeutral {
		// RESERVATION/RELEASE solo se generan vía ReservationUseCase
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.BranchID == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if direction != entity.DirectionSigned && input.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(input.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	qtyBase, err := domaininv.ToBase(input.Quantity, input.UnitCode, product)
	if err != nil {
		return nil, err
	}

	var created *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.TransferRepository,
	) error {
		created, err = applyMovement(movRepo, stockRepo, movementParams{
			ProductID:     input.ProductID,
			BranchID:      input.BranchID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			UnitCode:      input.UnitCode,
			QuantityBase:  qtyBase,
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
			UnitCost:      input.UnitCost,
			Notes:         input.Notes,
			UserID:        input.UserID,
			Now:           time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// movementParams parámetros internos para aplicar un movimiento dentro de una tx
// ya abierta. Lo comparten el registro directo y el flujo de traslados.
type movementParams struct {
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal
	UnitCode      string
	QuantityBase  decimal.Decimal
	ReferenceType string
	ReferenceID   string
	TransferID    string
	UnitCost      *decimal.Decimal
	Notes         string
	UserID        string
	Now           time.Time
}

// applyMovement bloquea la fila de stock, aplica el delta con signo, captura
// saldo antes/después y persiste el registro inmutable del libro.
// Una salida que dejaría el saldo negativo falla con ErrInsufficientStock y no
// muta nada (el rollback de la tx lo garantiza).
func applyMovement(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	p movementParams,
) (*entity.StockMovement, error) {
	stock, err := stockRepo.GetForUpdate(p.ProductID, p.BranchID)
	if err != nil {
		return nil, err
	}

	delta := entity.SignedDelta(p.Type, p.QuantityBase)
	balanceBefore := stock.Quantity

	if err := stock.ApplyDelta(delta); err != nil {
		if errors.Is(err, domain.ErrNegativeBalance) || errors.Is(err, domain.ErrBelowReserved) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, err
	}
	stock.UpdatedAt = p.Now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ProductID:     p.ProductID,
		BranchID:      p.BranchID,
		Type:          p.Type,
		Quantity:      p.Quantity,
		UnitCode:      p.UnitCode,
		QuantityBase:  p.QuantityBase,
		BalanceBefore: balanceBefore,
		BalanceAfter:  stock.Quantity,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
		TransferID:    p.TransferID,
		UnitCost:      p.UnitCost,
		Notes:         p.Notes,
		CreatedBy:     p.UserID,
		CreatedAt:     p.Now,
	}
	if p.UnitCost != nil {
		total := p.UnitCost.Mul(p.QuantityBase.Abs())
		mov.TotalCost = &total
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
