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

// ReservationUseCase bloquea y libera disponible sin mover el saldo físico.
// Cada reserva/liberación deja un registro de auditoría en el mismo libro de
// movimientos: las reservas bloquean stock a otros consumidores aunque no
// cambien el saldo físico, así que deben ser rastreables igual que una salida.
type ReservationUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *ReservationUseCase {
	return &ReservationUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// ReservationInputDTO entrada para reservar o liberar stock.
type ReservationInputDTO struct {
	ProductID     string
	BranchID      string
	Quantity      decimal.Decimal
	UnitCode      string
	UserID        string
	ReferenceType string
	ReferenceID   string
	Notes         string
}

// Reserve bloquea cantidad contra el disponible del par (producto, sucursal).
// ErrInsufficientStock si la cantidad supera el disponible; nada se muta en ese caso.
func (uc *ReservationUseCase) Reserve(ctx context.Context, input ReservationInputDTO) (*entity.StockMovement, error) {
	return uc.apply(ctx, input, entity.MovementTypeRESERVATION)
}

// Release libera una reserva previa. ErrOverRelease si excede lo reservado.
func (uc *ReservationUseCase) Release(ctx context.Context, input ReservationInputDTO) (*entity.StockMovement, error) {
	return uc.apply(ctx, input, entity.MovementTypeRELEASE)
}

func (uc *ReservationUseCase) apply(ctx context.Context, input ReservationInputDTO, movType string) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.BranchID == "" || input.UserID == "" {
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
		created, err = applyReservation(movRepo, stockRepo, reservationParams{
			ProductID:     input.ProductID,
			BranchID:      input.BranchID,
			Type:          movType,
			Quantity:      input.Quantity,
			UnitCode:      input.UnitCode,
			QuantityBase:  qtyBase,
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
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

// reservationParams parámetros internos para reservar/liberar dentro de una tx
// ya abierta. Lo comparte el flujo de traslados (approve/send/cancel).
type reservationParams struct {
	ProductID     string
	BranchID      string
	Type          string // RESERVATION o RELEASE
	Quantity      decimal.Decimal
	UnitCode      string
	QuantityBase  decimal.Decimal
	ReferenceType string
	ReferenceID   string
	TransferID    string
	Notes         string
	UserID        string
	Now           time.Time
}

// applyReservation bloquea la fila de stock, mueve solo ReservedQuantity y deja
// el registro de auditoría: QuantityBase negativa documenta el bloqueo de
// disponible, positiva la liberación; el saldo físico no cambia
// (BalanceBefore == BalanceAfter).
func applyReservation(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	p reservationParams,
) (*entity.StockMovement, error) {
	stock, err := stockRepo.GetForUpdate(p.ProductID, p.BranchID)
	if err != nil {
		return nil, err
	}

	virtualQty := p.QuantityBase.Abs().Neg()
	if p.Type == entity.MovementTypeRELEASE {
		virtualQty = p.QuantityBase.Abs()
		err = stock.Unreserve(p.QuantityBase.Abs())
	} else {
		err = stock.Reserve(p.QuantityBase.Abs())
	}
	if err != nil {
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
		QuantityBase:  virtualQty,
		BalanceBefore: stock.Quantity,
		BalanceAfter:  stock.Quantity,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
		TransferID:    p.TransferID,
		Notes:         p.Notes,
		CreatedBy:     p.UserID,
		CreatedAt:     p.Now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
